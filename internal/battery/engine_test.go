package battery

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/fdg312/energy-hub/internal/config"
	"github.com/fdg312/energy-hub/internal/weather"
)

func testPolicy() config.BatteryPolicy {
	return config.BatteryPolicy{
		BaseDrainPerHour:     -4.5,
		StandardMultiplier:   1.0,
		AthleteMultiplier:    1.1,
		HeatThresholdC:       30,
		HumidityThresholdPct: 60,
		HeatFactorPerC:       0.02,
		PressureDropHPa:      2,
		PressureDropBase:     0.1,
		PressureFactorPerHPa: 0.05,
		MaxEnvironmentFactor: 2.0,
	}
}

func TestMorningCharge(t *testing.T) {
	engine := NewEngine(testPolicy())

	charge, err := engine.MorningCharge(80, 80, ModeStandard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if charge < 70 {
		t.Errorf("80/80 standard must start at 70+, got %v", charge)
	}
	if charge != 80 {
		t.Errorf("equal blend of 80/80 expected 80, got %v", charge)
	}

	charge, _ = engine.MorningCharge(80, 80, ModeAthlete)
	if math.Abs(charge-88) > 1e-9 {
		t.Errorf("athlete multiplier expected 88, got %v", charge)
	}

	// Множитель атлета не выводит заряд за 100.
	charge, _ = engine.MorningCharge(100, 100, ModeAthlete)
	if charge != 100 {
		t.Errorf("expected clamp at 100, got %v", charge)
	}

	if _, err := engine.MorningCharge(120, 80, ModeStandard); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("expected ErrInvalidScore, got %v", err)
	}
}

func TestEnvironmentFactor(t *testing.T) {
	engine := NewEngine(testPolicy())
	now := time.Now()

	neutral := weather.Neutral(now)
	if f := engine.EnvironmentFactor(neutral); f != 1.0 {
		t.Errorf("neutral conditions expected factor 1.0, got %v", f)
	}

	// Жара считается только в связке с влажностью.
	hotDry := weather.WeatherSample{TemperatureC: 35, HumidityPct: 40, ObservedAt: now}
	if f := engine.EnvironmentFactor(hotDry); f != 1.0 {
		t.Errorf("hot but dry expected 1.0, got %v", f)
	}

	hotHumid := weather.WeatherSample{TemperatureC: 35, HumidityPct: 70, ObservedAt: now}
	if f := engine.EnvironmentFactor(hotHumid); math.Abs(f-1.1) > 1e-9 {
		t.Errorf("35C/70%% expected 1.1, got %v", f)
	}

	falling := weather.WeatherSample{TemperatureC: 20, HumidityPct: 50, PressureChangeHPa: -5, ObservedAt: now}
	if f := engine.EnvironmentFactor(falling); math.Abs(f-1.25) > 1e-9 {
		t.Errorf("5 hPa drop expected 1.25, got %v", f)
	}

	// Рост давления фактор не снижает.
	rising := weather.WeatherSample{TemperatureC: 20, HumidityPct: 50, PressureChangeHPa: +5, ObservedAt: now}
	if f := engine.EnvironmentFactor(rising); f != 1.0 {
		t.Errorf("rising pressure expected 1.0, got %v", f)
	}

	extreme := weather.WeatherSample{TemperatureC: 48, HumidityPct: 95, PressureChangeHPa: -30, ObservedAt: now}
	if f := engine.EnvironmentFactor(extreme); f != 2.0 {
		t.Errorf("extreme conditions expected cap 2.0, got %v", f)
	}
}

func TestEnvironmentFactorMonotoneInHeat(t *testing.T) {
	engine := NewEngine(testPolicy())
	prev := 0.0
	for temp := 25.0; temp <= 45; temp++ {
		f := engine.EnvironmentFactor(weather.WeatherSample{TemperatureC: temp, HumidityPct: 80})
		if f < prev {
			t.Fatalf("factor decreased at %vC: %v < %v", temp, f, prev)
		}
		prev = f
	}
}

func TestLevelRecomputedOnRead(t *testing.T) {
	engine := NewEngine(testPolicy())
	morning := time.Date(2026, 8, 30, 7, 0, 0, 0, time.UTC)

	b, err := engine.NewDay(80, 80, ModeStandard, weather.Neutral(morning), morning)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.CurrentLevel != 80 || b.State != StateHigh {
		t.Fatalf("fresh battery: got %+v", b)
	}

	// Через 4 часа при -4.5%/ч: 80 - 18 = 62.
	b = engine.Level(b, morning.Add(4*time.Hour))
	if math.Abs(b.CurrentLevel-62) > 1e-9 || b.State != StateMedium {
		t.Errorf("after 4h expected 62/medium, got %v/%s", b.CurrentLevel, b.State)
	}

	// Уровень не уходит в минус.
	b = engine.Level(b, morning.Add(48*time.Hour))
	if b.CurrentLevel != 0 || b.State != StateCritical {
		t.Errorf("after 48h expected 0/critical, got %v/%s", b.CurrentLevel, b.State)
	}
}

func TestProjectedEnd(t *testing.T) {
	engine := NewEngine(testPolicy())
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	b := HumanBattery{CurrentLevel: 50, DrainRate: -10}
	end, err := engine.ProjectedEnd(b, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := now.Add(5 * time.Hour); !end.Equal(want) {
		t.Errorf("expected %v, got %v", want, end)
	}

	b.DrainRate = 0
	if _, err := engine.ProjectedEnd(b, now); !errors.Is(err, ErrNoDepletion) {
		t.Errorf("expected ErrNoDepletion, got %v", err)
	}
}

func TestClassifyStateBoundaries(t *testing.T) {
	cases := []struct {
		level float64
		want  string
	}{
		{100, StateHigh},
		{80, StateHigh},
		{79.9, StateMedium},
		{40, StateMedium},
		{39.9, StateLow},
		{20, StateLow},
		{19.9, StateCritical},
		{0, StateCritical},
	}
	for _, tc := range cases {
		if got := ClassifyState(tc.level); got != tc.want {
			t.Errorf("level %v: expected %s, got %s", tc.level, tc.want, got)
		}
	}
}
