package battery

import (
	"time"

	"github.com/fdg312/energy-hub/internal/config"
	"github.com/fdg312/energy-hub/internal/weather"
)

// Engine — чистый движок дневной батареи.
type Engine struct {
	policy config.BatteryPolicy
}

func NewEngine(policy config.BatteryPolicy) *Engine {
	return &Engine{policy: policy}
}

// MorningCharge считает стартовый заряд дня: сон и HRV поровну определяют
// энергию, режим профиля масштабирует итог. Результат зажат в 0..100.
func (e *Engine) MorningCharge(sleepScore, hrvScore int, mode Mode) (float64, error) {
	if sleepScore < 0 || sleepScore > 100 || hrvScore < 0 || hrvScore > 100 {
		return 0, ErrInvalidScore
	}
	base := 0.5*float64(sleepScore) + 0.5*float64(hrvScore)
	charge := base * e.modeMultiplier(mode)
	if charge < 0 {
		charge = 0
	}
	if charge > 100 {
		charge = 100
	}
	return charge, nil
}

// EnvironmentFactor — множитель скорости разряда, всегда ≥ 1.0 и не выше
// потолка. Жара в связке с влажностью и падение давления ускоряют разряд.
// На уровень батареи фактор напрямую никогда не влияет.
func (e *Engine) EnvironmentFactor(w weather.WeatherSample) float64 {
	factor := 1.0

	if w.TemperatureC > e.policy.HeatThresholdC && w.HumidityPct > e.policy.HumidityThresholdPct {
		factor += (w.TemperatureC - e.policy.HeatThresholdC) * e.policy.HeatFactorPerC
	}

	drop := -w.PressureChangeHPa
	if drop > e.policy.PressureDropHPa {
		factor += e.policy.PressureDropBase +
			(drop-e.policy.PressureDropHPa)*e.policy.PressureFactorPerHPa
	}

	if factor > e.policy.MaxEnvironmentFactor {
		factor = e.policy.MaxEnvironmentFactor
	}
	if factor < 1 {
		factor = 1
	}
	return factor
}

// NewDay собирает батарею на утро: заряд от сна и HRV, скорость разряда
// от базовой ставки, масштабированной погодным фактором.
func (e *Engine) NewDay(sleepScore, hrvScore int, mode Mode, w weather.WeatherSample, now time.Time) (HumanBattery, error) {
	charge, err := e.MorningCharge(sleepScore, hrvScore, mode)
	if err != nil {
		return HumanBattery{}, err
	}
	drain := e.policy.BaseDrainPerHour * e.EnvironmentFactor(w)
	b := HumanBattery{
		CurrentLevel:  charge,
		MorningCharge: charge,
		DrainRate:     drain,
		MorningAt:     now,
		LastUpdated:   now,
	}
	b.State = ClassifyState(b.CurrentLevel)
	return b, nil
}

// Level пересчитывает уровень на момент at от утреннего заряда.
// Уровень не уходит ниже нуля, состояние выводится заново при каждом чтении.
func (e *Engine) Level(b HumanBattery, at time.Time) HumanBattery {
	hours := at.Sub(b.MorningAt).Hours()
	if hours < 0 {
		hours = 0
	}
	level := b.MorningCharge + b.DrainRate*hours
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	b.CurrentLevel = level
	b.State = ClassifyState(level)
	b.LastUpdated = at
	return b
}

// ProjectedEnd — момент полного разряда: now + level/|drain| часов.
// Неотрицательная скорость разряда не даёт проекции.
func (e *Engine) ProjectedEnd(b HumanBattery, now time.Time) (time.Time, error) {
	if b.DrainRate >= 0 {
		return time.Time{}, ErrNoDepletion
	}
	hours := b.CurrentLevel / -b.DrainRate
	return now.Add(time.Duration(hours * float64(time.Hour))), nil
}

// ClassifyState — полоса состояния по текущему уровню.
func ClassifyState(level float64) string {
	switch {
	case level >= 80:
		return StateHigh
	case level >= 40:
		return StateMedium
	case level >= 20:
		return StateLow
	default:
		return StateCritical
	}
}

func (e *Engine) modeMultiplier(mode Mode) float64 {
	if mode == ModeAthlete {
		return e.policy.AthleteMultiplier
	}
	return e.policy.StandardMultiplier
}
