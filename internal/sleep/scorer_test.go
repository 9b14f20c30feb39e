package sleep

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/fdg312/energy-hub/internal/config"
)

func testPolicy() config.ScoringPolicy {
	return config.ScoringPolicy{
		SleepIdealMinHours: 7,
		SleepIdealMaxHours: 9,
		SleepZeroMinHours:  4,
		SleepZeroMaxHours:  12,
		DeepRatioMin:       0.15,
		DeepRatioMax:       0.20,
		RemRatioMin:        0.20,
		RemRatioMax:        0.25,
		RatioFalloffPct:    10,
		DeepFallbackRatio:  0.17,
		RemFallbackRatio:   0.22,
		EfficiencyFull:     0.85,
		EfficiencyZero:     0.50,
	}
}

func fp(v float64) *float64 { return &v }

func TestScoreIdealNight(t *testing.T) {
	// 7.5h, deep 17%, rem 22%, efficiency 0.88, bedtime 23:00 → все компоненты у максимума.
	scorer := NewScorer(testPolicy())
	total := 7.5 * 60
	sample := SleepSample{
		Date:           "2026-08-30",
		Bedtime:        "23:00",
		WakeTime:       "06:30",
		TotalHours:     7.5,
		TimeInBedHours: 8.0,
		DeepMinutes:    fp(total * 0.17),
		RemMinutes:     fp(total * 0.22),
		Efficiency:     fp(0.88),
	}

	res, err := scorer.Score(sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.DurationPoints != 40 {
		t.Errorf("expected full duration credit, got %v", res.DurationPoints)
	}
	if res.DeepRatioPoints != 25 {
		t.Errorf("expected full deep credit, got %v", res.DeepRatioPoints)
	}
	if res.RemRatioPoints != 20 {
		t.Errorf("expected full rem credit, got %v", res.RemRatioPoints)
	}
	if res.EfficiencyPoints != 10 {
		t.Errorf("expected full efficiency credit, got %v", res.EfficiencyPoints)
	}
	if res.TimingPoints != 5 {
		t.Errorf("expected full timing credit, got %v", res.TimingPoints)
	}
	if res.Score < 80 {
		t.Errorf("expected optimal band (>=80), got %d", res.Score)
	}
	if res.DeepEstimated || res.RemEstimated || res.EfficiencyDefaulted {
		t.Error("measured inputs must not be flagged as estimated")
	}
}

func TestScoreFallbackRatios(t *testing.T) {
	// Без стадий сна — оценка по фолбэк-долям (17% / 22%), отмеченная флагами.
	scorer := NewScorer(testPolicy())
	sample := SleepSample{
		Date:           "2026-08-30",
		Bedtime:        "23:30",
		WakeTime:       "07:00",
		TotalHours:     7.5,
		TimeInBedHours: 7.8,
	}

	res, err := scorer.Score(sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.DeepEstimated || !res.RemEstimated {
		t.Error("missing stage data must be flagged as estimated")
	}
	if !res.EfficiencyDefaulted {
		t.Error("missing efficiency must be flagged as defaulted")
	}
	if res.EfficiencyPoints != 5 {
		t.Errorf("expected neutral 5 efficiency points, got %v", res.EfficiencyPoints)
	}
	// Fallback ratios sit inside the ideal bands → full ratio credit.
	if res.DeepRatioPoints != 25 || res.RemRatioPoints != 20 {
		t.Errorf("expected full ratio credit from fallback, got deep=%v rem=%v",
			res.DeepRatioPoints, res.RemRatioPoints)
	}
}

func TestScoreZeroDuration(t *testing.T) {
	scorer := NewScorer(testPolicy())
	sample := SleepSample{
		Date:           "2026-08-30",
		Bedtime:        "23:00",
		WakeTime:       "23:00",
		TotalHours:     0,
		TimeInBedHours: 0,
	}

	res, err := scorer.Score(sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Только тайминг может дать очки; долевые компоненты пропущены.
	if res.Score != 5 {
		t.Errorf("expected score 5 (timing only), got %d", res.Score)
	}
	if res.DeepRatioPoints != 0 || res.RemRatioPoints != 0 || res.EfficiencyPoints != 0 {
		t.Error("ratio components must be skipped at zero duration")
	}
}

func TestScoreDurationFalloff(t *testing.T) {
	scorer := NewScorer(testPolicy())

	cases := []struct {
		hours float64
		want  float64
	}{
		{4, 0},
		{5.5, 20}, // halfway between 4h and 7h
		{7, 40},
		{9, 40},
		{10.5, 20}, // halfway between 9h and 12h
		{12, 0},
		{13, 0},
	}
	for _, tc := range cases {
		got := scorer.durationPoints(tc.hours)
		if got != tc.want {
			t.Errorf("duration %vh: expected %v pts, got %v", tc.hours, tc.want, got)
		}
	}
}

func TestScoreTimingWindow(t *testing.T) {
	scorer := NewScorer(testPolicy())

	cases := []struct {
		bedtime string
		want    float64
	}{
		{"22:00", 5},
		{"23:59", 5},
		{"00:00", 5},
		{"00:01", 0},
		{"21:59", 0},
	}
	for _, tc := range cases {
		if got := scorer.timingPoints(tc.bedtime); got != tc.want {
			t.Errorf("bedtime %s: expected %v, got %v", tc.bedtime, tc.want, got)
		}
	}
}

func TestScoreValidation(t *testing.T) {
	scorer := NewScorer(testPolicy())

	bad := []SleepSample{
		{Date: "30-08-2026", Bedtime: "23:00", WakeTime: "07:00", TotalHours: 8},
		{Date: "2026-08-30", Bedtime: "25:00", WakeTime: "07:00", TotalHours: 8},
		{Date: "2026-08-30", Bedtime: "23:00", WakeTime: "07:00", TotalHours: -1},
		{Date: "2026-08-30", Bedtime: "23:00", WakeTime: "07:00", TotalHours: 8, Efficiency: fp(1.5)},
	}
	for i, sample := range bad {
		if _, err := scorer.Score(sample); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}

	_, err := scorer.Score(SleepSample{Date: "2026-08-30", Bedtime: "23:00", WakeTime: "07:00", TotalHours: 8, Efficiency: fp(1.5)})
	if !errors.Is(err, ErrInvalidEfficiency) {
		t.Errorf("expected ErrInvalidEfficiency, got %v", err)
	}
}

func TestScoreClampedOnRandomInputs(t *testing.T) {
	scorer := NewScorer(testPolicy())
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		hours := rng.Float64() * 16
		sample := SleepSample{
			Date:           "2026-08-30",
			Bedtime:        "23:00",
			WakeTime:       "07:00",
			TotalHours:     hours,
			TimeInBedHours: hours + rng.Float64(),
			DeepMinutes:    fp(rng.Float64() * hours * 60),
			RemMinutes:     fp(rng.Float64() * hours * 60),
			Efficiency:     fp(rng.Float64()),
		}
		res, err := scorer.Score(sample)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Score < 0 || res.Score > 100 {
			t.Fatalf("score out of range: %d", res.Score)
		}
	}
}

func TestScoreIdempotent(t *testing.T) {
	scorer := NewScorer(testPolicy())
	sample := SleepSample{
		Date:           "2026-08-30",
		Bedtime:        "23:00",
		WakeTime:       "06:30",
		TotalHours:     7.5,
		TimeInBedHours: 8,
		Efficiency:     fp(0.9),
	}

	first, err := scorer.Score(sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := scorer.Score(sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("scorer is not idempotent: %+v vs %+v", first, second)
	}
}
