package hrv

import (
	"math"
	"testing"
	"time"

	"github.com/fdg312/energy-hub/internal/config"
	"github.com/fdg312/energy-hub/internal/statkit"
)

func testPolicy() config.ScoringPolicy {
	return config.ScoringPolicy{
		HRVBaselineMinDays:   14,
		HRVFullDeviationPct:  20,
		HRVZeroDeviationPct:  50,
		RestingHRZeroOverBPM: 15,
	}
}

func history(values ...float64) []statkit.Sample {
	anchor := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	samples := make([]statkit.Sample, len(values))
	for i, v := range values {
		samples[i] = statkit.Sample{Date: anchor.AddDate(0, 0, i), Value: v}
	}
	return samples
}

func baseline(hrvMean, hrMean float64, days int) *Baseline {
	return &Baseline{HRVMeanMS: hrvMean, RestingHRMean: hrMean, Days: days}
}

func TestScoreWithinBaselineBand(t *testing.T) {
	// current=72, baseline=66 → отклонение ≈ +9%, внутри ±20% → полные 50.
	scorer := NewScorer(testPolicy())
	in := Input{
		Sample:   HRVSample{Date: "2026-08-30", CurrentMS: 72, RestingHRBPM: 58},
		Baseline: baseline(66, 60, 30),
		History:  history(60, 62, 64, 66, 68, 70, 72),
	}

	res, err := scorer.Score(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.BaselinePoints != 50 {
		t.Errorf("expected full baseline component, got %v", res.BaselinePoints)
	}
	if res.Trend != statkit.TrendRising || res.TrendPoints != 25 {
		t.Errorf("expected rising trend worth 25, got %s/%v", res.Trend, res.TrendPoints)
	}
	if res.RestingHRPoints != 25 {
		t.Errorf("expected full resting HR component, got %v", res.RestingHRPoints)
	}
	if res.UsedAbsoluteFallback {
		t.Error("30 days of history must not trigger the absolute fallback")
	}
	if res.Score != 100 {
		t.Errorf("expected 100, got %d", res.Score)
	}
}

func TestScoreBaselineMonotonicDecay(t *testing.T) {
	// За пределами ±20% компонент строго убывает с ростом отклонения.
	scorer := NewScorer(testPolicy())
	base := baseline(60, 60, 30)

	prev := math.MaxFloat64
	for _, current := range []float64{72, 78, 84, 88, 90} { // +20%..+50%
		res, err := scorer.Score(Input{
			Sample:   HRVSample{Date: "2026-08-30", CurrentMS: current, RestingHRBPM: 60},
			Baseline: base,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.BaselinePoints > prev {
			t.Errorf("baseline component must not grow with deviation: %v pts at %vms", res.BaselinePoints, current)
		}
		prev = res.BaselinePoints
	}

	// На ±50% и дальше — ноль.
	res, _ := scorer.Score(Input{
		Sample:   HRVSample{Date: "2026-08-30", CurrentMS: 90, RestingHRBPM: 60},
		Baseline: base,
	})
	if res.BaselinePoints != 0 {
		t.Errorf("expected 0 at +50%% deviation, got %v", res.BaselinePoints)
	}
}

func TestScoreRestingHRPenalty(t *testing.T) {
	scorer := NewScorer(testPolicy())
	base := baseline(60, 60, 30)

	cases := []struct {
		bpm  float64
		want float64
	}{
		{55, 25},   // below baseline
		{60, 25},   // equal
		{67.5, 12.5}, // halfway to +15
		{75, 0},    // +15 and beyond
		{90, 0},
	}
	for _, tc := range cases {
		res, err := scorer.Score(Input{
			Sample:   HRVSample{Date: "2026-08-30", CurrentMS: 60, RestingHRBPM: tc.bpm},
			Baseline: base,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.RestingHRPoints != tc.want {
			t.Errorf("resting HR %v: expected %v pts, got %v", tc.bpm, tc.want, res.RestingHRPoints)
		}
	}
}

func TestScoreAbsoluteFallback(t *testing.T) {
	scorer := NewScorer(testPolicy())

	// Меньше 14 дней истории → фолбэк, какой бы ни была база.
	for _, in := range []Input{
		{Sample: HRVSample{Date: "2026-08-30", CurrentMS: 55, RestingHRBPM: 58}},
		{Sample: HRVSample{Date: "2026-08-30", CurrentMS: 55, RestingHRBPM: 58}, Baseline: baseline(60, 60, 13)},
	} {
		res, err := scorer.Score(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.UsedAbsoluteFallback {
			t.Error("short history must set UsedAbsoluteFallback")
		}
		if res.BaselinePoints != 40 {
			t.Errorf("55ms → expected 40 absolute points, got %v", res.BaselinePoints)
		}
		if res.RestingHRPoints != 18 {
			t.Errorf("58bpm → expected 18 absolute points, got %v", res.RestingHRPoints)
		}
	}
}

func TestScoreFallbackNeverNaN(t *testing.T) {
	scorer := NewScorer(testPolicy())

	// База с нулевым средним не должна породить NaN даже если Days проходит порог.
	res, err := scorer.Score(Input{
		Sample:   HRVSample{Date: "2026-08-30", CurrentMS: 50, RestingHRBPM: 60},
		Baseline: baseline(0, 0, 30),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.IsNaN(res.BaselinePoints) || math.IsNaN(res.RestingHRPoints) {
		t.Error("zero baseline produced NaN")
	}
	if res.Score < 0 || res.Score > 100 {
		t.Errorf("score out of range: %d", res.Score)
	}
}

func TestScoreTrendDiscrete(t *testing.T) {
	scorer := NewScorer(testPolicy())
	base := baseline(60, 60, 30)

	cases := []struct {
		history []statkit.Sample
		want    float64
	}{
		{history(50, 54, 58, 62, 66, 70, 74), 25},
		{history(60, 60, 60, 60, 60, 60, 60), 12},
		{history(74, 70, 66, 62, 58, 54, 50), 0},
		{nil, 12}, // нет истории — тренд плоский
	}
	for i, tc := range cases {
		res, err := scorer.Score(Input{
			Sample:   HRVSample{Date: "2026-08-30", CurrentMS: 60, RestingHRBPM: 60},
			Baseline: base,
			History:  tc.history,
		})
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		if res.TrendPoints != tc.want {
			t.Errorf("case %d: expected %v trend points, got %v", i, tc.want, res.TrendPoints)
		}
	}
}

func TestScoreValidation(t *testing.T) {
	scorer := NewScorer(testPolicy())

	if _, err := scorer.Score(Input{Sample: HRVSample{Date: "2026-08-30", CurrentMS: 0, RestingHRBPM: 60}}); err == nil {
		t.Error("expected error for non-positive HRV")
	}
	if _, err := scorer.Score(Input{Sample: HRVSample{Date: "bad", CurrentMS: 60, RestingHRBPM: 60}}); err == nil {
		t.Error("expected error for bad date")
	}
}
