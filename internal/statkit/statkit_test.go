package statkit

import (
	"math"
	"testing"
	"time"
)

func TestMeanEmpty(t *testing.T) {
	if _, ok := Mean(nil); ok {
		t.Error("expected ok=false for empty input")
	}
}

func TestMean(t *testing.T) {
	got, ok := Mean([]float64{2, 4, 6})
	if !ok {
		t.Fatal("expected ok=true")
	}
	if got != 4 {
		t.Errorf("expected mean 4, got %v", got)
	}
}

func TestStdDevFewSamples(t *testing.T) {
	if got := StdDev(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %v", got)
	}
	if got := StdDev([]float64{42}); got != 0 {
		t.Errorf("expected 0 for single sample, got %v", got)
	}
}

func TestStdDevPopulation(t *testing.T) {
	// Population std dev of {2,4,4,4,5,5,7,9} is exactly 2.
	got := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(got-2) > 1e-9 {
		t.Errorf("expected 2, got %v", got)
	}
}

func TestStdDevIdenticalValues(t *testing.T) {
	if got := StdDev([]float64{60, 60, 60, 60, 60, 60, 60}); got != 0 {
		t.Errorf("expected 0 for identical values, got %v", got)
	}
}

func TestPercentDeviation(t *testing.T) {
	got := PercentDeviation(72, 66)
	want := (72.0 - 66.0) / 66.0 * 100
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestPercentDeviationZeroBaseline(t *testing.T) {
	if got := PercentDeviation(50, 0); got != 0 {
		t.Errorf("expected 0 for zero baseline, got %v", got)
	}
}

func trendSamples(values ...float64) []Sample {
	anchor := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	samples := make([]Sample, len(values))
	for i, v := range values {
		samples[i] = Sample{Date: anchor.AddDate(0, 0, i), Value: v}
	}
	return samples
}

func TestLinearTrendRising(t *testing.T) {
	if got := LinearTrend(trendSamples(50, 52, 54, 56, 58, 60, 62)); got != TrendRising {
		t.Errorf("expected rising, got %s", got)
	}
}

func TestLinearTrendFalling(t *testing.T) {
	if got := LinearTrend(trendSamples(62, 60, 58, 56, 54, 52, 50)); got != TrendFalling {
		t.Errorf("expected falling, got %s", got)
	}
}

func TestLinearTrendDeadZone(t *testing.T) {
	// Slope of 0.05/day is inside the dead zone — noise must not flip direction.
	if got := LinearTrend(trendSamples(60, 60.05, 60.1, 60.15, 60.2, 60.25, 60.3)); got != TrendFlat {
		t.Errorf("expected flat within dead zone, got %s", got)
	}
}

func TestLinearTrendFewSamples(t *testing.T) {
	if got := LinearTrend(trendSamples(99)); got != TrendFlat {
		t.Errorf("expected flat for single sample, got %s", got)
	}
}
