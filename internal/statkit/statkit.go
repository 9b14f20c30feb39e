package statkit

import (
	"math"
	"time"
)

// Trend — направление линейного тренда за окно.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendFlat    Trend = "flat"
)

// slopeDeadZone — порог наклона (единиц значения в день), ниже которого
// тренд считается плоским, чтобы шум не переключал направление.
const slopeDeadZone = 0.1

// Sample — датированное числовое значение.
type Sample struct {
	Date  time.Time
	Value float64
}

// Mean возвращает среднее. Для пустого входа ok=false.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// StdDev возвращает популяционное стандартное отклонение.
// Меньше двух значений — 0, без ошибок и деления на ноль.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, _ := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// PercentDeviation — отклонение current от baseline в процентах.
// baseline == 0 → 0 (деление на ноль исключено на уровне контракта).
func PercentDeviation(current, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (current - baseline) / baseline * 100
}

// LinearTrend классифицирует наклон МНК-прямой по датированным значениям.
// Наклон измеряется в единицах значения за сутки; |slope| < dead zone → flat.
func LinearTrend(samples []Sample) Trend {
	if len(samples) < 2 {
		return TrendFlat
	}

	// Days since the first sample as x, to keep the numbers small.
	anchor := samples[0].Date
	n := float64(len(samples))
	var sumX, sumY, sumXY, sumXX float64
	for _, s := range samples {
		x := s.Date.Sub(anchor).Hours() / 24
		sumX += x
		sumY += s.Value
		sumXY += x * s.Value
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return TrendFlat
	}
	slope := (n*sumXY - sumX*sumY) / denom

	switch {
	case slope > slopeDeadZone:
		return TrendRising
	case slope < -slopeDeadZone:
		return TrendFalling
	default:
		return TrendFlat
	}
}
