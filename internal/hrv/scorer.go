package hrv

import (
	"math"

	"github.com/fdg312/energy-hub/internal/config"
	"github.com/fdg312/energy-hub/internal/statkit"
)

// Веса компонентов, в сумме 100.
const (
	baselineWeight  = 50.0
	trendWeight     = 25.0
	restingHRWeight = 25.0

	trendFlatPoints = 12.0
)

// absoluteHRVTable — абсолютный скоринг HRV, когда личной базовой линии ещё нет.
// Пороги в мс, очки из 50-балльного компонента.
var absoluteHRVTable = []struct {
	MinMS  float64
	Points float64
}{
	{70, 50},
	{50, 40},
	{35, 28},
	{20, 15},
	{0, 8},
}

// absoluteRestingHRTable — абсолютный скоринг пульса покоя, очки из 25.
var absoluteRestingHRTable = []struct {
	MaxBPM float64
	Points float64
}{
	{55, 25},
	{65, 18},
	{75, 10},
	{math.MaxFloat64, 4},
}

// Scorer — чистый скорер HRV.
type Scorer struct {
	policy config.ScoringPolicy
}

func NewScorer(policy config.ScoringPolicy) *Scorer {
	return &Scorer{policy: policy}
}

// Score оценивает текущий HRV-снапшот в 0..100.
// При истории короче HRVBaselineMinDays сравнение с базовой линией заменяется
// абсолютной таблицей; percentDeviation против неопределённой базы не вызывается.
func (s *Scorer) Score(in Input) (Result, error) {
	if err := in.Sample.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{Trend: statkit.LinearTrend(in.History)}
	res.TrendPoints = trendPoints(res.Trend)

	if in.Baseline == nil || in.Baseline.Days < s.policy.HRVBaselineMinDays {
		res.UsedAbsoluteFallback = true
		res.BaselinePoints = absoluteHRVPoints(in.Sample.CurrentMS)
		res.RestingHRPoints = absoluteRestingHRPoints(in.Sample.RestingHRBPM)
	} else {
		res.BaselinePoints = s.baselinePoints(in.Sample.CurrentMS, in.Baseline.HRVMeanMS)
		res.RestingHRPoints = s.restingHRPoints(in.Sample.RestingHRBPM, in.Baseline.RestingHRMean)
	}

	res.Score = clampScore(res.BaselinePoints + res.TrendPoints + res.RestingHRPoints)
	return res, nil
}

// baselinePoints: полные 50 при |отклонении| в пределах ±20%,
// линейный спад до нуля к ±50%.
func (s *Scorer) baselinePoints(current, baseline float64) float64 {
	dev := math.Abs(statkit.PercentDeviation(current, baseline))
	full := s.policy.HRVFullDeviationPct
	zero := s.policy.HRVZeroDeviationPct
	switch {
	case dev <= full:
		return baselineWeight
	case dev >= zero:
		return 0
	default:
		return baselineWeight * (zero - dev) / (zero - full)
	}
}

// restingHRPoints: полные 25 при пульсе не выше базового,
// линейный спад до нуля при превышении на RestingHRZeroOverBPM.
func (s *Scorer) restingHRPoints(current, baseline float64) float64 {
	over := current - baseline
	if over <= 0 {
		return restingHRWeight
	}
	zeroOver := s.policy.RestingHRZeroOverBPM
	if over >= zeroOver {
		return 0
	}
	return restingHRWeight * (1 - over/zeroOver)
}

// trendPoints — дискретные очки за 7-дневный тренд: рост 25, плато 12, спад 0.
func trendPoints(trend statkit.Trend) float64 {
	switch trend {
	case statkit.TrendRising:
		return trendWeight
	case statkit.TrendFlat:
		return trendFlatPoints
	default:
		return 0
	}
}

func absoluteHRVPoints(currentMS float64) float64 {
	for _, row := range absoluteHRVTable {
		if currentMS >= row.MinMS {
			return row.Points
		}
	}
	return 0
}

func absoluteRestingHRPoints(bpm float64) float64 {
	for _, row := range absoluteRestingHRTable {
		if bpm <= row.MaxBPM {
			return row.Points
		}
	}
	return 0
}

func clampScore(points float64) int {
	if points < 0 {
		return 0
	}
	if points > 100 {
		return 100
	}
	return int(points + 0.5)
}
