package sleep

import (
	"github.com/fdg312/energy-hub/internal/config"
)

// Веса компонентов, в сумме 100.
const (
	durationWeight   = 40.0
	deepWeight       = 25.0
	remWeight        = 20.0
	efficiencyWeight = 10.0
	timingWeight     = 5.0

	efficiencyNeutral = 5.0 // награда при отсутствии данных: без штрафа и без бонуса
)

// Scorer — чистый скорер сна; состояние — только политика порогов.
type Scorer struct {
	policy config.ScoringPolicy
}

func NewScorer(policy config.ScoringPolicy) *Scorer {
	return &Scorer{policy: policy}
}

// Score оценивает одну ночь в 0..100.
// Нулевая длительность: все долевые компоненты пропускаются (0),
// вклад может дать только тайминг отбоя.
func (s *Scorer) Score(sample SleepSample) (Result, error) {
	if err := sample.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{}
	res.TimingPoints = s.timingPoints(sample.Bedtime)

	if sample.TotalHours > 0 {
		res.DurationPoints = s.durationPoints(sample.TotalHours)

		deep := s.stageMinutes(sample.DeepMinutes, sample.TotalHours, s.policy.DeepFallbackRatio)
		rem := s.stageMinutes(sample.RemMinutes, sample.TotalHours, s.policy.RemFallbackRatio)
		res.DeepEstimated = deep.Estimated
		res.RemEstimated = rem.Estimated

		totalMinutes := sample.TotalHours * 60
		res.DeepRatioPoints = bandPoints(deep.Minutes/totalMinutes,
			s.policy.DeepRatioMin, s.policy.DeepRatioMax, s.policy.RatioFalloffPct/100, deepWeight)
		res.RemRatioPoints = bandPoints(rem.Minutes/totalMinutes,
			s.policy.RemRatioMin, s.policy.RemRatioMax, s.policy.RatioFalloffPct/100, remWeight)

		if sample.Efficiency != nil {
			res.EfficiencyPoints = s.efficiencyPoints(*sample.Efficiency)
		} else {
			res.EfficiencyPoints = efficiencyNeutral
			res.EfficiencyDefaulted = true
		}
	}

	total := res.DurationPoints + res.DeepRatioPoints + res.RemRatioPoints +
		res.EfficiencyPoints + res.TimingPoints
	res.Score = clampScore(total)
	return res, nil
}

// durationPoints: полные 40 в идеальном окне, линейный спад до нуля на внешних границах.
func (s *Scorer) durationPoints(hours float64) float64 {
	p := s.policy
	switch {
	case hours >= p.SleepIdealMinHours && hours <= p.SleepIdealMaxHours:
		return durationWeight
	case hours <= p.SleepZeroMinHours || hours >= p.SleepZeroMaxHours:
		return 0
	case hours < p.SleepIdealMinHours:
		return durationWeight * (hours - p.SleepZeroMinHours) / (p.SleepIdealMinHours - p.SleepZeroMinHours)
	default:
		return durationWeight * (p.SleepZeroMaxHours - hours) / (p.SleepZeroMaxHours - p.SleepIdealMaxHours)
	}
}

func (s *Scorer) stageMinutes(measured *float64, totalHours, fallbackRatio float64) StageMinutes {
	if measured != nil {
		return Measured(*measured)
	}
	return Estimated(totalHours * 60 * fallbackRatio)
}

func (s *Scorer) efficiencyPoints(eff float64) float64 {
	p := s.policy
	switch {
	case eff >= p.EfficiencyFull:
		return efficiencyWeight
	case eff <= p.EfficiencyZero:
		return 0
	default:
		return efficiencyWeight * (eff - p.EfficiencyZero) / (p.EfficiencyFull - p.EfficiencyZero)
	}
}

// timingPoints: полные 5 за отбой в окне 22:00–24:00.
func (s *Scorer) timingPoints(bedtime string) float64 {
	m, err := ParseClock(bedtime)
	if err != nil {
		return 0
	}
	// 00:00 — верхняя граница окна (24:00 в терминах спецификации продукта).
	if m >= 22*60 || m == 0 {
		return timingWeight
	}
	return 0
}

// bandPoints — линейный спад от полного веса внутри [min,max] до нуля
// на расстоянии falloff за границей полосы.
func bandPoints(value, min, max, falloff, weight float64) float64 {
	if falloff <= 0 {
		if value >= min && value <= max {
			return weight
		}
		return 0
	}
	switch {
	case value >= min && value <= max:
		return weight
	case value < min:
		deficit := min - value
		if deficit >= falloff {
			return 0
		}
		return weight * (1 - deficit/falloff)
	default:
		excess := value - max
		if excess >= falloff {
			return 0
		}
		return weight * (1 - excess/falloff)
	}
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
