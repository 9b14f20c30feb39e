package rhythm

import (
	"github.com/fdg312/energy-hub/internal/config"
	"github.com/fdg312/energy-hub/internal/statkit"
)

// Веса компонентов, в сумме 100.
const (
	bedtimeWeight     = 35.0
	wakeWeight        = 35.0
	weekendWeight     = 20.0
	idealWindowWeight = 10.0
)

// Идеальное окно отбоя: 22:00..06:00.
const (
	idealWindowFromMin = 22 * 60
	idealWindowToMin   = 6 * 60
)

// Scorer — чистый скорер циркадного ритма.
type Scorer struct {
	policy config.ScoringPolicy
}

func NewScorer(policy config.ScoringPolicy) *Scorer {
	return &Scorer{policy: policy}
}

// Score оценивает окно тайминга сна в 0..100.
//
// Времена нормализуются в минуты от полудня предыдущего дня: всё, что
// раньше 12:00, сдвигается на +1440. Иначе отбои 23:59 и 00:01 дали бы
// разброс в сутки вместо двух минут.
func (s *Scorer) Score(w Window) (Result, error) {
	if len(w.Days) == 0 {
		return Result{}, ErrEmptyWindow
	}

	res := Result{SampleDays: len(w.Days)}

	bedtimes := make([]float64, 0, len(w.Days))
	wakes := make([]float64, 0, len(w.Days))
	for _, d := range w.Days {
		bedtimes = append(bedtimes, normalizeClock(d.BedtimeMin))
		wakes = append(wakes, normalizeClock(d.WakeMin))
	}

	// Минимум два дня для осмысленного отклонения; иначе нейтральный
	// полный кредит с флагом низкой уверенности.
	if len(w.Days) < 2 {
		res.LowConfidence = true
		res.BedtimePoints = bedtimeWeight
		res.WakePoints = wakeWeight
		res.WeekendShiftPoints = weekendWeight
	} else {
		res.BedtimePoints = s.stabilityPoints(bedtimes, bedtimeWeight)
		res.WakePoints = s.stabilityPoints(wakes, wakeWeight)
		res.WeekendShiftPoints = s.weekendShiftPoints(w, &res)
	}

	res.IdealWindowPoints = idealWindowPoints(w)

	res.Score = clampScore(res.BedtimePoints + res.WakePoints +
		res.WeekendShiftPoints + res.IdealWindowPoints)
	return res, nil
}

// stabilityPoints: w * max(0, 1 - σ/порог), σ в минутах.
func (s *Scorer) stabilityPoints(minutes []float64, weight float64) float64 {
	sigma := statkit.StdDev(minutes)
	frac := 1 - sigma/float64(s.policy.StabilityStdDevMin)
	if frac < 0 {
		frac = 0
	}
	return weight * frac
}

// weekendShiftPoints: штраф за сдвиг среднего отбоя выходных относительно
// будней. Пустое подмножество (окно без выходных или без будней) даёт
// полный кредит с флагом низкой уверенности.
func (s *Scorer) weekendShiftPoints(w Window, res *Result) float64 {
	var weekday, weekend []float64
	for _, d := range w.Days {
		m := normalizeClock(d.BedtimeMin)
		if d.Weekend {
			weekend = append(weekend, m)
		} else {
			weekday = append(weekday, m)
		}
	}

	weekdayMean, okWD := statkit.Mean(weekday)
	weekendMean, okWE := statkit.Mean(weekend)
	if !okWD || !okWE {
		res.LowConfidence = true
		return weekendWeight
	}

	delta := weekendMean - weekdayMean
	if delta < 0 {
		delta = -delta
	}
	frac := 1 - delta/float64(s.policy.WeekendShiftZeroMin)
	if frac < 0 {
		frac = 0
	}
	return weekendWeight * frac
}

// idealWindowPoints: полный кредит, когда большинство отбоев попадает
// в окно 22:00..06:00 (для полной недели это ≥4 из 7).
func idealWindowPoints(w Window) float64 {
	inWindow := 0
	for _, d := range w.Days {
		if d.BedtimeMin >= idealWindowFromMin || d.BedtimeMin <= idealWindowToMin {
			inWindow++
		}
	}
	if inWindow*2 > len(w.Days) {
		return idealWindowWeight
	}
	return 0
}

// TrackStability обновляет накопительное состояние ритма по новому дневному
// счёту. День стабилен, когда счёт не ниже порога и не просел относительно
// вчерашнего больше допустимого.
func (s *Scorer) TrackStability(prev Stability, prevScore *int, score int) Stability {
	next := Stability{Status: StatusUnstable}
	if score < s.policy.StableScoreFloor {
		return next
	}
	if prevScore != nil && score < *prevScore-s.policy.StableMaxDrop {
		return next
	}
	next.Status = StatusGood
	next.ConsecutiveStableDays = prev.ConsecutiveStableDays + 1
	return next
}

// normalizeClock переводит минуты от полуночи в непрерывную шкалу вокруг
// полуночи: времена раньше 12:00 сдвигаются на сутки вперёд.
func normalizeClock(m int) float64 {
	if m < 12*60 {
		return float64(m + 24*60)
	}
	return float64(m)
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
