package activity

import (
	"github.com/fdg312/energy-hub/internal/config"
)

// Веса компонентов, в сумме 100.
const (
	stepsWeight         = 40.0
	activeMinutesWeight = 30.0
	sedentaryWeight     = 20.0
	goalWeight          = 10.0

	goalNeutral = 5.0 // цель не сообщена сенсором
)

// Scorer — чистый скорер активности.
type Scorer struct {
	policy config.ScoringPolicy
}

func NewScorer(policy config.ScoringPolicy) *Scorer {
	return &Scorer{policy: policy}
}

// Score оценивает день активности в 0..100.
// Каждый компонент независимо ограничен своим весом; сумма — диапазоном 0..100.
func (s *Scorer) Score(sample ActivitySample) (Result, error) {
	if err := sample.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{}

	// Шаги: доля от цели, кредит не выше 100%.
	stepsRatio := float64(sample.Steps) / float64(s.policy.StepsGoal)
	if stepsRatio > 1 {
		stepsRatio = 1
	}
	res.StepsPoints = stepsWeight * stepsRatio

	// Активные минуты: полный кредит от цели и выше.
	minutesRatio := float64(sample.ActiveMinutes) / float64(s.policy.ActiveMinutesGoal)
	if minutesRatio > 1 {
		minutesRatio = 1
	}
	res.ActiveMinutesPoints = activeMinutesWeight * minutesRatio

	res.SedentaryPoints = s.sedentaryPoints(sample.LongestSedentaryMin)

	switch {
	case sample.ExerciseGoalMet == nil:
		res.GoalPoints = goalNeutral
		res.GoalDefaulted = true
	case *sample.ExerciseGoalMet:
		res.GoalPoints = goalWeight
	}

	res.Score = clampScore(res.StepsPoints + res.ActiveMinutesPoints +
		res.SedentaryPoints + res.GoalPoints)
	return res, nil
}

// sedentaryPoints: полный кредит, пока самый длинный непрерывный сидячий
// интервал короче порога; дальше линейный штраф до нуля.
func (s *Scorer) sedentaryPoints(longestMin int) float64 {
	full := s.policy.SedentaryFullMin
	zero := s.policy.SedentaryZeroMin
	switch {
	case longestMin < full:
		return sedentaryWeight
	case longestMin >= zero:
		return 0
	default:
		return sedentaryWeight * float64(zero-longestMin) / float64(zero-full)
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
