package activity

import (
	"errors"
	"time"
)

var (
	ErrInvalidDate   = errors.New("invalid date format")
	ErrNegativeCount = errors.New("counts must be non-negative")
)

// ActivitySample — дневная активность от сенсорного коллаборатора.
type ActivitySample struct {
	Date                string `json:"date"` // YYYY-MM-DD
	Steps               int    `json:"steps"`
	ActiveMinutes       int    `json:"active_minutes"` // moderate-to-vigorous
	LongestSedentaryMin int    `json:"longest_sedentary_min"`
	ExerciseGoalMet     *bool  `json:"exercise_goal_met,omitempty"`
}

func (s ActivitySample) Validate() error {
	if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		return ErrInvalidDate
	}
	if s.Steps < 0 || s.ActiveMinutes < 0 || s.LongestSedentaryMin < 0 {
		return ErrNegativeCount
	}
	return nil
}

// Result — результат скоринга активности.
type Result struct {
	Score int `json:"score"` // 0..100

	StepsPoints         float64 `json:"steps_points"`
	ActiveMinutesPoints float64 `json:"active_minutes_points"`
	SedentaryPoints     float64 `json:"sedentary_points"`
	GoalPoints          float64 `json:"goal_points"`

	GoalDefaulted bool `json:"goal_defaulted"` // цель не сообщена — нейтральный кредит
}
