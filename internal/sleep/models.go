package sleep

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidDate       = errors.New("invalid date format")
	ErrInvalidClock      = errors.New("invalid clock time")
	ErrNegativeDuration  = errors.New("negative duration")
	ErrInvalidEfficiency = errors.New("efficiency out of range")
)

// SleepSample — одна ночь сна от сенсорного коллаборатора.
// Неизменяемый снапшот; опциональные поля отсутствуют, когда сенсор их не дал.
type SleepSample struct {
	Date           string   `json:"date"`      // YYYY-MM-DD
	Bedtime        string   `json:"bedtime"`   // HH:MM
	WakeTime       string   `json:"wake_time"` // HH:MM
	TotalHours     float64  `json:"total_hours"`
	TimeInBedHours float64  `json:"time_in_bed_hours"`
	DeepMinutes    *float64 `json:"deep_minutes,omitempty"`
	RemMinutes     *float64 `json:"rem_minutes,omitempty"`
	Efficiency     *float64 `json:"efficiency,omitempty"` // 0..1
}

// Validate проверяет форму сэмпла. Ошибки валидации всегда синхронные.
func (s SleepSample) Validate() error {
	if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		return ErrInvalidDate
	}
	if _, err := ParseClock(s.Bedtime); err != nil {
		return err
	}
	if _, err := ParseClock(s.WakeTime); err != nil {
		return err
	}
	if s.TotalHours < 0 || s.TimeInBedHours < 0 {
		return ErrNegativeDuration
	}
	if s.DeepMinutes != nil && *s.DeepMinutes < 0 {
		return ErrNegativeDuration
	}
	if s.RemMinutes != nil && *s.RemMinutes < 0 {
		return ErrNegativeDuration
	}
	if s.Efficiency != nil && (*s.Efficiency < 0 || *s.Efficiency > 1) {
		return ErrInvalidEfficiency
	}
	return nil
}

// StageMinutes — минуты стадии сна: измеренные сенсором или оценка по фолбэк-доле.
type StageMinutes struct {
	Minutes   float64
	Estimated bool
}

// Measured помечает значение как измеренное.
func Measured(minutes float64) StageMinutes {
	return StageMinutes{Minutes: minutes}
}

// Estimated помечает значение как фолбэк-оценку.
func Estimated(minutes float64) StageMinutes {
	return StageMinutes{Minutes: minutes, Estimated: true}
}

// ParseClock парсит HH:MM в минуты от полуночи [0, 1439].
func ParseClock(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	return h*60 + m, nil
}

// Result — результат скоринга одной ночи.
type Result struct {
	Score int `json:"score"` // 0..100

	DurationPoints   float64 `json:"duration_points"`
	DeepRatioPoints  float64 `json:"deep_ratio_points"`
	RemRatioPoints   float64 `json:"rem_ratio_points"`
	EfficiencyPoints float64 `json:"efficiency_points"`
	TimingPoints     float64 `json:"timing_points"`

	DeepEstimated       bool `json:"deep_estimated"`
	RemEstimated        bool `json:"rem_estimated"`
	EfficiencyDefaulted bool `json:"efficiency_defaulted"`
}
