package rhythm

import (
	"errors"
	"time"

	"github.com/fdg312/energy-hub/internal/sleep"
)

var (
	ErrEmptyWindow = errors.New("rhythm window has no samples")
	ErrInvalidDate = errors.New("invalid date format")
)

const windowDays = 7

// DayTiming — распарсенная пара отбой/подъём за один календарный день.
type DayTiming struct {
	Date       string `json:"date"` // YYYY-MM-DD
	BedtimeMin int    `json:"bedtime_min"`
	WakeMin    int    `json:"wake_min"`
	Weekend    bool   `json:"weekend"`
}

// Window — до 7 последних дней с таймингом сна.
// Пропущенные дни уменьшают выборку, нулями не считаются.
type Window struct {
	Days []DayTiming `json:"days"`
}

// NewWindow собирает окно из сырых образцов сна: берёт не более 7 самых
// свежих дней, дни без обоих времён пропускает.
func NewWindow(samples []sleep.SleepSample) (Window, error) {
	var days []DayTiming
	for _, s := range samples {
		if s.Bedtime == "" || s.WakeTime == "" {
			continue
		}
		date, err := time.Parse("2006-01-02", s.Date)
		if err != nil {
			return Window{}, ErrInvalidDate
		}
		bed, err := sleep.ParseClock(s.Bedtime)
		if err != nil {
			return Window{}, err
		}
		wake, err := sleep.ParseClock(s.WakeTime)
		if err != nil {
			return Window{}, err
		}
		wd := date.Weekday()
		days = append(days, DayTiming{
			Date:       s.Date,
			BedtimeMin: bed,
			WakeMin:    wake,
			Weekend:    wd == time.Saturday || wd == time.Sunday,
		})
	}
	if len(days) == 0 {
		return Window{}, ErrEmptyWindow
	}
	if len(days) > windowDays {
		days = days[len(days)-windowDays:]
	}
	return Window{Days: days}, nil
}

// Result — результат скоринга циркадной стабильности.
type Result struct {
	Score int `json:"score"` // 0..100

	BedtimePoints      float64 `json:"bedtime_points"`
	WakePoints         float64 `json:"wake_points"`
	WeekendShiftPoints float64 `json:"weekend_shift_points"`
	IdealWindowPoints  float64 `json:"ideal_window_points"`

	SampleDays    int  `json:"sample_days"`
	LowConfidence bool `json:"low_confidence"` // выборка мала, стабильность зачтена нейтрально
}

// Статусы стабильности ритма.
const (
	StatusGood     = "good"
	StatusUnstable = "unstable"
)

// Stability — накопительное состояние ритма между днями.
type Stability struct {
	Status                string `json:"status"`
	ConsecutiveStableDays int    `json:"consecutive_stable_days"`
}
