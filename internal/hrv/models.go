package hrv

import (
	"errors"
	"time"

	"github.com/fdg312/energy-hub/internal/statkit"
)

var (
	ErrInvalidDate  = errors.New("invalid date format")
	ErrInvalidValue = errors.New("hrv and resting hr must be positive")
)

// HRVSample — текущая вариабельность и пульс покоя за день.
type HRVSample struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	CurrentMS    float64 `json:"current_ms"`
	RestingHRBPM float64 `json:"resting_hr_bpm"`
}

func (s HRVSample) Validate() error {
	if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		return ErrInvalidDate
	}
	if s.CurrentMS <= 0 || s.RestingHRBPM <= 0 {
		return ErrInvalidValue
	}
	return nil
}

// Baseline — 30-дневные скользящие средние, посчитанные коллаборатором
// хранения и переданные по значению (без глобального состояния).
type Baseline struct {
	HRVMeanMS     float64 `json:"hrv_mean_ms"`
	RestingHRMean float64 `json:"resting_hr_mean"`
	Days          int     `json:"days"` // сколько дней истории за этим средним
}

// Input — полный снапшот для одного вызова скорера.
type Input struct {
	Sample   HRVSample
	Baseline *Baseline        // nil допустим: сработает абсолютный фолбэк
	History  []statkit.Sample // HRV за последние 7 дней для тренда
}

// Result — результат скоринга HRV.
type Result struct {
	Score int `json:"score"` // 0..100

	BaselinePoints  float64       `json:"baseline_points"`
	TrendPoints     float64       `json:"trend_points"`
	RestingHRPoints float64       `json:"resting_hr_points"`
	Trend           statkit.Trend `json:"trend"`

	// UsedAbsoluteFallback=true, когда истории меньше двухнедельного разгона
	// и скоринг шёл по абсолютной таблице, а не относительно базовой линии.
	UsedAbsoluteFallback bool `json:"used_absolute_fallback"`
}
