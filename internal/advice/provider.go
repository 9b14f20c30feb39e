package advice

import (
	"context"

	"github.com/google/uuid"
)

type Provider interface {
	Advise(ctx context.Context, req AdviceRequest) (AdviceResponse, error)
}

// DaySnapshot — метрики дня, на которые опирается совет.
// Отсутствующие счета остаются nil и в подсказку не попадают.
type DaySnapshot struct {
	Date string

	SleepScore    *int
	HRVScore      *int
	ActivityScore *int
	RhythmScore   *int

	BatteryLevel *float64
	BatteryState string

	StabilityStatus       string
	ConsecutiveStableDays int
}

type AdviceRequest struct {
	UserID    string
	ProfileID uuid.UUID
	Mode      string // standard | athlete
	Snapshot  DaySnapshot
}

type AdviceResponse struct {
	AdviceText string
	Highlights []string
}
