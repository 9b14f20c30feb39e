package scores

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/energy-hub/internal/activity"
	"github.com/fdg312/energy-hub/internal/hrv"
	"github.com/fdg312/energy-hub/internal/rhythm"
	"github.com/fdg312/energy-hub/internal/sleep"
	"github.com/fdg312/energy-hub/internal/status"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidDate     = errors.New("invalid date format")
	ErrInvalidSample   = errors.New("invalid sample")
	ErrNoSamples       = errors.New("no samples for the requested day")
	ErrNoBatteryDay    = errors.New("no battery day recorded")
)

// SyncSamplesRequest — батчевая загрузка дневных образцов от сенсорного
// коллаборатора.
type SyncSamplesRequest struct {
	ProfileID uuid.UUID                 `json:"profile_id"`
	Sleep     []sleep.SleepSample       `json:"sleep,omitempty"`
	HRV       []hrv.HRVSample           `json:"hrv,omitempty"`
	Activity  []activity.ActivitySample `json:"activity,omitempty"`
}

type SyncSamplesResponse struct {
	Status           string `json:"status"`
	UpsertedSleep    int    `json:"upserted_sleep"`
	UpsertedHRV      int    `json:"upserted_hrv"`
	UpsertedActivity int    `json:"upserted_activity"`
}

// DatedValue — значение с датой для передаваемой клиентом истории.
type DatedValue struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Value float64 `json:"value"`
}

// ComputeRequest — чистый расчёт по переданным образцам, без хранилища.
// Каждый блок опционален: считается только то, что прислали.
type ComputeRequest struct {
	Sleep        *sleep.SleepSample       `json:"sleep,omitempty"`
	HRV          *hrv.HRVSample           `json:"hrv,omitempty"`
	HRVBaseline  *hrv.Baseline            `json:"hrv_baseline,omitempty"`
	HRVHistory   []DatedValue             `json:"hrv_history,omitempty"`
	Activity     *activity.ActivitySample `json:"activity,omitempty"`
	RhythmWindow []sleep.SleepSample      `json:"rhythm_window,omitempty"`
}

// SleepBlock — счёт сна с полосой статуса и разбивкой.
type SleepBlock struct {
	Score  int          `json:"score"`
	Band   status.Band  `json:"band"`
	Detail sleep.Result `json:"detail"`
}

type HRVBlock struct {
	Score  int         `json:"score"`
	Band   status.Band `json:"band"`
	Detail hrv.Result  `json:"detail"`
}

type ActivityBlock struct {
	Score  int             `json:"score"`
	Band   status.Band     `json:"band"`
	Detail activity.Result `json:"detail"`
}

type RhythmBlock struct {
	Score  int           `json:"score"`
	Band   status.Band   `json:"band"`
	Detail rhythm.Result `json:"detail"`
}

// ComputeResponse — результат чистого расчёта.
type ComputeResponse struct {
	Sleep    *SleepBlock    `json:"sleep,omitempty"`
	HRV      *HRVBlock      `json:"hrv,omitempty"`
	Activity *ActivityBlock `json:"activity,omitempty"`
	Rhythm   *RhythmBlock   `json:"rhythm,omitempty"`
}

// DailyScoresResponse — счета дня, посчитанные по сохранённой истории.
type DailyScoresResponse struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Date      string    `json:"date"` // YYYY-MM-DD

	Sleep    *SleepBlock    `json:"sleep,omitempty"`
	HRV      *HRVBlock      `json:"hrv,omitempty"`
	Activity *ActivityBlock `json:"activity,omitempty"`
	Rhythm   *RhythmBlock   `json:"rhythm,omitempty"`

	Stability *rhythm.Stability `json:"stability,omitempty"`
}

// BatteryMorningRequest — запрос утреннего заряда.
// Без даты берётся сегодняшний день.
type BatteryMorningRequest struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Date      string    `json:"date,omitempty"` // YYYY-MM-DD
}

// BatteryResponse — состояние батареи на момент чтения.
type BatteryResponse struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Date      string    `json:"date"`

	CurrentLevel  float64    `json:"current_level"`
	MorningCharge float64    `json:"morning_charge"`
	DrainRate     float64    `json:"drain_rate"`
	EnvFactor     float64    `json:"env_factor"`
	State         string     `json:"state"`
	LastUpdated   time.Time  `json:"last_updated"`
	ProjectedEnd  *time.Time `json:"projected_end,omitempty"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
