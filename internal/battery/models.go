package battery

import (
	"errors"
	"time"
)

var (
	ErrNoDepletion  = errors.New("drain rate is non-negative, nothing to project")
	ErrInvalidScore = errors.New("score must be within 0..100")
)

// Режимы профиля: атлет получает больший кредит за восстановление.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeAthlete  Mode = "athlete"
)

// Состояния батареи, выводятся из уровня при каждом чтении.
const (
	StateHigh     = "high"     // 80..100
	StateMedium   = "medium"   // 40..79
	StateLow      = "low"      // 20..39
	StateCritical = "critical" // 0..19
)

// HumanBattery — дневная энергетическая батарея пользователя.
// Уровень не хранится как истина, а пересчитывается от утреннего заряда.
type HumanBattery struct {
	CurrentLevel  float64   `json:"current_level"`  // 0..100
	MorningCharge float64   `json:"morning_charge"` // заряд на момент подъёма
	DrainRate     float64   `json:"drain_rate"`     // %/час, отрицательный
	State         string    `json:"state"`
	MorningAt     time.Time `json:"morning_at"`
	LastUpdated   time.Time `json:"last_updated"`
}
