package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound возвращается всеми реализациями при отсутствии записи.
var ErrNotFound = errors.New("not found")

// Виды дневных образцов от сенсорного коллаборатора.
const (
	SampleKindSleep    = "sleep"
	SampleKindHRV      = "hrv"
	SampleKindActivity = "activity"
)

// Profile представляет профиль пользователя
type Profile struct {
	ID          uuid.UUID
	OwnerUserID string
	Name        string
	Mode        string // "standard" или "athlete"
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Storage — интерфейс для работы с профилями
type Storage interface {
	// ListProfiles возвращает все профили владельца
	ListProfiles(ctx context.Context, ownerUserID string) ([]Profile, error)

	// GetProfile возвращает профиль по ID
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)

	// CreateProfile создаёт новый профиль
	CreateProfile(ctx context.Context, profile *Profile) error

	// UpdateProfile обновляет профиль
	UpdateProfile(ctx context.Context, profile *Profile) error

	// DeleteProfile удаляет профиль
	DeleteProfile(ctx context.Context, id uuid.UUID) error

	// Close закрывает соединение (для Postgres)
	Close() error
}

// SamplesStorage — интерфейс для сырых дневных образцов (сон, HRV, активность)
type SamplesStorage interface {
	// UpsertDailySample сохраняет образец дня (upsert по profile_id, date, kind)
	UpsertDailySample(ctx context.Context, profileID uuid.UUID, date, kind string, payload []byte) error

	// GetDailySample возвращает образец конкретного дня
	GetDailySample(ctx context.Context, profileID uuid.UUID, date, kind string) (*DailySampleRow, error)

	// ListDailySamples возвращает образцы за период, упорядоченные по дате
	ListDailySamples(ctx context.Context, profileID uuid.UUID, kind, from, to string) ([]DailySampleRow, error)
}

// DailySampleRow — строка из daily_samples
type DailySampleRow struct {
	ProfileID uuid.UUID
	Date      string // YYYY-MM-DD
	Kind      string
	Payload   []byte // JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScoresStorage — интерфейс для дневных счетов
type ScoresStorage interface {
	// UpsertDailyScores сохраняет счета дня (upsert по profile_id, date)
	UpsertDailyScores(ctx context.Context, row *DailyScoreRow) error

	// GetDailyScores возвращает счета конкретного дня
	GetDailyScores(ctx context.Context, profileID uuid.UUID, date string) (*DailyScoreRow, error)

	// ListDailyScores возвращает счета за период, упорядоченные по дате
	ListDailyScores(ctx context.Context, profileID uuid.UUID, from, to string) ([]DailyScoreRow, error)
}

// DailyScoreRow — строка из daily_scores
type DailyScoreRow struct {
	ProfileID     uuid.UUID
	Date          string // YYYY-MM-DD
	SleepScore    int
	HRVScore      int
	ActivityScore int
	RhythmScore   int
	Payload       []byte // JSON с разбивкой по компонентам
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BatteryStorage — интерфейс для дневной батареи
type BatteryStorage interface {
	// UpsertBatteryDay сохраняет утренний заряд дня (upsert по profile_id, date)
	UpsertBatteryDay(ctx context.Context, row *BatteryDayRow) error

	// GetBatteryDay возвращает батарею конкретного дня
	GetBatteryDay(ctx context.Context, profileID uuid.UUID, date string) (*BatteryDayRow, error)

	// GetLatestBatteryDay возвращает самый свежий день батареи
	GetLatestBatteryDay(ctx context.Context, profileID uuid.UUID) (*BatteryDayRow, error)

	// ListBatteryDays возвращает дни батареи за период
	ListBatteryDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]BatteryDayRow, error)
}

// BatteryDayRow — строка из battery_days.
// Текущий уровень не хранится, он выводится из заряда и скорости на чтении.
type BatteryDayRow struct {
	ProfileID     uuid.UUID
	Date          string // YYYY-MM-DD
	MorningCharge float64
	DrainRate     float64 // %/час, отрицательный
	EnvFactor     float64
	MorningAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RhythmStorage — интерфейс для накопительного состояния ритма
type RhythmStorage interface {
	// GetRhythmState возвращает состояние ритма профиля
	GetRhythmState(ctx context.Context, profileID uuid.UUID) (*RhythmStateRow, error)

	// UpsertRhythmState сохраняет состояние ритма (upsert по profile_id)
	UpsertRhythmState(ctx context.Context, row *RhythmStateRow) error
}

// RhythmStateRow — строка из rhythm_states
type RhythmStateRow struct {
	ProfileID             uuid.UUID
	Status                string
	ConsecutiveStableDays int
	LastDate              string // YYYY-MM-DD последнего учтённого дня
	LastScore             int
	UpdatedAt             time.Time
}

// ReportsStorage — интерфейс для работы с отчётами
type ReportsStorage interface {
	// CreateReport создаёт новый отчёт (metadata + optional data for memory mode)
	CreateReport(ctx context.Context, report *ReportMeta) error

	// GetReport возвращает отчёт по ID
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)

	// ListReports возвращает список отчётов профиля с пагинацией
	ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]ReportMeta, error)

	// DeleteReport удаляет отчёт (metadata и данные)
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// ReportMeta — метаданные отчёта
type ReportMeta struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Format    string  // "pdf" or "csv"
	FromDate  string  // YYYY-MM-DD
	ToDate    string  // YYYY-MM-DD
	ObjectKey *string // ключ в blob-хранилище (NULL в local-режиме)
	SizeBytes int64
	Status    string // "ready" or "failed"
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      []byte // байты отчёта в local-режиме, пустые при s3
}
