package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/energy-hub/internal/storage"
)

// MemoryStorage — in-memory реализация всех интерфейсов хранилища.
// Используется в тестах и когда DATABASE_URL не настроен.
type MemoryStorage struct {
	profiles *profilesStore
	samples  *SamplesMemoryStorage
	scores   *ScoresMemoryStorage
	battery  *BatteryMemoryStorage
	rhythm   *RhythmMemoryStorage
	reports  *ReportsMemoryStorage
}

// New создаёт MemoryStorage с owner профилем по умолчанию
func New() *MemoryStorage {
	ownerID := uuid.New()
	owner := storage.Profile{
		ID:          ownerID,
		OwnerUserID: "default",
		Name:        "Я",
		Mode:        "standard",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	return &MemoryStorage{
		profiles: newProfilesStore(owner),
		samples:  NewSamplesMemoryStorage(),
		scores:   NewScoresMemoryStorage(),
		battery:  NewBatteryMemoryStorage(),
		rhythm:   NewRhythmMemoryStorage(),
		reports:  NewReportsMemoryStorage(),
	}
}

func (m *MemoryStorage) ListProfiles(ctx context.Context, ownerUserID string) ([]storage.Profile, error) {
	return m.profiles.List(ctx, ownerUserID)
}

func (m *MemoryStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	return m.profiles.Get(ctx, id)
}

func (m *MemoryStorage) CreateProfile(ctx context.Context, profile *storage.Profile) error {
	return m.profiles.Create(ctx, profile)
}

func (m *MemoryStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	return m.profiles.Update(ctx, profile)
}

func (m *MemoryStorage) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return m.profiles.Delete(ctx, id)
}

func (m *MemoryStorage) Close() error {
	// no-op для memory
	return nil
}

// SamplesStorage methods - делегируем к встроенному samples storage

func (m *MemoryStorage) UpsertDailySample(ctx context.Context, profileID uuid.UUID, date, kind string, payload []byte) error {
	return m.samples.UpsertDailySample(ctx, profileID, date, kind, payload)
}

func (m *MemoryStorage) GetDailySample(ctx context.Context, profileID uuid.UUID, date, kind string) (*storage.DailySampleRow, error) {
	return m.samples.GetDailySample(ctx, profileID, date, kind)
}

func (m *MemoryStorage) ListDailySamples(ctx context.Context, profileID uuid.UUID, kind, from, to string) ([]storage.DailySampleRow, error) {
	return m.samples.ListDailySamples(ctx, profileID, kind, from, to)
}

// ScoresStorage methods - делегируем к встроенному scores storage

func (m *MemoryStorage) UpsertDailyScores(ctx context.Context, row *storage.DailyScoreRow) error {
	return m.scores.UpsertDailyScores(ctx, row)
}

func (m *MemoryStorage) GetDailyScores(ctx context.Context, profileID uuid.UUID, date string) (*storage.DailyScoreRow, error) {
	return m.scores.GetDailyScores(ctx, profileID, date)
}

func (m *MemoryStorage) ListDailyScores(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.DailyScoreRow, error) {
	return m.scores.ListDailyScores(ctx, profileID, from, to)
}

// BatteryStorage methods - делегируем к встроенному battery storage

func (m *MemoryStorage) UpsertBatteryDay(ctx context.Context, row *storage.BatteryDayRow) error {
	return m.battery.UpsertBatteryDay(ctx, row)
}

func (m *MemoryStorage) GetBatteryDay(ctx context.Context, profileID uuid.UUID, date string) (*storage.BatteryDayRow, error) {
	return m.battery.GetBatteryDay(ctx, profileID, date)
}

func (m *MemoryStorage) GetLatestBatteryDay(ctx context.Context, profileID uuid.UUID) (*storage.BatteryDayRow, error) {
	return m.battery.GetLatestBatteryDay(ctx, profileID)
}

func (m *MemoryStorage) ListBatteryDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.BatteryDayRow, error) {
	return m.battery.ListBatteryDays(ctx, profileID, from, to)
}

// RhythmStorage methods - делегируем к встроенному rhythm storage

func (m *MemoryStorage) GetRhythmState(ctx context.Context, profileID uuid.UUID) (*storage.RhythmStateRow, error) {
	return m.rhythm.GetRhythmState(ctx, profileID)
}

func (m *MemoryStorage) UpsertRhythmState(ctx context.Context, row *storage.RhythmStateRow) error {
	return m.rhythm.UpsertRhythmState(ctx, row)
}

// ReportsStorage methods - делегируем к встроенному reports storage

func (m *MemoryStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	return m.reports.CreateReport(ctx, report)
}

func (m *MemoryStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	return m.reports.GetReport(ctx, id)
}

func (m *MemoryStorage) ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	return m.reports.ListReports(ctx, profileID, limit, offset)
}

func (m *MemoryStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	return m.reports.DeleteReport(ctx, id)
}
