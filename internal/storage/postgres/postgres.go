package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fdg312/energy-hub/internal/storage"
)

// PostgresStorage — Postgres реализация всех интерфейсов хранилища
type PostgresStorage struct {
	pool    *pgxpool.Pool
	samples *PostgresSamplesStorage
	scores  *PostgresScoresStorage
	battery *PostgresBatteryStorage
	rhythm  *PostgresRhythmStorage
	reports *PostgresReportsStorage
}

// New создаёт PostgresStorage и обеспечивает owner профиль по умолчанию
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	ps := &PostgresStorage{
		pool:    pool,
		samples: NewPostgresSamplesStorage(pool),
		scores:  NewPostgresScoresStorage(pool),
		battery: NewPostgresBatteryStorage(pool),
		rhythm:  NewPostgresRhythmStorage(pool),
		reports: NewPostgresReportsStorage(pool),
	}

	if err := ps.ensureOwnerProfile(ctx); err != nil {
		return nil, err
	}

	return ps, nil
}

// ensureOwnerProfile создаёт owner профиль, если его ещё нет
func (p *PostgresStorage) ensureOwnerProfile(ctx context.Context) error {
	query := `
		INSERT INTO profiles (id, owner_user_id, name, mode, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $5
		WHERE NOT EXISTS (SELECT 1 FROM profiles WHERE owner_user_id = $2)
	`

	_, err := p.pool.Exec(ctx, query, uuid.New(), "default", "Я", "standard", time.Now())
	return err
}

func (p *PostgresStorage) ListProfiles(ctx context.Context, ownerUserID string) ([]storage.Profile, error) {
	query := `
		SELECT id, owner_user_id, name, mode, created_at, updated_at
		FROM profiles
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := p.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []storage.Profile{}
	for rows.Next() {
		var prof storage.Profile
		err := rows.Scan(
			&prof.ID,
			&prof.OwnerUserID,
			&prof.Name,
			&prof.Mode,
			&prof.CreatedAt,
			&prof.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, prof)
	}

	return profiles, rows.Err()
}

func (p *PostgresStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	query := `
		SELECT id, owner_user_id, name, mode, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var prof storage.Profile
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&prof.ID,
		&prof.OwnerUserID,
		&prof.Name,
		&prof.Mode,
		&prof.CreatedAt,
		&prof.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &prof, nil
}

func (p *PostgresStorage) CreateProfile(ctx context.Context, profile *storage.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.Mode == "" {
		profile.Mode = "standard"
	}

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query := `
		INSERT INTO profiles (id, owner_user_id, name, mode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		profile.ID,
		profile.OwnerUserID,
		profile.Name,
		profile.Mode,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	return err
}

func (p *PostgresStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	profile.UpdatedAt = time.Now()

	query := `
		UPDATE profiles
		SET name = $2, mode = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := p.pool.Exec(ctx, query,
		profile.ID,
		profile.Name,
		profile.Mode,
		profile.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM profiles WHERE id = $1`

	result, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// SamplesStorage methods - делегируем к встроенному samples storage

func (p *PostgresStorage) UpsertDailySample(ctx context.Context, profileID uuid.UUID, date, kind string, payload []byte) error {
	return p.samples.UpsertDailySample(ctx, profileID, date, kind, payload)
}

func (p *PostgresStorage) GetDailySample(ctx context.Context, profileID uuid.UUID, date, kind string) (*storage.DailySampleRow, error) {
	return p.samples.GetDailySample(ctx, profileID, date, kind)
}

func (p *PostgresStorage) ListDailySamples(ctx context.Context, profileID uuid.UUID, kind, from, to string) ([]storage.DailySampleRow, error) {
	return p.samples.ListDailySamples(ctx, profileID, kind, from, to)
}

// ScoresStorage methods - делегируем к встроенному scores storage

func (p *PostgresStorage) UpsertDailyScores(ctx context.Context, row *storage.DailyScoreRow) error {
	return p.scores.UpsertDailyScores(ctx, row)
}

func (p *PostgresStorage) GetDailyScores(ctx context.Context, profileID uuid.UUID, date string) (*storage.DailyScoreRow, error) {
	return p.scores.GetDailyScores(ctx, profileID, date)
}

func (p *PostgresStorage) ListDailyScores(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.DailyScoreRow, error) {
	return p.scores.ListDailyScores(ctx, profileID, from, to)
}

// BatteryStorage methods - делегируем к встроенному battery storage

func (p *PostgresStorage) UpsertBatteryDay(ctx context.Context, row *storage.BatteryDayRow) error {
	return p.battery.UpsertBatteryDay(ctx, row)
}

func (p *PostgresStorage) GetBatteryDay(ctx context.Context, profileID uuid.UUID, date string) (*storage.BatteryDayRow, error) {
	return p.battery.GetBatteryDay(ctx, profileID, date)
}

func (p *PostgresStorage) GetLatestBatteryDay(ctx context.Context, profileID uuid.UUID) (*storage.BatteryDayRow, error) {
	return p.battery.GetLatestBatteryDay(ctx, profileID)
}

func (p *PostgresStorage) ListBatteryDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.BatteryDayRow, error) {
	return p.battery.ListBatteryDays(ctx, profileID, from, to)
}

// RhythmStorage methods - делегируем к встроенному rhythm storage

func (p *PostgresStorage) GetRhythmState(ctx context.Context, profileID uuid.UUID) (*storage.RhythmStateRow, error) {
	return p.rhythm.GetRhythmState(ctx, profileID)
}

func (p *PostgresStorage) UpsertRhythmState(ctx context.Context, row *storage.RhythmStateRow) error {
	return p.rhythm.UpsertRhythmState(ctx, row)
}

// ReportsStorage methods - делегируем к встроенному reports storage

func (p *PostgresStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	return p.reports.CreateReport(ctx, report)
}

func (p *PostgresStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	return p.reports.GetReport(ctx, id)
}

func (p *PostgresStorage) ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	return p.reports.ListReports(ctx, profileID, limit, offset)
}

func (p *PostgresStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	return p.reports.DeleteReport(ctx, id)
}
