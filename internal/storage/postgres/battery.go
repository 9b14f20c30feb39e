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

// PostgresBatteryStorage — Postgres реализация BatteryStorage
type PostgresBatteryStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresBatteryStorage(pool *pgxpool.Pool) *PostgresBatteryStorage {
	return &PostgresBatteryStorage{pool: pool}
}

func (s *PostgresBatteryStorage) UpsertBatteryDay(ctx context.Context, row *storage.BatteryDayRow) error {
	query := `
		INSERT INTO battery_days (profile_id, date, morning_charge, drain_rate, env_factor, morning_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (profile_id, date)
		DO UPDATE SET
			morning_charge = EXCLUDED.morning_charge,
			drain_rate = EXCLUDED.drain_rate,
			env_factor = EXCLUDED.env_factor,
			morning_at = EXCLUDED.morning_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		row.ProfileID,
		row.Date,
		row.MorningCharge,
		row.DrainRate,
		row.EnvFactor,
		row.MorningAt,
		time.Now(),
	)
	return err
}

func (s *PostgresBatteryStorage) GetBatteryDay(ctx context.Context, profileID uuid.UUID, date string) (*storage.BatteryDayRow, error) {
	query := `
		SELECT profile_id, date, morning_charge, drain_rate, env_factor, morning_at, created_at, updated_at
		FROM battery_days
		WHERE profile_id = $1 AND date = $2
	`

	return s.scanOne(s.pool.QueryRow(ctx, query, profileID, date))
}

func (s *PostgresBatteryStorage) GetLatestBatteryDay(ctx context.Context, profileID uuid.UUID) (*storage.BatteryDayRow, error) {
	query := `
		SELECT profile_id, date, morning_charge, drain_rate, env_factor, morning_at, created_at, updated_at
		FROM battery_days
		WHERE profile_id = $1
		ORDER BY date DESC
		LIMIT 1
	`

	return s.scanOne(s.pool.QueryRow(ctx, query, profileID))
}

func (s *PostgresBatteryStorage) ListBatteryDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.BatteryDayRow, error) {
	query := `
		SELECT profile_id, date, morning_charge, drain_rate, env_factor, morning_at, created_at, updated_at
		FROM battery_days
		WHERE profile_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, profileID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []storage.BatteryDayRow{}
	for rows.Next() {
		var row storage.BatteryDayRow
		err := rows.Scan(
			&row.ProfileID,
			&row.Date,
			&row.MorningCharge,
			&row.DrainRate,
			&row.EnvFactor,
			&row.MorningAt,
			&row.CreatedAt,
			&row.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	return out, rows.Err()
}

func (s *PostgresBatteryStorage) scanOne(r pgx.Row) (*storage.BatteryDayRow, error) {
	var row storage.BatteryDayRow
	err := r.Scan(
		&row.ProfileID,
		&row.Date,
		&row.MorningCharge,
		&row.DrainRate,
		&row.EnvFactor,
		&row.MorningAt,
		&row.CreatedAt,
		&row.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &row, nil
}
