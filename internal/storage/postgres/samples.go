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

// PostgresSamplesStorage — Postgres реализация SamplesStorage
type PostgresSamplesStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresSamplesStorage(pool *pgxpool.Pool) *PostgresSamplesStorage {
	return &PostgresSamplesStorage{pool: pool}
}

func (s *PostgresSamplesStorage) UpsertDailySample(ctx context.Context, profileID uuid.UUID, date, kind string, payload []byte) error {
	query := `
		INSERT INTO daily_samples (profile_id, date, kind, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (profile_id, date, kind)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query, profileID, date, kind, payload, time.Now())
	return err
}

func (s *PostgresSamplesStorage) GetDailySample(ctx context.Context, profileID uuid.UUID, date, kind string) (*storage.DailySampleRow, error) {
	query := `
		SELECT profile_id, date, kind, payload, created_at, updated_at
		FROM daily_samples
		WHERE profile_id = $1 AND date = $2 AND kind = $3
	`

	var row storage.DailySampleRow
	err := s.pool.QueryRow(ctx, query, profileID, date, kind).Scan(
		&row.ProfileID,
		&row.Date,
		&row.Kind,
		&row.Payload,
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

func (s *PostgresSamplesStorage) ListDailySamples(ctx context.Context, profileID uuid.UUID, kind, from, to string) ([]storage.DailySampleRow, error) {
	query := `
		SELECT profile_id, date, kind, payload, created_at, updated_at
		FROM daily_samples
		WHERE profile_id = $1 AND kind = $2 AND date >= $3 AND date <= $4
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, profileID, kind, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []storage.DailySampleRow{}
	for rows.Next() {
		var row storage.DailySampleRow
		err := rows.Scan(
			&row.ProfileID,
			&row.Date,
			&row.Kind,
			&row.Payload,
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
