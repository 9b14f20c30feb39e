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

// PostgresRhythmStorage — Postgres реализация RhythmStorage
type PostgresRhythmStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresRhythmStorage(pool *pgxpool.Pool) *PostgresRhythmStorage {
	return &PostgresRhythmStorage{pool: pool}
}

func (s *PostgresRhythmStorage) GetRhythmState(ctx context.Context, profileID uuid.UUID) (*storage.RhythmStateRow, error) {
	query := `
		SELECT profile_id, status, consecutive_stable_days, last_date, last_score, updated_at
		FROM rhythm_states
		WHERE profile_id = $1
	`

	var row storage.RhythmStateRow
	err := s.pool.QueryRow(ctx, query, profileID).Scan(
		&row.ProfileID,
		&row.Status,
		&row.ConsecutiveStableDays,
		&row.LastDate,
		&row.LastScore,
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

func (s *PostgresRhythmStorage) UpsertRhythmState(ctx context.Context, row *storage.RhythmStateRow) error {
	query := `
		INSERT INTO rhythm_states (profile_id, status, consecutive_stable_days, last_date, last_score, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (profile_id)
		DO UPDATE SET
			status = EXCLUDED.status,
			consecutive_stable_days = EXCLUDED.consecutive_stable_days,
			last_date = EXCLUDED.last_date,
			last_score = EXCLUDED.last_score,
			updated_at = EXCLUDED.updated_at
	`

	row.UpdatedAt = time.Now()
	_, err := s.pool.Exec(ctx, query,
		row.ProfileID,
		row.Status,
		row.ConsecutiveStableDays,
		row.LastDate,
		row.LastScore,
		row.UpdatedAt,
	)
	return err
}
