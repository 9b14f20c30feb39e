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

// PostgresScoresStorage — Postgres реализация ScoresStorage
type PostgresScoresStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresScoresStorage(pool *pgxpool.Pool) *PostgresScoresStorage {
	return &PostgresScoresStorage{pool: pool}
}

func (s *PostgresScoresStorage) UpsertDailyScores(ctx context.Context, row *storage.DailyScoreRow) error {
	query := `
		INSERT INTO daily_scores (profile_id, date, sleep_score, hrv_score, activity_score, rhythm_score, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (profile_id, date)
		DO UPDATE SET
			sleep_score = EXCLUDED.sleep_score,
			hrv_score = EXCLUDED.hrv_score,
			activity_score = EXCLUDED.activity_score,
			rhythm_score = EXCLUDED.rhythm_score,
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		row.ProfileID,
		row.Date,
		row.SleepScore,
		row.HRVScore,
		row.ActivityScore,
		row.RhythmScore,
		row.Payload,
		time.Now(),
	)
	return err
}

func (s *PostgresScoresStorage) GetDailyScores(ctx context.Context, profileID uuid.UUID, date string) (*storage.DailyScoreRow, error) {
	query := `
		SELECT profile_id, date, sleep_score, hrv_score, activity_score, rhythm_score, payload, created_at, updated_at
		FROM daily_scores
		WHERE profile_id = $1 AND date = $2
	`

	var row storage.DailyScoreRow
	err := s.pool.QueryRow(ctx, query, profileID, date).Scan(
		&row.ProfileID,
		&row.Date,
		&row.SleepScore,
		&row.HRVScore,
		&row.ActivityScore,
		&row.RhythmScore,
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

func (s *PostgresScoresStorage) ListDailyScores(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.DailyScoreRow, error) {
	query := `
		SELECT profile_id, date, sleep_score, hrv_score, activity_score, rhythm_score, payload, created_at, updated_at
		FROM daily_scores
		WHERE profile_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, profileID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []storage.DailyScoreRow{}
	for rows.Next() {
		var row storage.DailyScoreRow
		err := rows.Scan(
			&row.ProfileID,
			&row.Date,
			&row.SleepScore,
			&row.HRVScore,
			&row.ActivityScore,
			&row.RhythmScore,
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
