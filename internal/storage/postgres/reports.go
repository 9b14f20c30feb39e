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

// PostgresReportsStorage — Postgres реализация ReportsStorage.
// В s3-режиме файл живёт в blob-хранилище и data пустая,
// в local-режиме байты отчёта хранятся прямо в строке.
type PostgresReportsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresReportsStorage(pool *pgxpool.Pool) *PostgresReportsStorage {
	return &PostgresReportsStorage{pool: pool}
}

func (s *PostgresReportsStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now

	query := `
		INSERT INTO reports (id, profile_id, format, from_date, to_date, object_key, data, size_bytes, status, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.pool.Exec(ctx, query,
		report.ID,
		report.ProfileID,
		report.Format,
		report.FromDate,
		report.ToDate,
		report.ObjectKey,
		report.Data,
		report.SizeBytes,
		report.Status,
		report.Error,
		report.CreatedAt,
		report.UpdatedAt,
	)
	return err
}

func (s *PostgresReportsStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	query := `
		SELECT id, profile_id, format, from_date, to_date, object_key, data, size_bytes, status, error, created_at, updated_at
		FROM reports
		WHERE id = $1
	`

	var report storage.ReportMeta
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.ProfileID,
		&report.Format,
		&report.FromDate,
		&report.ToDate,
		&report.ObjectKey,
		&report.Data,
		&report.SizeBytes,
		&report.Status,
		&report.Error,
		&report.CreatedAt,
		&report.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func (s *PostgresReportsStorage) ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	query := `
		SELECT id, profile_id, format, from_date, to_date, object_key, size_bytes, status, error, created_at, updated_at
		FROM reports
		WHERE profile_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, profileID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []storage.ReportMeta{}
	for rows.Next() {
		var report storage.ReportMeta
		err := rows.Scan(
			&report.ID,
			&report.ProfileID,
			&report.Format,
			&report.FromDate,
			&report.ToDate,
			&report.ObjectKey,
			&report.SizeBytes,
			&report.Status,
			&report.Error,
			&report.CreatedAt,
			&report.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}

	return out, rows.Err()
}

func (s *PostgresReportsStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}
