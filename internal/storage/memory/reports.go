package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/energy-hub/internal/storage"
)

// ReportsMemoryStorage — in-memory реализация ReportsStorage.
// В memory mode бинарные данные отчёта живут прямо в метаданных.
type ReportsMemoryStorage struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]storage.ReportMeta
}

func NewReportsMemoryStorage() *ReportsMemoryStorage {
	return &ReportsMemoryStorage{rows: make(map[uuid.UUID]storage.ReportMeta)}
}

func (s *ReportsMemoryStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now

	s.rows[report.ID] = *report
	return nil
}

func (s *ReportsMemoryStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

func (s *ReportsMemoryStorage) ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []storage.ReportMeta
	for _, row := range s.rows {
		if row.ProfileID == profileID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if offset >= len(out) {
		return []storage.ReportMeta{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ReportsMemoryStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}
