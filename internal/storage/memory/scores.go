package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/energy-hub/internal/storage"
)

type scoreKey struct {
	profileID uuid.UUID
	date      string
}

// ScoresMemoryStorage — in-memory реализация ScoresStorage
type ScoresMemoryStorage struct {
	mu   sync.RWMutex
	rows map[scoreKey]storage.DailyScoreRow
}

func NewScoresMemoryStorage() *ScoresMemoryStorage {
	return &ScoresMemoryStorage{rows: make(map[scoreKey]storage.DailyScoreRow)}
}

func (s *ScoresMemoryStorage) UpsertDailyScores(ctx context.Context, row *storage.DailyScoreRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := scoreKey{row.ProfileID, row.Date}
	now := time.Now()

	if existing, ok := s.rows[key]; ok {
		row.CreatedAt = existing.CreatedAt
	} else {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	s.rows[key] = *row
	return nil
}

func (s *ScoresMemoryStorage) GetDailyScores(ctx context.Context, profileID uuid.UUID, date string) (*storage.DailyScoreRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[scoreKey{profileID, date}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

func (s *ScoresMemoryStorage) ListDailyScores(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.DailyScoreRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []storage.DailyScoreRow
	for key, row := range s.rows {
		if key.profileID != profileID || key.date < from || key.date > to {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
