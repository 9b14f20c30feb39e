package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/energy-hub/internal/storage"
)

// RhythmMemoryStorage — in-memory реализация RhythmStorage
type RhythmMemoryStorage struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]storage.RhythmStateRow
}

func NewRhythmMemoryStorage() *RhythmMemoryStorage {
	return &RhythmMemoryStorage{rows: make(map[uuid.UUID]storage.RhythmStateRow)}
}

func (s *RhythmMemoryStorage) GetRhythmState(ctx context.Context, profileID uuid.UUID) (*storage.RhythmStateRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[profileID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

func (s *RhythmMemoryStorage) UpsertRhythmState(ctx context.Context, row *storage.RhythmStateRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row.UpdatedAt = time.Now()
	s.rows[row.ProfileID] = *row
	return nil
}
