package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/energy-hub/internal/storage"
)

type sampleKey struct {
	profileID uuid.UUID
	date      string
	kind      string
}

// SamplesMemoryStorage — in-memory реализация SamplesStorage
type SamplesMemoryStorage struct {
	mu   sync.RWMutex
	rows map[sampleKey]storage.DailySampleRow
}

func NewSamplesMemoryStorage() *SamplesMemoryStorage {
	return &SamplesMemoryStorage{rows: make(map[sampleKey]storage.DailySampleRow)}
}

func (s *SamplesMemoryStorage) UpsertDailySample(ctx context.Context, profileID uuid.UUID, date, kind string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sampleKey{profileID, date, kind}
	now := time.Now()

	row, ok := s.rows[key]
	if !ok {
		row = storage.DailySampleRow{
			ProfileID: profileID,
			Date:      date,
			Kind:      kind,
			CreatedAt: now,
		}
	}
	row.Payload = payload
	row.UpdatedAt = now
	s.rows[key] = row
	return nil
}

func (s *SamplesMemoryStorage) GetDailySample(ctx context.Context, profileID uuid.UUID, date, kind string) (*storage.DailySampleRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[sampleKey{profileID, date, kind}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

func (s *SamplesMemoryStorage) ListDailySamples(ctx context.Context, profileID uuid.UUID, kind, from, to string) ([]storage.DailySampleRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []storage.DailySampleRow
	for key, row := range s.rows {
		if key.profileID != profileID || key.kind != kind {
			continue
		}
		if key.date < from || key.date > to {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
