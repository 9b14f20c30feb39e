package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/energy-hub/internal/storage"
)

// BatteryMemoryStorage — in-memory реализация BatteryStorage
type BatteryMemoryStorage struct {
	mu   sync.RWMutex
	rows map[scoreKey]storage.BatteryDayRow
}

func NewBatteryMemoryStorage() *BatteryMemoryStorage {
	return &BatteryMemoryStorage{rows: make(map[scoreKey]storage.BatteryDayRow)}
}

func (s *BatteryMemoryStorage) UpsertBatteryDay(ctx context.Context, row *storage.BatteryDayRow) error {
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

func (s *BatteryMemoryStorage) GetBatteryDay(ctx context.Context, profileID uuid.UUID, date string) (*storage.BatteryDayRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[scoreKey{profileID, date}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

func (s *BatteryMemoryStorage) GetLatestBatteryDay(ctx context.Context, profileID uuid.UUID) (*storage.BatteryDayRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *storage.BatteryDayRow
	for key, row := range s.rows {
		if key.profileID != profileID {
			continue
		}
		if latest == nil || row.Date > latest.Date {
			r := row
			latest = &r
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	return latest, nil
}

func (s *BatteryMemoryStorage) ListBatteryDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.BatteryDayRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []storage.BatteryDayRow
	for key, row := range s.rows {
		if key.profileID != profileID || key.date < from || key.date > to {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
