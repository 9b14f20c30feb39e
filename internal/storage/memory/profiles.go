package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/energy-hub/internal/storage"
)

type profilesStore struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]storage.Profile
}

func newProfilesStore(seed ...storage.Profile) *profilesStore {
	s := &profilesStore{profiles: make(map[uuid.UUID]storage.Profile)}
	for _, p := range seed {
		s.profiles[p.ID] = p
	}
	return s
}

func (s *profilesStore) List(ctx context.Context, ownerUserID string) ([]storage.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]storage.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if p.OwnerUserID == ownerUserID {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

func (s *profilesStore) Get(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (s *profilesStore) Create(ctx context.Context, profile *storage.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.Mode == "" {
		profile.Mode = "standard"
	}
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	s.profiles[profile.ID] = *profile
	return nil
}

func (s *profilesStore) Update(ctx context.Context, profile *storage.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[profile.ID]; !ok {
		return storage.ErrNotFound
	}
	profile.UpdatedAt = time.Now()
	s.profiles[profile.ID] = *profile
	return nil
}

func (s *profilesStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.profiles, id)
	return nil
}
