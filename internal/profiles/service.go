package profiles

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/fdg312/energy-hub/internal/battery"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/fdg312/energy-hub/internal/userctx"
)

var (
	ErrInvalidMode = errors.New("invalid profile mode")
	ErrEmptyName   = errors.New("name cannot be empty")
	ErrLastProfile = errors.New("cannot delete the last profile")
	ErrNotFound    = errors.New("profile not found")
)

// Service содержит бизнес-логику профилей
type Service struct {
	storage storage.Storage
}

// NewService создаёт новый сервис
func NewService(st storage.Storage) *Service {
	return &Service{storage: st}
}

// ListProfiles возвращает профили пользователя, создавая дефолтный при первом заходе
func (s *Service) ListProfiles(ctx context.Context) ([]ProfileDTO, error) {
	userID := userIDFromContext(ctx)

	if err := s.ensureDefaultProfile(ctx, userID); err != nil {
		return nil, err
	}

	profiles, err := s.storage.ListProfiles(ctx, userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProfileDTO, 0, len(profiles))
	for _, p := range profiles {
		dtos = append(dtos, toDTO(p))
	}

	return dtos, nil
}

// GetProfile возвращает профиль по ID
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := toDTO(*profile)
	return &dto, nil
}

// CreateProfile создаёт новый профиль
func (s *Service) CreateProfile(ctx context.Context, req CreateProfileRequest) (*ProfileDTO, error) {
	userID := userIDFromContext(ctx)

	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	mode := req.Mode
	if mode == "" {
		mode = string(battery.ModeStandard)
	}
	if !validMode(mode) {
		return nil, ErrInvalidMode
	}

	profile := &storage.Profile{
		OwnerUserID: userID,
		Name:        strings.TrimSpace(req.Name),
		Mode:        mode,
	}

	if err := s.storage.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	dto := toDTO(*profile)
	return &dto, nil
}

// UpdateProfile обновляет имя и режим профиля
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error) {
	profile, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		if strings.TrimSpace(req.Name) == "" {
			return nil, ErrEmptyName
		}
		profile.Name = strings.TrimSpace(req.Name)
	}

	if req.Mode != "" {
		if !validMode(req.Mode) {
			return nil, ErrInvalidMode
		}
		profile.Mode = req.Mode
	}

	if err := s.storage.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	dto := toDTO(*profile)
	return &dto, nil
}

// DeleteProfile удаляет профиль. Последний профиль пользователя не удаляется,
// иначе клиенту некуда синхронизировать образцы.
func (s *Service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	userID := userIDFromContext(ctx)

	if _, err := s.getOwned(ctx, id); err != nil {
		return err
	}

	profiles, err := s.storage.ListProfiles(ctx, userID)
	if err != nil {
		return err
	}
	if len(profiles) <= 1 {
		return ErrLastProfile
	}

	return s.storage.DeleteProfile(ctx, id)
}

func (s *Service) getOwned(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	userID := userIDFromContext(ctx)

	profile, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if profile.OwnerUserID != userID {
		return nil, ErrNotFound
	}
	return profile, nil
}

// toDTO конвертирует storage.Profile в ProfileDTO
func toDTO(p storage.Profile) ProfileDTO {
	return ProfileDTO{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		Name:        p.Name,
		Mode:        p.Mode,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func validMode(mode string) bool {
	return mode == string(battery.ModeStandard) || mode == string(battery.ModeAthlete)
}

func userIDFromContext(ctx context.Context) string {
	if userID, ok := userctx.GetUserID(ctx); ok && strings.TrimSpace(userID) != "" {
		return userID
	}
	return "default"
}

func (s *Service) ensureDefaultProfile(ctx context.Context, userID string) error {
	profiles, err := s.storage.ListProfiles(ctx, userID)
	if err != nil {
		return err
	}
	if len(profiles) > 0 {
		return nil
	}

	profile := &storage.Profile{
		OwnerUserID: userID,
		Name:        "Я",
		Mode:        string(battery.ModeStandard),
	}
	return s.storage.CreateProfile(ctx, profile)
}
