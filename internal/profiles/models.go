package profiles

import (
	"time"

	"github.com/google/uuid"
)

// ProfileDTO — DTO для API
type ProfileDTO struct {
	ID          uuid.UUID `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Mode        string    `json:"mode"` // standard | athlete
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfilesResponse — ответ для GET /v1/profiles
type ProfilesResponse struct {
	Profiles []ProfileDTO `json:"profiles"`
}

// CreateProfileRequest — запрос для POST /v1/profiles
type CreateProfileRequest struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
}

// UpdateProfileRequest — запрос для PATCH /v1/profiles/{id}.
// Пустые поля не трогаются.
type UpdateProfileRequest struct {
	Name string `json:"name,omitempty"`
	Mode string `json:"mode,omitempty"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
