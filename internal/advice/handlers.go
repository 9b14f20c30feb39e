package advice

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// Handler содержит HTTP обработчики советов
type Handler struct {
	service *Service
}

// NewHandler создаёт новый handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// DailyAdviceResponse — ответ GET /v1/advice/daily
type DailyAdviceResponse struct {
	ProfileID  uuid.UUID `json:"profile_id"`
	Date       string    `json:"date"`
	AdviceText string    `json:"advice_text"`
	Highlights []string  `json:"highlights,omitempty"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandleDaily обрабатывает GET /v1/advice/daily
func (h *Handler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	profileIDStr := r.URL.Query().Get("profile_id")
	if profileIDStr == "" {
		h.sendError(w, http.StatusBadRequest, "missing_params", "Missing required parameters")
		return
	}

	profileID, err := uuid.Parse(profileIDStr)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID")
		return
	}

	resp, snap, err := h.service.DailyAdvice(r.Context(), profileID, r.URL.Query().Get("date"))
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			h.sendError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
		case errors.Is(err, ErrNoData):
			h.sendError(w, http.StatusNotFound, "no_scores", "No scores for the requested day")
		case errors.Is(err, ErrInvalidDate):
			h.sendError(w, http.StatusBadRequest, "invalid_date", "Invalid date format")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to build advice")
		}
		return
	}

	h.sendJSON(w, http.StatusOK, DailyAdviceResponse{
		ProfileID:  profileID,
		Date:       snap.Date,
		AdviceText: resp.AdviceText,
		Highlights: resp.Highlights,
	})
}

// sendJSON отправляет JSON ответ
func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// sendError отправляет ошибку в формате ErrorResponse
func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
