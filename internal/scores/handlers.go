package scores

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/fdg312/energy-hub/internal/activity"
	"github.com/fdg312/energy-hub/internal/battery"
	"github.com/fdg312/energy-hub/internal/hrv"
	"github.com/fdg312/energy-hub/internal/rhythm"
	"github.com/fdg312/energy-hub/internal/sleep"
)

// Handler содержит HTTP обработчики скоринга и батареи
type Handler struct {
	service *Service
}

// NewHandler создаёт новый handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleSyncSamples обрабатывает POST /v1/sync/samples
func (h *Handler) HandleSyncSamples(w http.ResponseWriter, r *http.Request) {
	var req SyncSamplesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	resp, err := h.service.SyncSamples(r.Context(), req)
	if err != nil {
		h.sendServiceError(w, err, "Failed to sync samples")
		return
	}

	h.sendJSON(w, http.StatusOK, resp)
}

// HandleCompute обрабатывает POST /v1/scores/compute
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	resp, err := h.service.Compute(req)
	if err != nil {
		h.sendServiceError(w, err, "Failed to compute scores")
		return
	}

	h.sendJSON(w, http.StatusOK, resp)
}

// HandleGetDaily обрабатывает GET /v1/scores/daily
func (h *Handler) HandleGetDaily(w http.ResponseWriter, r *http.Request) {
	profileIDStr := r.URL.Query().Get("profile_id")
	date := r.URL.Query().Get("date")

	if profileIDStr == "" || date == "" {
		h.sendError(w, http.StatusBadRequest, "missing_params", "Missing required parameters")
		return
	}

	profileID, err := uuid.Parse(profileIDStr)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID")
		return
	}

	resp, err := h.service.GetDaily(r.Context(), profileID, date)
	if err != nil {
		h.sendServiceError(w, err, "Failed to get daily scores")
		return
	}

	h.sendJSON(w, http.StatusOK, resp)
}

// HandleMorningBattery обрабатывает POST /v1/battery/morning
func (h *Handler) HandleMorningBattery(w http.ResponseWriter, r *http.Request) {
	var req BatteryMorningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	resp, err := h.service.MorningBattery(r.Context(), req)
	if err != nil {
		h.sendServiceError(w, err, "Failed to compute morning battery")
		return
	}

	h.sendJSON(w, http.StatusOK, resp)
}

// HandleCurrentBattery обрабатывает GET /v1/battery/current
func (h *Handler) HandleCurrentBattery(w http.ResponseWriter, r *http.Request) {
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

	resp, err := h.service.CurrentBattery(r.Context(), profileID)
	if err != nil {
		h.sendServiceError(w, err, "Failed to get current battery")
		return
	}

	h.sendJSON(w, http.StatusOK, resp)
}

// sendServiceError мапит ошибки сервиса и скореров на HTTP статусы
func (h *Handler) sendServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		h.sendError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
	case errors.Is(err, ErrNoSamples):
		h.sendError(w, http.StatusNotFound, "no_samples", "No samples for the requested day")
	case errors.Is(err, ErrNoBatteryDay):
		h.sendError(w, http.StatusNotFound, "no_battery_day", "No morning charge recorded yet")
	case errors.Is(err, ErrInvalidDate),
		errors.Is(err, sleep.ErrInvalidDate),
		errors.Is(err, hrv.ErrInvalidDate),
		errors.Is(err, activity.ErrInvalidDate),
		errors.Is(err, rhythm.ErrInvalidDate):
		h.sendError(w, http.StatusBadRequest, "invalid_date", "Invalid date format")
	case errors.Is(err, sleep.ErrInvalidClock):
		h.sendError(w, http.StatusBadRequest, "invalid_clock", "Invalid clock time, expected HH:MM")
	case errors.Is(err, sleep.ErrNegativeDuration),
		errors.Is(err, sleep.ErrInvalidEfficiency),
		errors.Is(err, hrv.ErrInvalidValue),
		errors.Is(err, activity.ErrNegativeCount),
		errors.Is(err, battery.ErrInvalidScore):
		h.sendError(w, http.StatusBadRequest, "invalid_sample", err.Error())
	default:
		h.sendError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
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
