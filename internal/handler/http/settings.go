package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/niosa-ap/attendance-backend-go/internal/domain/settings"
	"github.com/niosa-ap/attendance-backend-go/internal/handler/http/response"
)

type SettingsHandler interface {
	GetGeoFence(w http.ResponseWriter, r *http.Request)
	UpdateGeoFence(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{
		settingsService: settingsService,
	}
}

// GetGeoFence implements SettingsHandler.
func (h *settingsHandlerImpl) GetGeoFence(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetGeoFence(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateGeoFence implements SettingsHandler.
func (h *settingsHandlerImpl) UpdateGeoFence(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateGeoFenceRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateGeoFence decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.settingsService.UpdateGeoFence(r.Context(), req)
	if err != nil {
		slog.Error("UpdateGeoFence service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Geofence updated", result)
}
