package http

import (
	"log/slog"
	"net/http"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/service"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/httputil"
)

// AirQualityHandler handles the air quality and safety level endpoints.
type AirQualityHandler struct {
	airQuality *service.AirQualityService
	safety     *service.SafetyService
	logger     *slog.Logger
}

// NewAirQualityHandler creates a new air quality HTTP handler.
func NewAirQualityHandler(aq *service.AirQualityService, safety *service.SafetyService, logger *slog.Logger) *AirQualityHandler {
	return &AirQualityHandler{airQuality: aq, safety: safety, logger: logger}
}

// Measure handles GET /api/v1/air-quality?lat=&lon=
func (h *AirQualityHandler) Measure(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := parseCoordinates(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	reading, err := h.airQuality.Measure(r.Context(), lat, lon)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, reading)
}

// ListSafetyLevels handles GET /api/v1/safety-levels
func (h *AirQualityHandler) ListSafetyLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.safety.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, levels)
}
