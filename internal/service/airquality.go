package service

import (
	"context"
	"errors"
	"time"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/airquality"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

// AirQualityReading is a measurement classified against the configured
// safety levels. Level is nil when no levels are configured.
type AirQualityReading struct {
	PM25       float64             `json:"pm25"`
	MeasuredAt time.Time           `json:"measured_at"`
	Degraded   bool                `json:"degraded,omitempty"`
	Level      *domain.SafetyLevel `json:"level,omitempty"`
}

type measurer interface {
	Measure(ctx context.Context, lat, lon float64) (*airquality.Measurement, error)
}

// AirQualityService measures PM2.5 for a coordinate and attaches the
// matching safety band.
type AirQualityService struct {
	client measurer
	safety *SafetyService
}

// NewAirQualityService creates an air-quality service.
func NewAirQualityService(client measurer, safety *SafetyService) *AirQualityService {
	return &AirQualityService{client: client, safety: safety}
}

// Measure returns the reading for the coordinate. A missing safety
// configuration does not block the measurement; the reading is returned
// without a level.
func (s *AirQualityService) Measure(ctx context.Context, lat, lon float64) (*AirQualityReading, error) {
	m, err := s.client.Measure(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	reading := &AirQualityReading{
		PM25:       m.PM25,
		MeasuredAt: m.MeasuredAt,
		Degraded:   m.Degraded,
	}

	level, err := s.safety.Classify(ctx, m.PM25)
	switch {
	case err == nil:
		reading.Level = level
	case errors.Is(err, apperrors.ErrConflict):
		// No bands configured; the raw reading is still useful.
	default:
		return nil, err
	}

	return reading, nil
}
