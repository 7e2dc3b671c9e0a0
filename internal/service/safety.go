package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/repository"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

// SafetyService manages the administrator-defined PM2.5 bands and classifies
// measurements against them.
type SafetyService struct {
	levels repository.SafetyLevelRepository
}

// NewSafetyService creates a safety level service.
func NewSafetyService(levels repository.SafetyLevelRepository) *SafetyService {
	return &SafetyService{levels: levels}
}

// SafetyLevelInput holds the mutable safety level fields.
type SafetyLevelInput struct {
	Label       string  `json:"label" validate:"required,min=1,max=100"`
	Threshold   float64 `json:"threshold" validate:"required,gt=0"`
	Color       string  `json:"color" validate:"max=20"`
	Description string  `json:"description" validate:"max=500"`
}

// Create adds a new safety level. A duplicate threshold conflicts on the
// unique constraint.
func (s *SafetyService) Create(ctx context.Context, in SafetyLevelInput) (*domain.SafetyLevel, error) {
	now := time.Now().UTC()
	level := &domain.SafetyLevel{
		ID:          uuid.NewString(),
		Label:       in.Label,
		Threshold:   in.Threshold,
		Color:       in.Color,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.levels.Create(ctx, level); err != nil {
		return nil, err
	}

	return level, nil
}

// Update modifies an existing safety level.
func (s *SafetyService) Update(ctx context.Context, id string, in SafetyLevelInput) (*domain.SafetyLevel, error) {
	level, err := s.levels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	level.Label = in.Label
	level.Threshold = in.Threshold
	level.Color = in.Color
	level.Description = in.Description

	if err := s.levels.Update(ctx, level); err != nil {
		return nil, err
	}

	return level, nil
}

// Delete removes a safety level.
func (s *SafetyService) Delete(ctx context.Context, id string) error {
	return s.levels.Delete(ctx, id)
}

// List returns all safety levels ordered by threshold ascending.
func (s *SafetyService) List(ctx context.Context) ([]domain.SafetyLevel, error) {
	return s.levels.List(ctx)
}

// Classify maps a PM2.5 value onto the configured bands. With no bands
// configured the value cannot be classified.
func (s *SafetyService) Classify(ctx context.Context, value float64) (*domain.SafetyLevel, error) {
	levels, err := s.levels.List(ctx)
	if err != nil {
		return nil, err
	}

	level, err := domain.ClassifySafety(levels, value)
	if err != nil {
		return nil, apperrors.Conflict("no safety levels configured")
	}
	return level, nil
}
