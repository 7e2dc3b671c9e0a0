package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/database"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

// SafetyLevelRepository implements repository.SafetyLevelRepository using PostgreSQL.
type SafetyLevelRepository struct {
	pool database.DBTX
}

// NewSafetyLevelRepository creates a new PostgreSQL-backed safety level repository.
func NewSafetyLevelRepository(pool database.DBTX) *SafetyLevelRepository {
	return &SafetyLevelRepository{pool: pool}
}

// Create inserts a new safety level. Duplicate thresholds fail on the unique
// constraint.
func (r *SafetyLevelRepository) Create(ctx context.Context, l *domain.SafetyLevel) error {
	query := `
		INSERT INTO safety_levels (id, label, threshold, color, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		l.ID,
		l.Label,
		l.Threshold,
		l.Color,
		l.Description,
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("safety level", "threshold",
				strconv.FormatFloat(l.Threshold, 'f', -1, 64))
		}
		return fmt.Errorf("insert safety level: %w", err)
	}

	return nil
}

// GetByID retrieves a safety level by its ID.
func (r *SafetyLevelRepository) GetByID(ctx context.Context, id string) (*domain.SafetyLevel, error) {
	query := `
		SELECT id, label, threshold, color, description, created_at, updated_at
		FROM safety_levels
		WHERE id = $1`

	var l domain.SafetyLevel
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&l.ID,
		&l.Label,
		&l.Threshold,
		&l.Color,
		&l.Description,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan safety level: %w", err)
	}

	return &l, nil
}

// Update modifies an existing safety level.
func (r *SafetyLevelRepository) Update(ctx context.Context, l *domain.SafetyLevel) error {
	l.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE safety_levels
		SET label = $1, threshold = $2, color = $3, description = $4, updated_at = $5
		WHERE id = $6`

	ct, err := r.pool.Exec(ctx, query,
		l.Label,
		l.Threshold,
		l.Color,
		l.Description,
		l.UpdatedAt,
		l.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("safety level", "threshold",
				strconv.FormatFloat(l.Threshold, 'f', -1, 64))
		}
		return fmt.Errorf("update safety level: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("safety level", l.ID)
	}

	return nil
}

// Delete removes a safety level.
func (r *SafetyLevelRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM safety_levels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete safety level: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("safety level", id)
	}

	return nil
}

// List returns all safety levels ordered by threshold ascending, the order
// classification expects.
func (r *SafetyLevelRepository) List(ctx context.Context) ([]domain.SafetyLevel, error) {
	query := `
		SELECT id, label, threshold, color, description, created_at, updated_at
		FROM safety_levels
		ORDER BY threshold ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list safety levels: %w", err)
	}
	defer rows.Close()

	var levels []domain.SafetyLevel
	for rows.Next() {
		var l domain.SafetyLevel
		if err := rows.Scan(
			&l.ID,
			&l.Label,
			&l.Threshold,
			&l.Color,
			&l.Description,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan safety level row: %w", err)
		}
		levels = append(levels, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate safety level rows: %w", err)
	}

	if levels == nil {
		levels = []domain.SafetyLevel{}
	}

	return levels, nil
}
