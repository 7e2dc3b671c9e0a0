package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

func newSafetyFixture(t *testing.T) (*SafetyLevelRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewSafetyLevelRepository(mock), mock
}

func TestSafetyLevelRepository_Create_DuplicateThresholdConflicts(t *testing.T) {
	repo, mock := newSafetyFixture(t)
	defer mock.Close()

	now := time.Now().UTC()
	l := &domain.SafetyLevel{
		ID:        "lvl-1",
		Label:     "ดี",
		Threshold: 25,
		Color:     "#00e400",
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO safety_levels").
		WithArgs(l.ID, l.Label, l.Threshold, l.Color, l.Description, l.CreatedAt, l.UpdatedAt).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "safety_levels_threshold_key" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), l)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSafetyLevelRepository_List_OrderedByThreshold(t *testing.T) {
	repo, mock := newSafetyFixture(t)
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "label", "threshold", "color", "description", "created_at", "updated_at"}).
		AddRow("lvl-1", "ดี", 25.0, "#00e400", "", now, now).
		AddRow("lvl-2", "ปานกลาง", 50.0, "#ffff00", "", now, now)

	mock.ExpectQuery("ORDER BY threshold ASC").WillReturnRows(rows)

	levels, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Less(t, levels[0].Threshold, levels[1].Threshold)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSafetyLevelRepository_Delete_MissingLevelNotFound(t *testing.T) {
	repo, mock := newSafetyFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM safety_levels").
		WithArgs("lvl-9").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "lvl-9")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
