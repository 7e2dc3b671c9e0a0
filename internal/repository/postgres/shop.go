package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/database"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

const shopColumns = `id, owner_id, name, description, address, phone, latitude, longitude,
	open_time, close_time, image_url, image_file_id, rating, created_at, updated_at`

// ShopRepository implements repository.ShopRepository using PostgreSQL.
type ShopRepository struct {
	pool database.DBTX
}

// NewShopRepository creates a new PostgreSQL-backed shop repository.
func NewShopRepository(pool database.DBTX) *ShopRepository {
	return &ShopRepository{pool: pool}
}

// Create inserts a new shop.
func (r *ShopRepository) Create(ctx context.Context, s *domain.Shop) error {
	query := `
		INSERT INTO shops (id, owner_id, name, description, address, phone, latitude, longitude, open_time, close_time, image_url, image_file_id, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.OwnerID,
		s.Name,
		s.Description,
		s.Address,
		s.Phone,
		s.Latitude,
		s.Longitude,
		s.OpenTime,
		s.CloseTime,
		s.ImageURL,
		s.ImageFileID,
		s.Rating,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert shop: %w", err)
	}

	return nil
}

// GetByID retrieves a shop by its ID.
func (r *ShopRepository) GetByID(ctx context.Context, id string) (*domain.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE id = $1`

	var s domain.Shop
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.OwnerID,
		&s.Name,
		&s.Description,
		&s.Address,
		&s.Phone,
		&s.Latitude,
		&s.Longitude,
		&s.OpenTime,
		&s.CloseTime,
		&s.ImageURL,
		&s.ImageFileID,
		&s.Rating,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan shop: %w", err)
	}

	return &s, nil
}

// Update modifies an existing shop. The stored rating is never written here;
// it changes only through review transactions.
func (r *ShopRepository) Update(ctx context.Context, s *domain.Shop) error {
	s.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE shops
		SET name = $1, description = $2, address = $3, phone = $4, latitude = $5, longitude = $6,
		    open_time = $7, close_time = $8, image_url = $9, image_file_id = $10, updated_at = $11
		WHERE id = $12`

	ct, err := r.pool.Exec(ctx, query,
		s.Name,
		s.Description,
		s.Address,
		s.Phone,
		s.Latitude,
		s.Longitude,
		s.OpenTime,
		s.CloseTime,
		s.ImageURL,
		s.ImageFileID,
		s.UpdatedAt,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("update shop: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("shop", s.ID)
	}

	return nil
}

// Delete removes a shop. Bookmarks, reviews, and comments cascade.
func (r *ShopRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("shop", id)
	}

	return nil
}

// List returns shops matching the optional name query, paginated.
func (r *ShopRepository) List(ctx context.Context, query string, page, perPage int) ([]domain.Shop, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	sql := `
		SELECT ` + shopColumns + `, count(*) OVER() AS total_count
		FROM shops
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, sql, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()

	return scanShopRows(rows)
}

// ListByOwner returns all shops owned by the given account.
func (r *ShopRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Shop, error) {
	sql := `
		SELECT ` + shopColumns + `, count(*) OVER() AS total_count
		FROM shops
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, sql, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list shops by owner: %w", err)
	}
	defer rows.Close()

	shops, _, err := scanShopRows(rows)
	return shops, err
}

func scanShopRows(rows pgx.Rows) ([]domain.Shop, int, error) {
	var (
		shops      []domain.Shop
		totalCount int
	)

	for rows.Next() {
		var s domain.Shop
		if err := rows.Scan(
			&s.ID,
			&s.OwnerID,
			&s.Name,
			&s.Description,
			&s.Address,
			&s.Phone,
			&s.Latitude,
			&s.Longitude,
			&s.OpenTime,
			&s.CloseTime,
			&s.ImageURL,
			&s.ImageFileID,
			&s.Rating,
			&s.CreatedAt,
			&s.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan shop row: %w", err)
		}
		shops = append(shops, s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate shop rows: %w", err)
	}

	if shops == nil {
		shops = []domain.Shop{}
	}

	return shops, totalCount, nil
}
