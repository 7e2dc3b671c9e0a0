package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/database"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

// BookmarkRepository implements repository.BookmarkRepository using PostgreSQL.
type BookmarkRepository struct {
	pool database.DBTX
}

// NewBookmarkRepository creates a new PostgreSQL-backed bookmark repository.
func NewBookmarkRepository(pool database.DBTX) *BookmarkRepository {
	return &BookmarkRepository{pool: pool}
}

// Add inserts a bookmark. Concurrent duplicate inserts race on the primary
// key; the loser surfaces as already-exists and the stored row is untouched.
func (r *BookmarkRepository) Add(ctx context.Context, b *domain.Bookmark) error {
	query := `
		INSERT INTO bookmarks (account_id, shop_id, category)
		VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, b.AccountID, b.ShopID, b.Category)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("bookmark", "shop", b.ShopID)
		}
		return fmt.Errorf("insert bookmark: %w", err)
	}

	return nil
}

// Remove deletes the (account, shop) bookmark. Removing an absent pair is an
// error, never a silent success.
func (r *BookmarkRepository) Remove(ctx context.Context, accountID, shopID string) error {
	query := `DELETE FROM bookmarks WHERE account_id = $1 AND shop_id = $2`

	ct, err := r.pool.Exec(ctx, query, accountID, shopID)
	if err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("bookmark", shopID)
	}

	return nil
}

// Get retrieves the bookmark for the pair, if present.
func (r *BookmarkRepository) Get(ctx context.Context, accountID, shopID string) (*domain.Bookmark, error) {
	query := `
		SELECT account_id, shop_id, category, created_at
		FROM bookmarks
		WHERE account_id = $1 AND shop_id = $2`

	var b domain.Bookmark
	err := r.pool.QueryRow(ctx, query, accountID, shopID).Scan(
		&b.AccountID,
		&b.ShopID,
		&b.Category,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan bookmark: %w", err)
	}

	return &b, nil
}

// ListByAccount returns the account's bookmarks joined with shop summaries.
func (r *BookmarkRepository) ListByAccount(ctx context.Context, accountID string, page, perPage int) ([]domain.BookmarkedShop, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	query := `
		SELECT b.account_id, b.shop_id, b.category, b.created_at,
		       s.name, s.rating, s.image_url, s.address,
		       count(*) OVER() AS total_count
		FROM bookmarks b
		JOIN shops s ON s.id = b.shop_id
		WHERE b.account_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var (
		items      []domain.BookmarkedShop
		totalCount int
	)

	for rows.Next() {
		var item domain.BookmarkedShop
		if err := rows.Scan(
			&item.AccountID,
			&item.ShopID,
			&item.Category,
			&item.CreatedAt,
			&item.ShopName,
			&item.ShopRating,
			&item.ImageURL,
			&item.Address,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan bookmark row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookmark rows: %w", err)
	}

	if items == nil {
		items = []domain.BookmarkedShop{}
	}

	return items, totalCount, nil
}

// CountByShop returns how many accounts bookmarked the shop.
func (r *BookmarkRepository) CountByShop(ctx context.Context, shopID string) (int, error) {
	query := `SELECT COUNT(*) FROM bookmarks WHERE shop_id = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, shopID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookmarks: %w", err)
	}

	return count, nil
}
