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

const reviewColumns = `id, account_id, shop_id, rating, content, status, reported, report_reason,
	reply, reply_at, created_at, updated_at`

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
// Mutations that change ratings run in a transaction together with the shop
// aggregate recompute, so the stored shop rating never drifts from the mean.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts a review and recomputes the shop rating in one transaction.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin review create: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO reviews (id, account_id, shop_id, rating, content, status, reported, report_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = tx.Exec(ctx, query,
		rv.ID,
		rv.AccountID,
		rv.ShopID,
		rv.Rating,
		rv.Content,
		rv.Status,
		rv.Reported,
		rv.ReportReason,
		rv.CreatedAt,
		rv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("review", "shop", rv.ShopID)
		}
		return fmt.Errorf("insert review: %w", err)
	}

	if err := recomputeShopRating(ctx, tx, rv.ShopID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit review create: %w", err)
	}

	return nil
}

// GetByID retrieves a review by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	var rv domain.Review
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rv.ID,
		&rv.AccountID,
		&rv.ShopID,
		&rv.Rating,
		&rv.Content,
		&rv.Status,
		&rv.Reported,
		&rv.ReportReason,
		&rv.Reply,
		&rv.ReplyAt,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}

	return &rv, nil
}

// Update modifies a review's rating, content, and status, then recomputes the
// shop rating in the same transaction.
func (r *ReviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	rv.UpdatedAt = time.Now().UTC()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin review update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE reviews
		SET rating = $1, content = $2, status = $3, updated_at = $4
		WHERE id = $5`

	ct, err := tx.Exec(ctx, query, rv.Rating, rv.Content, rv.Status, rv.UpdatedAt, rv.ID)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", rv.ID)
	}

	if err := recomputeShopRating(ctx, tx, rv.ShopID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit review update: %w", err)
	}

	return nil
}

// Delete removes a review and recomputes the shop rating in one transaction.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin review delete: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var shopID string
	err = tx.QueryRow(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING shop_id`, id).Scan(&shopID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("review", id)
		}
		return fmt.Errorf("delete review: %w", err)
	}

	if err := recomputeShopRating(ctx, tx, shopID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit review delete: %w", err)
	}

	return nil
}

// recomputeShopRating rewrites the shop's stored rating as the mean over all
// of its reviews, 0 when none remain. Runs inside the caller's transaction.
func recomputeShopRating(ctx context.Context, tx pgx.Tx, shopID string) error {
	query := `
		UPDATE shops
		SET rating = (SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE shop_id = $1),
		    updated_at = NOW()
		WHERE id = $1`

	if _, err := tx.Exec(ctx, query, shopID); err != nil {
		return fmt.Errorf("recompute shop rating: %w", err)
	}

	return nil
}

// ListByShop returns the shop's reviews with author profiles, paginated.
func (r *ReviewRepository) ListByShop(ctx context.Context, shopID string, page, perPage int) ([]domain.ReviewWithAuthor, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	query := `
		SELECT r.id, r.account_id, r.shop_id, r.rating, r.content, r.status, r.reported, r.report_reason,
		       r.reply, r.reply_at, r.created_at, r.updated_at,
		       a.display_name, a.avatar_url,
		       count(*) OVER() AS total_count
		FROM reviews r
		JOIN accounts a ON a.id = r.account_id
		WHERE r.shop_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, shopID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.ReviewWithAuthor
		totalCount int
	)

	for rows.Next() {
		var rv domain.ReviewWithAuthor
		if err := rows.Scan(
			&rv.ID,
			&rv.AccountID,
			&rv.ShopID,
			&rv.Rating,
			&rv.Content,
			&rv.Status,
			&rv.Reported,
			&rv.ReportReason,
			&rv.Reply,
			&rv.ReplyAt,
			&rv.CreatedAt,
			&rv.UpdatedAt,
			&rv.AuthorName,
			&rv.AuthorAvatar,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.ReviewWithAuthor{}
	}

	return reviews, totalCount, nil
}

// ListByStatus returns reviews in the given moderation status.
func (r *ReviewRepository) ListByStatus(ctx context.Context, status string, page, perPage int) ([]domain.Review, int, error) {
	return r.listFiltered(ctx, `status = $1`, status, page, perPage)
}

// ListReported returns reviews flagged by users.
func (r *ReviewRepository) ListReported(ctx context.Context, page, perPage int) ([]domain.Review, int, error) {
	return r.listFiltered(ctx, `reported = $1`, true, page, perPage)
}

func (r *ReviewRepository) listFiltered(ctx context.Context, cond string, arg any, page, perPage int) ([]domain.Review, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	query := `
		SELECT ` + reviewColumns + `, count(*) OVER() AS total_count
		FROM reviews
		WHERE ` + cond + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, arg, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)

	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.AccountID,
			&rv.ShopID,
			&rv.Rating,
			&rv.Content,
			&rv.Status,
			&rv.Reported,
			&rv.ReportReason,
			&rv.Reply,
			&rv.ReplyAt,
			&rv.CreatedAt,
			&rv.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, totalCount, nil
}

// SetStatus sets the moderation status, optionally clearing the reported flag.
func (r *ReviewRepository) SetStatus(ctx context.Context, id, status string, clearReported bool) error {
	query := `
		UPDATE reviews
		SET status = $1,
		    reported = CASE WHEN $2 THEN FALSE ELSE reported END,
		    updated_at = NOW()
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, status, clearReported, id)
	if err != nil {
		return fmt.Errorf("set review status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}

// Report marks the review reported and forces it back into the moderation queue.
func (r *ReviewRepository) Report(ctx context.Context, id, reason string) error {
	query := `
		UPDATE reviews
		SET reported = TRUE, report_reason = $1, status = $2, updated_at = NOW()
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, reason, domain.ModerationPending, id)
	if err != nil {
		return fmt.Errorf("report review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}

// SetReply records the shop owner's reply.
func (r *ReviewRepository) SetReply(ctx context.Context, id, reply string, at time.Time) error {
	query := `UPDATE reviews SET reply = $1, reply_at = $2, updated_at = NOW() WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, reply, at, id)
	if err != nil {
		return fmt.Errorf("set review reply: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}
