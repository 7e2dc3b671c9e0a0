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

const commentColumns = `id, account_id, shop_id, content, status, reported, report_reason, created_at, updated_at`

// CommentRepository implements repository.CommentRepository using PostgreSQL.
type CommentRepository struct {
	pool database.DBTX
}

// NewCommentRepository creates a new PostgreSQL-backed comment repository.
func NewCommentRepository(pool database.DBTX) *CommentRepository {
	return &CommentRepository{pool: pool}
}

// Create inserts a new comment.
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (id, account_id, shop_id, content, status, reported, report_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.AccountID,
		c.ShopID,
		c.Content,
		c.Status,
		c.Reported,
		c.ReportReason,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by its ID.
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	var c domain.Comment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.AccountID,
		&c.ShopID,
		&c.Content,
		&c.Status,
		&c.Reported,
		&c.ReportReason,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}

	return &c, nil
}

// Update modifies a comment's content and status.
func (r *CommentRepository) Update(ctx context.Context, c *domain.Comment) error {
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE comments
		SET content = $1, status = $2, updated_at = $3
		WHERE id = $4`

	ct, err := r.pool.Exec(ctx, query, c.Content, c.Status, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("comment", c.ID)
	}

	return nil
}

// Delete removes a comment.
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("comment", id)
	}

	return nil
}

// ListByShop returns the shop's comments with author profiles, optionally
// filtered by moderation status.
func (r *CommentRepository) ListByShop(ctx context.Context, shopID, status string, page, perPage int) ([]domain.CommentWithAuthor, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	query := `
		SELECT c.id, c.account_id, c.shop_id, c.content, c.status, c.reported, c.report_reason,
		       c.created_at, c.updated_at,
		       a.display_name, a.avatar_url,
		       count(*) OVER() AS total_count
		FROM comments c
		JOIN accounts a ON a.id = c.account_id
		WHERE c.shop_id = $1
		  AND ($2 = '' OR c.status = $2)
		ORDER BY c.created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, shopID, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var (
		comments   []domain.CommentWithAuthor
		totalCount int
	)

	for rows.Next() {
		var c domain.CommentWithAuthor
		if err := rows.Scan(
			&c.ID,
			&c.AccountID,
			&c.ShopID,
			&c.Content,
			&c.Status,
			&c.Reported,
			&c.ReportReason,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.AuthorName,
			&c.AuthorAvatar,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate comment rows: %w", err)
	}

	if comments == nil {
		comments = []domain.CommentWithAuthor{}
	}

	return comments, totalCount, nil
}

// ListByStatus returns comments in the given moderation status.
func (r *CommentRepository) ListByStatus(ctx context.Context, status string, page, perPage int) ([]domain.Comment, int, error) {
	return r.listFiltered(ctx, `status = $1`, status, page, perPage)
}

// ListReported returns comments flagged by users.
func (r *CommentRepository) ListReported(ctx context.Context, page, perPage int) ([]domain.Comment, int, error) {
	return r.listFiltered(ctx, `reported = $1`, true, page, perPage)
}

func (r *CommentRepository) listFiltered(ctx context.Context, cond string, arg any, page, perPage int) ([]domain.Comment, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	query := `
		SELECT ` + commentColumns + `, count(*) OVER() AS total_count
		FROM comments
		WHERE ` + cond + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, arg, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var (
		comments   []domain.Comment
		totalCount int
	)

	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(
			&c.ID,
			&c.AccountID,
			&c.ShopID,
			&c.Content,
			&c.Status,
			&c.Reported,
			&c.ReportReason,
			&c.CreatedAt,
			&c.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate comment rows: %w", err)
	}

	if comments == nil {
		comments = []domain.Comment{}
	}

	return comments, totalCount, nil
}

// SetStatus sets the moderation status, optionally clearing the reported flag.
func (r *CommentRepository) SetStatus(ctx context.Context, id, status string, clearReported bool) error {
	query := `
		UPDATE comments
		SET status = $1,
		    reported = CASE WHEN $2 THEN FALSE ELSE reported END,
		    updated_at = NOW()
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, status, clearReported, id)
	if err != nil {
		return fmt.Errorf("set comment status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("comment", id)
	}

	return nil
}

// Report marks the comment reported and forces it back into the moderation queue.
func (r *CommentRepository) Report(ctx context.Context, id, reason string) error {
	query := `
		UPDATE comments
		SET reported = TRUE, report_reason = $1, status = $2, updated_at = NOW()
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, reason, domain.ModerationPending, id)
	if err != nil {
		return fmt.Errorf("report comment: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("comment", id)
	}

	return nil
}
