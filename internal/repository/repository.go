package repository

import (
	"context"
	"time"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
)

// AccountFilter narrows admin account listings.
type AccountFilter struct {
	Role   string
	Status string
}

// AccountRepository defines the interface for account persistence operations.
type AccountRepository interface {
	// Create inserts a new account into the store.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// GetByEmail retrieves an account by its email address.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// GetByOAuth retrieves an account by its federated identity pair.
	GetByOAuth(ctx context.Context, provider, subject string) (*domain.Account, error)

	// Update modifies an existing account in the store.
	Update(ctx context.Context, account *domain.Account) error

	// UpdateRole changes only the account's role.
	UpdateRole(ctx context.Context, id, role string) error

	// UpdateStatus changes only the account's status.
	UpdateStatus(ctx context.Context, id, status string) error

	// Delete removes an account; dependent rows cascade.
	Delete(ctx context.Context, id string) error

	// List returns a filtered, paginated account listing and the total count.
	List(ctx context.Context, filter AccountFilter, page, perPage int) ([]domain.Account, int, error)
}

// RefreshTokenRepository defines the interface for refresh token persistence.
type RefreshTokenRepository interface {
	// Create stores a new refresh token hash.
	Create(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error

	// GetByHash retrieves a refresh token record by its hash.
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Revoke revokes a specific refresh token by its hash.
	Revoke(ctx context.Context, tokenHash string) error

	// RevokeByAccountID revokes all refresh tokens for the given account.
	RevokeByAccountID(ctx context.Context, accountID string) error
}

// ShopRepository defines the interface for shop persistence operations.
type ShopRepository interface {
	// Create inserts a new shop into the store.
	Create(ctx context.Context, shop *domain.Shop) error

	// GetByID retrieves a shop by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Shop, error)

	// Update modifies an existing shop in the store.
	Update(ctx context.Context, shop *domain.Shop) error

	// Delete removes a shop; dependent rows cascade.
	Delete(ctx context.Context, id string) error

	// List returns shops matching the optional name query, paginated, with
	// the total count.
	List(ctx context.Context, query string, page, perPage int) ([]domain.Shop, int, error)

	// ListByOwner returns all shops owned by the given account.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Shop, error)
}

// BookmarkRepository defines the interface for bookmark persistence.
type BookmarkRepository interface {
	// Add inserts a bookmark. A duplicate (account, shop) pair returns an
	// already-exists error from the primary key constraint; the original
	// record is left unchanged.
	Add(ctx context.Context, bookmark *domain.Bookmark) error

	// Remove deletes the (account, shop) bookmark; absent pairs are an error.
	Remove(ctx context.Context, accountID, shopID string) error

	// Get retrieves the bookmark for the pair, if present.
	Get(ctx context.Context, accountID, shopID string) (*domain.Bookmark, error)

	// ListByAccount returns the account's bookmarks joined with shop
	// summaries, paginated, with the total count.
	ListByAccount(ctx context.Context, accountID string, page, perPage int) ([]domain.BookmarkedShop, int, error)

	// CountByShop returns how many accounts bookmarked the shop.
	CountByShop(ctx context.Context, shopID string) (int, error)
}

// ReviewRepository defines the interface for review persistence. Create,
// Update, and Delete also recompute the owning shop's aggregate rating inside
// the same transaction.
type ReviewRepository interface {
	// Create inserts a review and recomputes the shop rating atomically.
	// A second review for the same (account, shop) pair fails on the unique
	// constraint.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// Update modifies a review and recomputes the shop rating atomically.
	Update(ctx context.Context, review *domain.Review) error

	// Delete removes a review and recomputes the shop rating atomically.
	Delete(ctx context.Context, id string) error

	// ListByShop returns the shop's reviews with author profiles, paginated,
	// with the total count.
	ListByShop(ctx context.Context, shopID string, page, perPage int) ([]domain.ReviewWithAuthor, int, error)

	// ListByStatus returns reviews in the given moderation status for the
	// admin queue.
	ListByStatus(ctx context.Context, status string, page, perPage int) ([]domain.Review, int, error)

	// ListReported returns reviews flagged by users.
	ListReported(ctx context.Context, page, perPage int) ([]domain.Review, int, error)

	// SetStatus sets the moderation status and clears the reported flag when
	// a moderator resolves the review.
	SetStatus(ctx context.Context, id, status string, clearReported bool) error

	// Report marks the review reported with a reason and forces it back to
	// pending.
	Report(ctx context.Context, id, reason string) error

	// SetReply records the shop owner's reply.
	SetReply(ctx context.Context, id, reply string, at time.Time) error
}

// CommentRepository defines the interface for comment persistence.
type CommentRepository interface {
	// Create inserts a new comment.
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves a comment by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Comment, error)

	// Update modifies a comment's content and status.
	Update(ctx context.Context, comment *domain.Comment) error

	// Delete removes a comment.
	Delete(ctx context.Context, id string) error

	// ListByShop returns the shop's comments with author profiles, optionally
	// filtered by status, paginated, with the total count.
	ListByShop(ctx context.Context, shopID, status string, page, perPage int) ([]domain.CommentWithAuthor, int, error)

	// ListByStatus returns comments in the given moderation status for the
	// admin queue.
	ListByStatus(ctx context.Context, status string, page, perPage int) ([]domain.Comment, int, error)

	// ListReported returns comments flagged by users.
	ListReported(ctx context.Context, page, perPage int) ([]domain.Comment, int, error)

	// SetStatus sets the moderation status and clears the reported flag when
	// a moderator resolves the comment.
	SetStatus(ctx context.Context, id, status string, clearReported bool) error

	// Report marks the comment reported with a reason and forces it back to
	// pending.
	Report(ctx context.Context, id, reason string) error
}

// SafetyLevelRepository defines the interface for safety level persistence.
type SafetyLevelRepository interface {
	// Create inserts a new safety level. Duplicate thresholds fail on the
	// unique constraint.
	Create(ctx context.Context, level *domain.SafetyLevel) error

	// GetByID retrieves a safety level by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.SafetyLevel, error)

	// Update modifies an existing safety level.
	Update(ctx context.Context, level *domain.SafetyLevel) error

	// Delete removes a safety level.
	Delete(ctx context.Context, id string) error

	// List returns all safety levels ordered by threshold ascending.
	List(ctx context.Context) ([]domain.SafetyLevel, error)
}
