package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/event"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/repository"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

// ReviewService handles rated reviews and their moderation. Every mutation
// that can change a rating delegates to the repository, which recomputes the
// shop's aggregate in the same transaction.
type ReviewService struct {
	reviews repository.ReviewRepository
	shops   repository.ShopRepository
	events  event.Publisher
}

// NewReviewService creates a review service.
func NewReviewService(reviews repository.ReviewRepository, shops repository.ShopRepository, events event.Publisher) *ReviewService {
	return &ReviewService{reviews: reviews, shops: shops, events: events}
}

// ReviewInput holds the author-controlled review fields.
type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"max=2000"`
}

// Create adds the account's review of the shop. One review per (account,
// shop) pair: a duplicate conflicts on the unique constraint, not on a prior
// lookup. Admin-authored reviews are approved immediately, everything else
// starts pending.
func (s *ReviewService) Create(ctx context.Context, accountID, role, shopID string, in ReviewInput) (*domain.Review, error) {
	if !domain.IsValidRating(in.Rating) {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("shop", shopID)
		}
		return nil, err
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:        uuid.NewString(),
		AccountID: accountID,
		ShopID:    shopID,
		Rating:    in.Rating,
		Content:   in.Content,
		Status:    domain.StatusForAuthor(role),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.events.ReviewCreated(ctx, review.ID, review.ShopID, review.AccountID, review.Rating)

	return review, nil
}

// Get returns the review by ID.
func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// ListByShop returns the shop's reviews with author profiles, paginated.
func (s *ReviewService) ListByShop(ctx context.Context, shopID string, page, perPage int) ([]domain.ReviewWithAuthor, int, error) {
	return s.reviews.ListByShop(ctx, shopID, page, perPage)
}

// Update edits a review. Only the author or an admin may edit; an author
// edit re-enters moderation, an admin edit is approved. The shop aggregate
// is recomputed with the edit in one transaction.
func (s *ReviewService) Update(ctx context.Context, actorID, role, reviewID string, in ReviewInput) (*domain.Review, error) {
	if !domain.IsValidRating(in.Rating) {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.AccountID != actorID && role != domain.RoleAdmin {
		return nil, apperrors.Forbidden("only the author or an admin may edit a review")
	}

	review.Rating = in.Rating
	review.Content = in.Content
	review.Status = domain.StatusForAuthor(role)

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// Delete removes a review. Only the author or an admin may delete; the shop
// aggregate is recomputed with the removal in one transaction.
func (s *ReviewService) Delete(ctx context.Context, actorID, role, reviewID string) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.AccountID != actorID && role != domain.RoleAdmin {
		return apperrors.Forbidden("only the author or an admin may delete a review")
	}

	return s.reviews.Delete(ctx, reviewID)
}

// Report flags a review for moderation and forces it back to pending.
// Authors cannot report their own review, and a review can only be reported
// once until a moderator resolves it.
func (s *ReviewService) Report(ctx context.Context, actorID, reviewID, reason string) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.AccountID == actorID {
		return apperrors.Forbidden("cannot report your own review")
	}
	if review.Reported {
		return apperrors.Conflict("review is already reported")
	}

	return s.reviews.Report(ctx, reviewID, reason)
}

// Reply records the shop owner's reply to a review.
func (s *ReviewService) Reply(ctx context.Context, actorID, reviewID, reply string) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	shop, err := s.shops.GetByID(ctx, review.ShopID)
	if err != nil {
		return nil, err
	}
	if shop.OwnerID != actorID {
		return nil, apperrors.Forbidden("only the shop owner may reply to its reviews")
	}

	at := time.Now().UTC()
	if err := s.reviews.SetReply(ctx, reviewID, reply, at); err != nil {
		return nil, err
	}

	review.Reply = &reply
	review.ReplyAt = &at
	return review, nil
}

// ListByStatus returns reviews in the given moderation status for the admin
// queue.
func (s *ReviewService) ListByStatus(ctx context.Context, status string, page, perPage int) ([]domain.Review, int, error) {
	if !domain.IsValidModerationStatus(status) {
		return nil, 0, apperrors.InvalidInput("invalid moderation status")
	}
	return s.reviews.ListByStatus(ctx, status, page, perPage)
}

// ListReported returns reviews flagged by users.
func (s *ReviewService) ListReported(ctx context.Context, page, perPage int) ([]domain.Review, int, error) {
	return s.reviews.ListReported(ctx, page, perPage)
}

// Moderate sets the review's moderation status and clears the reported flag.
func (s *ReviewService) Moderate(ctx context.Context, moderatorID, reviewID, status string) error {
	if !domain.IsValidModerationStatus(status) {
		return apperrors.InvalidInput("invalid moderation status")
	}

	if err := s.reviews.SetStatus(ctx, reviewID, status, true); err != nil {
		return err
	}

	s.events.ContentModerated(ctx, "review", reviewID, moderatorID, status)

	return nil
}
