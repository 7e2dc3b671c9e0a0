package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/event"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/repository"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

// CommentService handles free-form shop comments and their moderation.
type CommentService struct {
	comments repository.CommentRepository
	shops    repository.ShopRepository
	events   event.Publisher
}

// NewCommentService creates a comment service.
func NewCommentService(comments repository.CommentRepository, shops repository.ShopRepository, events event.Publisher) *CommentService {
	return &CommentService{comments: comments, shops: shops, events: events}
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperrors.InvalidInput("comment content is required")
	}
	if utf8.RuneCountInString(content) > domain.MaxCommentLength {
		return apperrors.InvalidInput("comment content exceeds 500 characters")
	}
	return nil
}

// Create adds a comment on the shop. Admin-authored comments are approved
// immediately, everything else starts pending.
func (s *CommentService) Create(ctx context.Context, accountID, role, shopID, content string) (*domain.Comment, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}

	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("shop", shopID)
		}
		return nil, err
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		ID:        uuid.NewString(),
		AccountID: accountID,
		ShopID:    shopID,
		Content:   content,
		Status:    domain.StatusForAuthor(role),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// Get returns the comment by ID.
func (s *CommentService) Get(ctx context.Context, id string) (*domain.Comment, error) {
	return s.comments.GetByID(ctx, id)
}

// ListByShop returns the shop's comments with author profiles, paginated.
// Public listings pass approved; admins may pass any status or none.
func (s *CommentService) ListByShop(ctx context.Context, shopID, status string, page, perPage int) ([]domain.CommentWithAuthor, int, error) {
	if status != "" && !domain.IsValidModerationStatus(status) {
		return nil, 0, apperrors.InvalidInput("invalid moderation status")
	}
	return s.comments.ListByShop(ctx, shopID, status, page, perPage)
}

// Update edits a comment. Only the author or an admin may edit; an author
// edit re-enters moderation, an admin edit is approved.
func (s *CommentService) Update(ctx context.Context, actorID, role, commentID, content string) (*domain.Comment, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AccountID != actorID && role != domain.RoleAdmin {
		return nil, apperrors.Forbidden("only the author or an admin may edit a comment")
	}

	comment.Content = content
	comment.Status = domain.StatusForAuthor(role)

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// Delete removes a comment. Only the author or an admin may delete.
func (s *CommentService) Delete(ctx context.Context, actorID, role, commentID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AccountID != actorID && role != domain.RoleAdmin {
		return apperrors.Forbidden("only the author or an admin may delete a comment")
	}

	return s.comments.Delete(ctx, commentID)
}

// Report flags a comment for moderation and forces it back to pending.
// Authors cannot report their own comment, and a comment can only be
// reported once until a moderator resolves it.
func (s *CommentService) Report(ctx context.Context, actorID, commentID, reason string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AccountID == actorID {
		return apperrors.Forbidden("cannot report your own comment")
	}
	if comment.Reported {
		return apperrors.Conflict("comment is already reported")
	}

	if err := s.comments.Report(ctx, commentID, reason); err != nil {
		return err
	}

	s.events.CommentReported(ctx, commentID, comment.ShopID, actorID, reason)

	return nil
}

// ListByStatus returns comments in the given moderation status for the admin
// queue.
func (s *CommentService) ListByStatus(ctx context.Context, status string, page, perPage int) ([]domain.Comment, int, error) {
	if !domain.IsValidModerationStatus(status) {
		return nil, 0, apperrors.InvalidInput("invalid moderation status")
	}
	return s.comments.ListByStatus(ctx, status, page, perPage)
}

// ListReported returns comments flagged by users.
func (s *CommentService) ListReported(ctx context.Context, page, perPage int) ([]domain.Comment, int, error) {
	return s.comments.ListReported(ctx, page, perPage)
}

// Moderate sets the comment's moderation status and clears the reported flag.
func (s *CommentService) Moderate(ctx context.Context, moderatorID, commentID, status string) error {
	if !domain.IsValidModerationStatus(status) {
		return apperrors.InvalidInput("invalid moderation status")
	}

	if err := s.comments.SetStatus(ctx, commentID, status, true); err != nil {
		return err
	}

	s.events.ContentModerated(ctx, "comment", commentID, moderatorID, status)

	return nil
}
