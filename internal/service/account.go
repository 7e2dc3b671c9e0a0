package service

import (
	"context"
	"log/slog"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/repository"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/storage"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

// AccountService handles profile management and the admin account surface.
type AccountService struct {
	accounts repository.AccountRepository
	storage  storage.Provider
	logger   *slog.Logger
}

// NewAccountService creates an account service.
func NewAccountService(accounts repository.AccountRepository, store storage.Provider, logger *slog.Logger) *AccountService {
	return &AccountService{accounts: accounts, storage: store, logger: logger}
}

// Get returns the account by ID.
func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// UpdateProfileInput holds the mutable profile fields. Avatar, when set,
// carries a base64-encoded image to upload.
type UpdateProfileInput struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
	Avatar      string `json:"avatar,omitempty"`
}

// UpdateProfile updates the account's display name and optionally replaces
// its avatar. The old avatar file is deleted best effort; a storage failure
// there is logged, not surfaced.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, in UpdateProfileInput) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.DisplayName = in.DisplayName

	if in.Avatar != "" {
		res, err := s.storage.Upload(ctx, in.Avatar, "avatar-"+accountID)
		if err != nil {
			return nil, err
		}

		if old := account.AvatarFileID; old != "" {
			if err := s.storage.Delete(ctx, old); err != nil {
				s.logger.WarnContext(ctx, "failed to delete replaced avatar",
					slog.String("account_id", accountID),
					slog.String("file_id", old),
					slog.String("error", err.Error()))
			}
		}

		account.AvatarURL = res.URL
		account.AvatarFileID = res.FileID
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// List returns a filtered, paginated account listing for administrators.
func (s *AccountService) List(ctx context.Context, filter repository.AccountFilter, page, perPage int) ([]domain.Account, int, error) {
	if filter.Role != "" && !domain.IsValidRole(filter.Role) {
		return nil, 0, apperrors.InvalidInput("invalid role filter")
	}
	if filter.Status != "" && !domain.IsValidStatus(filter.Status) {
		return nil, 0, apperrors.InvalidInput("invalid status filter")
	}
	return s.accounts.List(ctx, filter, page, perPage)
}

// ChangeRole sets the account's role.
func (s *AccountService) ChangeRole(ctx context.Context, accountID, role string) error {
	if !domain.IsValidRole(role) {
		return apperrors.InvalidInput("invalid role")
	}
	return s.accounts.UpdateRole(ctx, accountID, role)
}

// ChangeStatus sets the account's status. A change away from active takes
// effect on the target's next request because the auth gate re-reads status.
func (s *AccountService) ChangeStatus(ctx context.Context, accountID, status string) error {
	if !domain.IsValidStatus(status) {
		return apperrors.InvalidInput("invalid status")
	}
	return s.accounts.UpdateStatus(ctx, accountID, status)
}

// Delete removes an account. An admin cannot delete their own account; the
// row removal cascades to the account's shops, bookmarks, reviews, and
// comments.
func (s *AccountService) Delete(ctx context.Context, actorID, accountID string) error {
	if actorID == accountID {
		return apperrors.Conflict("cannot delete your own account")
	}
	return s.accounts.Delete(ctx, accountID)
}
