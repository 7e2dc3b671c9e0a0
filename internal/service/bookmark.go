package service

import (
	"context"
	"errors"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/repository"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

// BookmarkService handles saved shops.
type BookmarkService struct {
	bookmarks repository.BookmarkRepository
	shops     repository.ShopRepository
}

// NewBookmarkService creates a bookmark service.
func NewBookmarkService(bookmarks repository.BookmarkRepository, shops repository.ShopRepository) *BookmarkService {
	return &BookmarkService{bookmarks: bookmarks, shops: shops}
}

// Add bookmarks the shop for the account. The shop must exist; a duplicate
// (account, shop) pair conflicts on the primary key and leaves the original
// bookmark unchanged, whatever category the retry carried.
func (s *BookmarkService) Add(ctx context.Context, accountID, shopID, category string) (*domain.Bookmark, error) {
	if !domain.IsValidCategory(category) {
		return nil, apperrors.InvalidInput("invalid bookmark category")
	}

	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("shop", shopID)
		}
		return nil, err
	}

	b := &domain.Bookmark{AccountID: accountID, ShopID: shopID}
	if category != "" {
		b.Category = &category
	}

	if err := s.bookmarks.Add(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// Remove deletes the bookmark; removing an absent pair reports not found.
func (s *BookmarkService) Remove(ctx context.Context, accountID, shopID string) error {
	return s.bookmarks.Remove(ctx, accountID, shopID)
}

// Status reports whether the account bookmarked the shop and with which
// category.
func (s *BookmarkService) Status(ctx context.Context, accountID, shopID string) (bool, string, error) {
	b, err := s.bookmarks.Get(ctx, accountID, shopID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, "", nil
		}
		return false, "", err
	}

	category := ""
	if b.Category != nil {
		category = *b.Category
	}
	return true, category, nil
}

// List returns the account's bookmarks with shop summaries, paginated.
func (s *BookmarkService) List(ctx context.Context, accountID string, page, perPage int) ([]domain.BookmarkedShop, int, error) {
	return s.bookmarks.ListByAccount(ctx, accountID, page, perPage)
}

// Count returns how many accounts bookmarked the shop.
func (s *BookmarkService) Count(ctx context.Context, shopID string) (int, error) {
	return s.bookmarks.CountByShop(ctx, shopID)
}
