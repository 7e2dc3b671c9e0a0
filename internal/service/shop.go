package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/repository"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/storage"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

// ShopService handles the shop catalog. Mutations are restricted to the
// owning store account.
type ShopService struct {
	shops   repository.ShopRepository
	storage storage.Provider
	logger  *slog.Logger
}

// NewShopService creates a shop service.
func NewShopService(shops repository.ShopRepository, store storage.Provider, logger *slog.Logger) *ShopService {
	return &ShopService{shops: shops, storage: store, logger: logger}
}

// ShopInput holds the mutable shop fields. Image, when set, carries a
// base64-encoded photo to upload.
type ShopInput struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Address     string  `json:"address" validate:"max=500"`
	Phone       string  `json:"phone" validate:"max=20"`
	Latitude    float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64 `json:"longitude" validate:"min=-180,max=180"`
	OpenTime    string  `json:"open_time" validate:"max=10"`
	CloseTime   string  `json:"close_time" validate:"max=10"`
	Image       string  `json:"image,omitempty"`
}

// Create registers a new shop under the owner. The aggregate rating starts
// at 0 and is only ever written by review mutations.
func (s *ShopService) Create(ctx context.Context, ownerID string, in ShopInput) (*domain.Shop, error) {
	now := time.Now().UTC()
	shop := &domain.Shop{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Phone:       in.Phone,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		OpenTime:    in.OpenTime,
		CloseTime:   in.CloseTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if in.Image != "" {
		res, err := s.storage.Upload(ctx, in.Image, "shop-"+shop.ID)
		if err != nil {
			return nil, err
		}
		shop.ImageURL = res.URL
		shop.ImageFileID = res.FileID
	}

	if err := s.shops.Create(ctx, shop); err != nil {
		return nil, err
	}

	return shop, nil
}

// Get returns the shop by ID.
func (s *ShopService) Get(ctx context.Context, id string) (*domain.Shop, error) {
	return s.shops.GetByID(ctx, id)
}

// List returns shops matching the optional name query, paginated.
func (s *ShopService) List(ctx context.Context, query string, page, perPage int) ([]domain.Shop, int, error) {
	return s.shops.List(ctx, query, page, perPage)
}

// ListByOwner returns the shops owned by the account.
func (s *ShopService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Shop, error) {
	return s.shops.ListByOwner(ctx, ownerID)
}

// Update modifies the shop. Only the owner may update; a replaced image's
// old file is deleted best effort.
func (s *ShopService) Update(ctx context.Context, actorID, shopID string, in ShopInput) (*domain.Shop, error) {
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop.OwnerID != actorID {
		return nil, apperrors.Forbidden("only the shop owner may update it")
	}

	shop.Name = in.Name
	shop.Description = in.Description
	shop.Address = in.Address
	shop.Phone = in.Phone
	shop.Latitude = in.Latitude
	shop.Longitude = in.Longitude
	shop.OpenTime = in.OpenTime
	shop.CloseTime = in.CloseTime

	if in.Image != "" {
		res, err := s.storage.Upload(ctx, in.Image, "shop-"+shop.ID)
		if err != nil {
			return nil, err
		}
		s.deleteImage(ctx, shop.ImageFileID, shopID)
		shop.ImageURL = res.URL
		shop.ImageFileID = res.FileID
	}

	if err := s.shops.Update(ctx, shop); err != nil {
		return nil, err
	}

	return shop, nil
}

// Delete removes the shop; bookmarks, reviews, and comments cascade. Only
// the owner may delete. The stored image is removed best effort.
func (s *ShopService) Delete(ctx context.Context, actorID, shopID string) error {
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return err
	}
	if shop.OwnerID != actorID {
		return apperrors.Forbidden("only the shop owner may delete it")
	}

	if err := s.shops.Delete(ctx, shopID); err != nil {
		return err
	}

	s.deleteImage(ctx, shop.ImageFileID, shopID)

	return nil
}

func (s *ShopService) deleteImage(ctx context.Context, fileID, shopID string) {
	if fileID == "" {
		return
	}
	if err := s.storage.Delete(ctx, fileID); err != nil {
		s.logger.WarnContext(ctx, "failed to delete shop image",
			slog.String("shop_id", shopID),
			slog.String("file_id", fileID),
			slog.String("error", err.Error()))
	}
}
