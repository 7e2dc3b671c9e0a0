package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/storage"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

func newShopService(shops *mockShopRepository) (*ShopService, *storage.MemoryProvider) {
	store := storage.NewMemoryProvider()
	return NewShopService(shops, store, newTestLogger()), store
}

func imageData() string {
	return base64.StdEncoding.EncodeToString([]byte("image bytes"))
}

func TestShopCreate_WithImage(t *testing.T) {
	shops := new(mockShopRepository)
	svc, _ := newShopService(shops)
	ctx := context.Background()

	shops.On("Create", ctx, mock.AnythingOfType("*domain.Shop")).Return(nil)

	shop, err := svc.Create(ctx, "owner-1", ShopInput{
		Name:      "ร้านกาแฟ",
		Latitude:  18.79,
		Longitude: 98.98,
		Image:     imageData(),
	})

	require.NoError(t, err)
	assert.Equal(t, "owner-1", shop.OwnerID)
	assert.Zero(t, shop.Rating)
	assert.NotEmpty(t, shop.ImageURL)
	assert.NotEmpty(t, shop.ImageFileID)

	shops.AssertExpectations(t)
}

func TestShopUpdate_NonOwnerForbidden(t *testing.T) {
	shops := new(mockShopRepository)
	svc, _ := newShopService(shops)
	ctx := context.Background()

	shops.On("GetByID", ctx, "shop-1").Return(testShop("owner-1"), nil)

	_, err := svc.Update(ctx, "someone-else", "shop-1", ShopInput{Name: "X"})

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	shops.AssertNotCalled(t, "Update")
}

func TestShopUpdate_ReplacesImage(t *testing.T) {
	shops := new(mockShopRepository)
	svc, store := newShopService(shops)
	ctx := context.Background()

	old, err := store.Upload(ctx, imageData(), "old")
	require.NoError(t, err)

	shop := testShop("owner-1")
	shop.ImageURL = old.URL
	shop.ImageFileID = old.FileID
	shops.On("GetByID", ctx, "shop-1").Return(shop, nil)
	shops.On("Update", ctx, mock.AnythingOfType("*domain.Shop")).Return(nil)

	updated, err := svc.Update(ctx, "owner-1", "shop-1", ShopInput{
		Name:  "ร้านใหม่",
		Image: imageData(),
	})

	require.NoError(t, err)
	assert.NotEqual(t, old.FileID, updated.ImageFileID)
	assert.False(t, store.Has(old.FileID))
}

func TestShopUpdate_NeverTouchesRating(t *testing.T) {
	shops := new(mockShopRepository)
	svc, _ := newShopService(shops)
	ctx := context.Background()

	shop := testShop("owner-1")
	shop.Rating = 4.2
	shops.On("GetByID", ctx, "shop-1").Return(shop, nil)
	shops.On("Update", ctx, mock.AnythingOfType("*domain.Shop")).Return(nil)

	updated, err := svc.Update(ctx, "owner-1", "shop-1", ShopInput{Name: "ร้านใหม่"})

	require.NoError(t, err)
	assert.Equal(t, 4.2, updated.Rating)
}

func TestShopDelete_NonOwnerForbidden(t *testing.T) {
	shops := new(mockShopRepository)
	svc, _ := newShopService(shops)
	ctx := context.Background()

	shops.On("GetByID", ctx, "shop-1").Return(testShop("owner-1"), nil)

	err := svc.Delete(ctx, "someone-else", "shop-1")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	shops.AssertNotCalled(t, "Delete")
}

func TestShopDelete_RemovesImage(t *testing.T) {
	shops := new(mockShopRepository)
	svc, store := newShopService(shops)
	ctx := context.Background()

	res, err := store.Upload(ctx, imageData(), "shop")
	require.NoError(t, err)

	shop := testShop("owner-1")
	shop.ImageFileID = res.FileID
	shops.On("GetByID", ctx, "shop-1").Return(shop, nil)
	shops.On("Delete", ctx, "shop-1").Return(nil)

	require.NoError(t, svc.Delete(ctx, "owner-1", "shop-1"))
	assert.False(t, store.Has(res.FileID))
}
