package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/repository"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/storage"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

func newAccountService(accounts *mockAccountRepository) (*AccountService, *storage.MemoryProvider) {
	store := storage.NewMemoryProvider()
	return NewAccountService(accounts, store, newTestLogger()), store
}

func TestUpdateProfile_ReplacesAvatar(t *testing.T) {
	accounts := new(mockAccountRepository)
	svc, store := newAccountService(accounts)
	ctx := context.Background()

	old, err := store.Upload(ctx, imageData(), "old-avatar")
	require.NoError(t, err)

	account := activeAccount("SecurePass123")
	account.AvatarFileID = old.FileID
	accounts.On("GetByID", ctx, "acc-1").Return(account, nil)
	accounts.On("Update", ctx, mock.AnythingOfType("*domain.Account")).Return(nil)

	updated, err := svc.UpdateProfile(ctx, "acc-1", UpdateProfileInput{
		DisplayName: "สมชาย",
		Avatar:      imageData(),
	})

	require.NoError(t, err)
	assert.Equal(t, "สมชาย", updated.DisplayName)
	assert.NotEqual(t, old.FileID, updated.AvatarFileID)
	assert.False(t, store.Has(old.FileID))
}

func TestUpdateProfile_NameOnlyKeepsAvatar(t *testing.T) {
	accounts := new(mockAccountRepository)
	svc, _ := newAccountService(accounts)
	ctx := context.Background()

	account := activeAccount("SecurePass123")
	account.AvatarURL = "https://cdn.example.com/a.jpg"
	account.AvatarFileID = "file-1"
	accounts.On("GetByID", ctx, "acc-1").Return(account, nil)
	accounts.On("Update", ctx, mock.AnythingOfType("*domain.Account")).Return(nil)

	updated, err := svc.UpdateProfile(ctx, "acc-1", UpdateProfileInput{DisplayName: "สมชาย"})

	require.NoError(t, err)
	assert.Equal(t, "file-1", updated.AvatarFileID)
}

func TestAccountList_InvalidRoleFilter(t *testing.T) {
	accounts := new(mockAccountRepository)
	svc, _ := newAccountService(accounts)

	_, _, err := svc.List(context.Background(), repository.AccountFilter{Role: "superuser"}, 1, 20)

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	accounts.AssertNotCalled(t, "List")
}

func TestChangeRole_InvalidRole(t *testing.T) {
	accounts := new(mockAccountRepository)
	svc, _ := newAccountService(accounts)

	err := svc.ChangeRole(context.Background(), "acc-1", "root")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestChangeStatus_Valid(t *testing.T) {
	accounts := new(mockAccountRepository)
	svc, _ := newAccountService(accounts)
	ctx := context.Background()

	accounts.On("UpdateStatus", ctx, "acc-1", domain.StatusPending).Return(nil)

	assert.NoError(t, svc.ChangeStatus(ctx, "acc-1", domain.StatusPending))
	accounts.AssertExpectations(t)
}

func TestAccountDelete_SelfDeleteConflicts(t *testing.T) {
	accounts := new(mockAccountRepository)
	svc, _ := newAccountService(accounts)

	err := svc.Delete(context.Background(), "admin-1", "admin-1")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	accounts.AssertNotCalled(t, "Delete")
}

func TestAccountDelete_OtherAccount(t *testing.T) {
	accounts := new(mockAccountRepository)
	svc, _ := newAccountService(accounts)
	ctx := context.Background()

	accounts.On("Delete", ctx, "acc-2").Return(nil)

	assert.NoError(t, svc.Delete(ctx, "admin-1", "acc-2"))
	accounts.AssertExpectations(t)
}
