package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/auth"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/identity"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/repository"
)

// --- Mock Account Repository ---

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepository) GetByOAuth(ctx context.Context, provider, subject string) (*domain.Account, error) {
	args := m.Called(ctx, provider, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockAccountRepository) UpdateRole(ctx context.Context, id, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *mockAccountRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockAccountRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAccountRepository) List(ctx context.Context, filter repository.AccountFilter, page, perPage int) ([]domain.Account, int, error) {
	args := m.Called(ctx, filter, page, perPage)
	return args.Get(0).([]domain.Account), args.Int(1), args.Error(2)
}

// --- Mock Refresh Token Repository ---

type mockRefreshTokenRepository struct {
	mock.Mock
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, accountID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *mockRefreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *mockRefreshTokenRepository) RevokeByAccountID(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// --- Mock Shop Repository ---

type mockShopRepository struct {
	mock.Mock
}

func (m *mockShopRepository) Create(ctx context.Context, shop *domain.Shop) error {
	args := m.Called(ctx, shop)
	return args.Error(0)
}

func (m *mockShopRepository) GetByID(ctx context.Context, id string) (*domain.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shop), args.Error(1)
}

func (m *mockShopRepository) Update(ctx context.Context, shop *domain.Shop) error {
	args := m.Called(ctx, shop)
	return args.Error(0)
}

func (m *mockShopRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockShopRepository) List(ctx context.Context, query string, page, perPage int) ([]domain.Shop, int, error) {
	args := m.Called(ctx, query, page, perPage)
	return args.Get(0).([]domain.Shop), args.Int(1), args.Error(2)
}

func (m *mockShopRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Shop, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Shop), args.Error(1)
}

// --- Mock Bookmark Repository ---

type mockBookmarkRepository struct {
	mock.Mock
}

func (m *mockBookmarkRepository) Add(ctx context.Context, bookmark *domain.Bookmark) error {
	args := m.Called(ctx, bookmark)
	return args.Error(0)
}

func (m *mockBookmarkRepository) Remove(ctx context.Context, accountID, shopID string) error {
	args := m.Called(ctx, accountID, shopID)
	return args.Error(0)
}

func (m *mockBookmarkRepository) Get(ctx context.Context, accountID, shopID string) (*domain.Bookmark, error) {
	args := m.Called(ctx, accountID, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bookmark), args.Error(1)
}

func (m *mockBookmarkRepository) ListByAccount(ctx context.Context, accountID string, page, perPage int) ([]domain.BookmarkedShop, int, error) {
	args := m.Called(ctx, accountID, page, perPage)
	return args.Get(0).([]domain.BookmarkedShop), args.Int(1), args.Error(2)
}

func (m *mockBookmarkRepository) CountByShop(ctx context.Context, shopID string) (int, error) {
	args := m.Called(ctx, shopID)
	return args.Int(0), args.Error(1)
}

// --- Mock Review Repository ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReviewRepository) ListByShop(ctx context.Context, shopID string, page, perPage int) ([]domain.ReviewWithAuthor, int, error) {
	args := m.Called(ctx, shopID, page, perPage)
	return args.Get(0).([]domain.ReviewWithAuthor), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) ListByStatus(ctx context.Context, status string, page, perPage int) ([]domain.Review, int, error) {
	args := m.Called(ctx, status, page, perPage)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) ListReported(ctx context.Context, page, perPage int) ([]domain.Review, int, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) SetStatus(ctx context.Context, id, status string, clearReported bool) error {
	args := m.Called(ctx, id, status, clearReported)
	return args.Error(0)
}

func (m *mockReviewRepository) Report(ctx context.Context, id, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockReviewRepository) SetReply(ctx context.Context, id, reply string, at time.Time) error {
	args := m.Called(ctx, id, reply, at)
	return args.Error(0)
}

// --- Mock Comment Repository ---

type mockCommentRepository struct {
	mock.Mock
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCommentRepository) ListByShop(ctx context.Context, shopID, status string, page, perPage int) ([]domain.CommentWithAuthor, int, error) {
	args := m.Called(ctx, shopID, status, page, perPage)
	return args.Get(0).([]domain.CommentWithAuthor), args.Int(1), args.Error(2)
}

func (m *mockCommentRepository) ListByStatus(ctx context.Context, status string, page, perPage int) ([]domain.Comment, int, error) {
	args := m.Called(ctx, status, page, perPage)
	return args.Get(0).([]domain.Comment), args.Int(1), args.Error(2)
}

func (m *mockCommentRepository) ListReported(ctx context.Context, page, perPage int) ([]domain.Comment, int, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).([]domain.Comment), args.Int(1), args.Error(2)
}

func (m *mockCommentRepository) SetStatus(ctx context.Context, id, status string, clearReported bool) error {
	args := m.Called(ctx, id, status, clearReported)
	return args.Error(0)
}

func (m *mockCommentRepository) Report(ctx context.Context, id, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

// --- Mock Safety Level Repository ---

type mockSafetyLevelRepository struct {
	mock.Mock
}

func (m *mockSafetyLevelRepository) Create(ctx context.Context, level *domain.SafetyLevel) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

func (m *mockSafetyLevelRepository) GetByID(ctx context.Context, id string) (*domain.SafetyLevel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SafetyLevel), args.Error(1)
}

func (m *mockSafetyLevelRepository) Update(ctx context.Context, level *domain.SafetyLevel) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

func (m *mockSafetyLevelRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSafetyLevelRepository) List(ctx context.Context) ([]domain.SafetyLevel, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SafetyLevel), args.Error(1)
}

// --- Mock Identity Provider ---

type mockIdentityProvider struct {
	mock.Mock
}

func (m *mockIdentityProvider) Name() string {
	return "google"
}

func (m *mockIdentityProvider) Exchange(ctx context.Context, code string) (*identity.Profile, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret-key-for-testing", 15*time.Minute, 7*24*time.Hour)
}

func strPtr(s string) *string {
	return &s
}

// hashForTest creates a bcrypt hash with cost 4 for fast tests.
func hashForTest(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 4)
	if err != nil {
		panic(err)
	}
	return string(h)
}
