package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/repository"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/httputil"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/middleware"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepo) GetByOAuth(ctx context.Context, provider, subject string) (*domain.Account, error) {
	args := m.Called(ctx, provider, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepo) Update(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockAccountRepo) UpdateRole(ctx context.Context, id, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *mockAccountRepo) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockAccountRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAccountRepo) List(ctx context.Context, filter repository.AccountFilter, page, perPage int) ([]domain.Account, int, error) {
	args := m.Called(ctx, filter, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Account), args.Int(1), args.Error(2)
}

type mockShopRepo struct {
	mock.Mock
}

func (m *mockShopRepo) Create(ctx context.Context, shop *domain.Shop) error {
	args := m.Called(ctx, shop)
	return args.Error(0)
}

func (m *mockShopRepo) GetByID(ctx context.Context, id string) (*domain.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shop), args.Error(1)
}

func (m *mockShopRepo) Update(ctx context.Context, shop *domain.Shop) error {
	args := m.Called(ctx, shop)
	return args.Error(0)
}

func (m *mockShopRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockShopRepo) List(ctx context.Context, query string, page, perPage int) ([]domain.Shop, int, error) {
	args := m.Called(ctx, query, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Shop), args.Int(1), args.Error(2)
}

func (m *mockShopRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Shop, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Shop), args.Error(1)
}

type mockBookmarkRepo struct {
	mock.Mock
}

func (m *mockBookmarkRepo) Add(ctx context.Context, bookmark *domain.Bookmark) error {
	args := m.Called(ctx, bookmark)
	return args.Error(0)
}

func (m *mockBookmarkRepo) Remove(ctx context.Context, accountID, shopID string) error {
	args := m.Called(ctx, accountID, shopID)
	return args.Error(0)
}

func (m *mockBookmarkRepo) Get(ctx context.Context, accountID, shopID string) (*domain.Bookmark, error) {
	args := m.Called(ctx, accountID, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bookmark), args.Error(1)
}

func (m *mockBookmarkRepo) ListByAccount(ctx context.Context, accountID string, page, perPage int) ([]domain.BookmarkedShop, int, error) {
	args := m.Called(ctx, accountID, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.BookmarkedShop), args.Int(1), args.Error(2)
}

func (m *mockBookmarkRepo) CountByShop(ctx context.Context, shopID string) (int, error) {
	args := m.Called(ctx, shopID)
	return args.Int(0), args.Error(1)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepo) Update(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReviewRepo) ListByShop(ctx context.Context, shopID string, page, perPage int) ([]domain.ReviewWithAuthor, int, error) {
	args := m.Called(ctx, shopID, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.ReviewWithAuthor), args.Int(1), args.Error(2)
}

func (m *mockReviewRepo) ListByStatus(ctx context.Context, status string, page, perPage int) ([]domain.Review, int, error) {
	args := m.Called(ctx, status, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepo) ListReported(ctx context.Context, page, perPage int) ([]domain.Review, int, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepo) SetStatus(ctx context.Context, id, status string, clearReported bool) error {
	args := m.Called(ctx, id, status, clearReported)
	return args.Error(0)
}

func (m *mockReviewRepo) Report(ctx context.Context, id, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockReviewRepo) SetReply(ctx context.Context, id, reply string, at time.Time) error {
	args := m.Called(ctx, id, reply, at)
	return args.Error(0)
}

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) Update(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCommentRepo) ListByShop(ctx context.Context, shopID, status string, page, perPage int) ([]domain.CommentWithAuthor, int, error) {
	args := m.Called(ctx, shopID, status, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.CommentWithAuthor), args.Int(1), args.Error(2)
}

func (m *mockCommentRepo) ListByStatus(ctx context.Context, status string, page, perPage int) ([]domain.Comment, int, error) {
	args := m.Called(ctx, status, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Comment), args.Int(1), args.Error(2)
}

func (m *mockCommentRepo) ListReported(ctx context.Context, page, perPage int) ([]domain.Comment, int, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Comment), args.Int(1), args.Error(2)
}

func (m *mockCommentRepo) SetStatus(ctx context.Context, id, status string, clearReported bool) error {
	args := m.Called(ctx, id, status, clearReported)
	return args.Error(0)
}

func (m *mockCommentRepo) Report(ctx context.Context, id, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

type mockSafetyRepo struct {
	mock.Mock
}

func (m *mockSafetyRepo) Create(ctx context.Context, level *domain.SafetyLevel) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

func (m *mockSafetyRepo) GetByID(ctx context.Context, id string) (*domain.SafetyLevel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SafetyLevel), args.Error(1)
}

func (m *mockSafetyRepo) Update(ctx context.Context, level *domain.SafetyLevel) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

func (m *mockSafetyRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSafetyRepo) List(ctx context.Context) ([]domain.SafetyLevel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SafetyLevel), args.Error(1)
}

// ============================================================================
// Test Helpers
// ============================================================================

func handlerTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

const (
	testAccountID = "550e8400-e29b-41d4-a716-446655440001"
	testShopID    = "550e8400-e29b-41d4-a716-446655440002"
	testReviewID  = "550e8400-e29b-41d4-a716-446655440003"
)

// fakeAuth returns an authentication middleware chain that always succeeds
// for the given identity, mirroring the production validator and loader.
func fakeAuth(accountID, role string) func(http.Handler) http.Handler {
	validate := func(token string) (*middleware.Claims, error) {
		return &middleware.Claims{AccountID: accountID, Email: "test@example.com", Role: role}, nil
	}
	load := func(ctx context.Context, id string) (*middleware.Account, error) {
		return &middleware.Account{ID: id, Email: "test@example.com", Role: role, Status: "active"}, nil
	}
	return middleware.Auth(validate, load)
}

func sampleShop() *domain.Shop {
	now := time.Now().UTC()
	return &domain.Shop{
		ID:        testShopID,
		OwnerID:   testAccountID,
		Name:      "Jay Fai Noodles",
		Address:   "327 Maha Chai Rd, Bangkok",
		Latitude:  13.7525,
		Longitude: 100.5014,
		Rating:    4.5,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}
