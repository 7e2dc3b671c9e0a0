package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/event"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/repository"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/service"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/storage"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/middleware"
)

type adminFixture struct {
	accounts *mockAccountRepo
	reviews  *mockReviewRepo
	comments *mockCommentRepo
	safety   *mockSafetyRepo
	router   *chi.Mux
}

func newAdminFixture(t *testing.T, role string) *adminFixture {
	t.Helper()
	accounts := new(mockAccountRepo)
	reviews := new(mockReviewRepo)
	comments := new(mockCommentRepo)
	safety := new(mockSafetyRepo)
	shops := new(mockShopRepo)

	logger := handlerTestLogger()
	handler := NewAdminHandler(
		service.NewAccountService(accounts, storage.NewMemoryProvider(), logger),
		service.NewReviewService(reviews, shops, event.NoopPublisher{}),
		service.NewCommentService(comments, shops, event.NoopPublisher{}),
		service.NewSafetyService(safety),
		logger,
	)

	r := chi.NewRouter()
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(fakeAuth(testAccountID, role))
		r.Use(middleware.RequireRole("admin"))

		r.Get("/accounts", handler.ListAccounts)
		r.Put("/accounts/{id}/role", handler.ChangeAccountRole)
		r.Delete("/accounts/{id}", handler.DeleteAccount)
		r.Get("/reviews", handler.ListReviews)
		r.Put("/reviews/{id}/status", handler.ModerateReview)
		r.Put("/comments/{id}/status", handler.ModerateComment)
		r.Post("/safety-levels", handler.CreateSafetyLevel)
	})

	return &adminFixture{accounts: accounts, reviews: reviews, comments: comments, safety: safety, router: r}
}

func TestAdminRoutes_NonAdminForbidden(t *testing.T) {
	f := newAdminFixture(t, "store")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/accounts", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.accounts.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListAccounts_RoleFilter(t *testing.T) {
	f := newAdminFixture(t, "admin")

	filter := repository.AccountFilter{Role: "store"}
	f.accounts.On("List", mock.Anything, filter, 1, 20).
		Return([]domain.Account{{ID: "acc-2", Email: "store@example.com", Role: "store"}}, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/accounts?role=store", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	f.accounts.AssertExpectations(t)
}

func TestChangeAccountRole_Invalid(t *testing.T) {
	f := newAdminFixture(t, "admin")

	rec := postJSON(t, f.router, http.MethodPut, "/api/v1/admin/accounts/acc-2/role", map[string]any{
		"role": "superuser",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.accounts.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteAccount_Self(t *testing.T) {
	f := newAdminFixture(t, "admin")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/accounts/"+testAccountID, nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	f.accounts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListReviews_ReportedQueue(t *testing.T) {
	f := newAdminFixture(t, "admin")

	reported := []domain.Review{*sampleReview("author-1")}
	reported[0].Reported = true
	f.reviews.On("ListReported", mock.Anything, 1, 20).Return(reported, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reviews?reported=true", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	f.reviews.AssertExpectations(t)
}

func TestModerateReview_ClearsReportedFlag(t *testing.T) {
	f := newAdminFixture(t, "admin")

	f.reviews.On("SetStatus", mock.Anything, testReviewID, domain.ModerationRejected, true).Return(nil)

	rec := postJSON(t, f.router, http.MethodPut, "/api/v1/admin/reviews/"+testReviewID+"/status", map[string]any{
		"status": "rejected",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	f.reviews.AssertExpectations(t)
}

func TestModerateComment_InvalidStatus(t *testing.T) {
	f := newAdminFixture(t, "admin")

	rec := postJSON(t, f.router, http.MethodPut, "/api/v1/admin/comments/c-1/status", map[string]any{
		"status": "hidden",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.comments.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSafetyLevel_Success(t *testing.T) {
	f := newAdminFixture(t, "admin")

	f.safety.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.SafetyLevel) bool {
		return l.Label == "ดี" && l.Threshold == 25
	})).Return(nil)

	rec := postJSON(t, f.router, http.MethodPost, "/api/v1/admin/safety-levels", map[string]any{
		"label":     "ดี",
		"threshold": 25,
		"color":     "#22c55e",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	f.safety.AssertExpectations(t)
}
