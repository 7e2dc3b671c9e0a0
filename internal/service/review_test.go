package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/event"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

func newReviewService(reviews *mockReviewRepository, shops *mockShopRepository) *ReviewService {
	return NewReviewService(reviews, shops, event.NoopPublisher{})
}

func approvedReview(authorID string) *domain.Review {
	now := time.Now().UTC()
	return &domain.Review{
		ID:        "rev-1",
		AccountID: authorID,
		ShopID:    "shop-1",
		Rating:    4,
		Content:   "อร่อยมาก",
		Status:    domain.ModerationApproved,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestReviewCreate_UserStartsPending(t *testing.T) {
	reviews := new(mockReviewRepository)
	shops := new(mockShopRepository)
	svc := newReviewService(reviews, shops)
	ctx := context.Background()

	shops.On("GetByID", ctx, "shop-1").Return(testShop("owner-1"), nil)
	reviews.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)

	review, err := svc.Create(ctx, "acc-1", domain.RoleUser, "shop-1", ReviewInput{Rating: 5, Content: "ดี"})

	require.NoError(t, err)
	assert.Equal(t, domain.ModerationPending, review.Status)

	reviews.AssertExpectations(t)
}

func TestReviewCreate_AdminStartsApproved(t *testing.T) {
	reviews := new(mockReviewRepository)
	shops := new(mockShopRepository)
	svc := newReviewService(reviews, shops)
	ctx := context.Background()

	shops.On("GetByID", ctx, "shop-1").Return(testShop("owner-1"), nil)
	reviews.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)

	review, err := svc.Create(ctx, "admin-1", domain.RoleAdmin, "shop-1", ReviewInput{Rating: 3})

	require.NoError(t, err)
	assert.Equal(t, domain.ModerationApproved, review.Status)
}

func TestReviewCreate_RatingOutOfRange(t *testing.T) {
	reviews := new(mockReviewRepository)
	shops := new(mockShopRepository)
	svc := newReviewService(reviews, shops)

	_, err := svc.Create(context.Background(), "acc-1", domain.RoleUser, "shop-1", ReviewInput{Rating: 6})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	shops.AssertNotCalled(t, "GetByID")
}

func TestReviewCreate_DuplicatePair(t *testing.T) {
	reviews := new(mockReviewRepository)
	shops := new(mockShopRepository)
	svc := newReviewService(reviews, shops)
	ctx := context.Background()

	shops.On("GetByID", ctx, "shop-1").Return(testShop("owner-1"), nil)
	reviews.On("Create", ctx, mock.AnythingOfType("*domain.Review")).
		Return(apperrors.AlreadyExists("review", "shop", "shop-1"))

	_, err := svc.Create(ctx, "acc-1", domain.RoleUser, "shop-1", ReviewInput{Rating: 5})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestReviewUpdate_StrangerForbidden(t *testing.T) {
	reviews := new(mockReviewRepository)
	shops := new(mockShopRepository)
	svc := newReviewService(reviews, shops)
	ctx := context.Background()

	reviews.On("GetByID", ctx, "rev-1").Return(approvedReview("acc-1"), nil)

	_, err := svc.Update(ctx, "acc-2", domain.RoleUser, "rev-1", ReviewInput{Rating: 1})

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	reviews.AssertNotCalled(t, "Update")
}

func TestReviewUpdate_AuthorEditReentersModeration(t *testing.T) {
	reviews := new(mockReviewRepository)
	shops := new(mockShopRepository)
	svc := newReviewService(reviews, shops)
	ctx := context.Background()

	reviews.On("GetByID", ctx, "rev-1").Return(approvedReview("acc-1"), nil)
	reviews.On("Update", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)

	review, err := svc.Update(ctx, "acc-1", domain.RoleUser, "rev-1", ReviewInput{Rating: 2, Content: "แย่ลง"})

	require.NoError(t, err)
	assert.Equal(t, domain.ModerationPending, review.Status)
	assert.Equal(t, 2, review.Rating)
}

func TestReviewUpdate_AdminEditApproved(t *testing.T) {
	reviews := new(mockReviewRepository)
	shops := new(mockShopRepository)
	svc := newReviewService(reviews, shops)
	ctx := context.Background()

	pending := approvedReview("acc-1")
	pending.Status = domain.ModerationPending
	reviews.On("GetByID", ctx, "rev-1").Return(pending, nil)
	reviews.On("Update", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)

	review, err := svc.Update(ctx, "admin-1", domain.RoleAdmin, "rev-1", ReviewInput{Rating: 4})

	require.NoError(t, err)
	assert.Equal(t, domain.ModerationApproved, review.Status)
}

func TestReviewDelete_AuthorAllowed(t *testing.T) {
	reviews := new(mockReviewRepository)
	shops := new(mockShopRepository)
	svc := newReviewService(reviews, shops)
	ctx := context.Background()

	reviews.On("GetByID", ctx, "rev-1").Return(approvedReview("acc-1"), nil)
	reviews.On("Delete", ctx, "rev-1").Return(nil)

	assert.NoError(t, svc.Delete(ctx, "acc-1", domain.RoleUser, "rev-1"))
	reviews.AssertExpectations(t)
}

func TestReviewReport_SelfForbidden(t *testing.T) {
	reviews := new(mockReviewRepository)
	shops := new(mockShopRepository)
	svc := newReviewService(reviews, shops)
	ctx := context.Background()

	reviews.On("GetByID", ctx, "rev-1").Return(approvedReview("acc-1"), nil)

	err := svc.Report(ctx, "acc-1", "rev-1", "spam")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	reviews.AssertNotCalled(t, "Report")
}

func TestReviewReport_DoubleReportConflicts(t *testing.T) {
	reviews := new(mockReviewRepository)
	shops := new(mockShopRepository)
	svc := newReviewService(reviews, shops)
	ctx := context.Background()

	reported := approvedReview("acc-1")
	reported.Reported = true
	reviews.On("GetByID", ctx, "rev-1").Return(reported, nil)

	err := svc.Report(ctx, "acc-2", "rev-1", "spam")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestReviewReport_Success(t *testing.T) {
	reviews := new(mockReviewRepository)
	shops := new(mockShopRepository)
	svc := newReviewService(reviews, shops)
	ctx := context.Background()

	reviews.On("GetByID", ctx, "rev-1").Return(approvedReview("acc-1"), nil)
	reviews.On("Report", ctx, "rev-1", "spam").Return(nil)

	assert.NoError(t, svc.Report(ctx, "acc-2", "rev-1", "spam"))
	reviews.AssertExpectations(t)
}

func TestReviewReply_NonOwnerForbidden(t *testing.T) {
	reviews := new(mockReviewRepository)
	shops := new(mockShopRepository)
	svc := newReviewService(reviews, shops)
	ctx := context.Background()

	reviews.On("GetByID", ctx, "rev-1").Return(approvedReview("acc-1"), nil)
	shops.On("GetByID", ctx, "shop-1").Return(testShop("owner-1"), nil)

	_, err := svc.Reply(ctx, "other-store", "rev-1", "ขอบคุณครับ")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestReviewReply_OwnerSucceeds(t *testing.T) {
	reviews := new(mockReviewRepository)
	shops := new(mockShopRepository)
	svc := newReviewService(reviews, shops)
	ctx := context.Background()

	reviews.On("GetByID", ctx, "rev-1").Return(approvedReview("acc-1"), nil)
	shops.On("GetByID", ctx, "shop-1").Return(testShop("owner-1"), nil)
	reviews.On("SetReply", ctx, "rev-1", "ขอบคุณครับ", mock.AnythingOfType("time.Time")).Return(nil)

	review, err := svc.Reply(ctx, "owner-1", "rev-1", "ขอบคุณครับ")

	require.NoError(t, err)
	require.NotNil(t, review.Reply)
	assert.Equal(t, "ขอบคุณครับ", *review.Reply)
	assert.NotNil(t, review.ReplyAt)
}

func TestReviewModerate_InvalidStatus(t *testing.T) {
	reviews := new(mockReviewRepository)
	shops := new(mockShopRepository)
	svc := newReviewService(reviews, shops)

	err := svc.Moderate(context.Background(), "admin-1", "rev-1", "hidden")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestReviewModerate_ClearsReportedFlag(t *testing.T) {
	reviews := new(mockReviewRepository)
	shops := new(mockShopRepository)
	svc := newReviewService(reviews, shops)
	ctx := context.Background()

	reviews.On("SetStatus", ctx, "rev-1", domain.ModerationRejected, true).Return(nil)

	assert.NoError(t, svc.Moderate(ctx, "admin-1", "rev-1", domain.ModerationRejected))
	reviews.AssertExpectations(t)
}
