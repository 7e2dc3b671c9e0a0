package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/repository"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/service"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/httputil"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/middleware"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/pagination"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/validator"
)

// AdminHandler handles the administrative endpoints.
type AdminHandler struct {
	accounts *service.AccountService
	reviews  *service.ReviewService
	comments *service.CommentService
	safety   *service.SafetyService
	logger   *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(accounts *service.AccountService, reviews *service.ReviewService, comments *service.CommentService, safety *service.SafetyService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		accounts: accounts,
		reviews:  reviews,
		comments: comments,
		safety:   safety,
		logger:   logger,
	}
}

// ChangeRoleRequest is the request body for changing an account's role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// ChangeStatusRequest is the request body for changing an account's status.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ModerateRequest is the request body for moderating a review or comment.
type ModerateRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListAccounts handles GET /api/v1/admin/accounts
func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	filter := repository.AccountFilter{
		Role:   r.URL.Query().Get("role"),
		Status: r.URL.Query().Get("status"),
	}

	accounts, total, err := h.accounts.List(r.Context(), filter, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, pagination.NewResult(accounts, total, params))
}

// ChangeAccountRole handles PUT /api/v1/admin/accounts/{id}/role
func (h *AdminHandler) ChangeAccountRole(w http.ResponseWriter, r *http.Request) {
	var req ChangeRoleRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.accounts.ChangeRole(r.Context(), chi.URLParam(r, "id"), req.Role); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "role updated"})
}

// ChangeAccountStatus handles PUT /api/v1/admin/accounts/{id}/status
func (h *AdminHandler) ChangeAccountStatus(w http.ResponseWriter, r *http.Request) {
	var req ChangeStatusRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.accounts.ChangeStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "status updated"})
}

// DeleteAccount handles DELETE /api/v1/admin/accounts/{id}
func (h *AdminHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.AccountIDFromContext(r.Context())

	if err := h.accounts.Delete(r.Context(), actorID, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

// ListReviews handles GET /api/v1/admin/reviews?status= and ?reported=true
func (h *AdminHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	if r.URL.Query().Get("reported") == "true" {
		reviews, total, err := h.reviews.ListReported(r.Context(), params.Page, params.PerPage)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		writeData(w, http.StatusOK, pagination.NewResult(reviews, total, params))
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = domain.ModerationPending
	}
	reviews, total, err := h.reviews.ListByStatus(r.Context(), status, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, pagination.NewResult(reviews, total, params))
}

// ModerateReview handles PUT /api/v1/admin/reviews/{id}/status
func (h *AdminHandler) ModerateReview(w http.ResponseWriter, r *http.Request) {
	moderatorID := middleware.AccountIDFromContext(r.Context())

	var req ModerateRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.reviews.Moderate(r.Context(), moderatorID, chi.URLParam(r, "id"), req.Status); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "review moderated"})
}

// ListComments handles GET /api/v1/admin/comments?status= and ?reported=true
func (h *AdminHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	if r.URL.Query().Get("reported") == "true" {
		comments, total, err := h.comments.ListReported(r.Context(), params.Page, params.PerPage)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		writeData(w, http.StatusOK, pagination.NewResult(comments, total, params))
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = domain.ModerationPending
	}
	comments, total, err := h.comments.ListByStatus(r.Context(), status, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, pagination.NewResult(comments, total, params))
}

// ModerateComment handles PUT /api/v1/admin/comments/{id}/status
func (h *AdminHandler) ModerateComment(w http.ResponseWriter, r *http.Request) {
	moderatorID := middleware.AccountIDFromContext(r.Context())

	var req ModerateRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.comments.Moderate(r.Context(), moderatorID, chi.URLParam(r, "id"), req.Status); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "comment moderated"})
}

// CreateSafetyLevel handles POST /api/v1/admin/safety-levels
func (h *AdminHandler) CreateSafetyLevel(w http.ResponseWriter, r *http.Request) {
	var req service.SafetyLevelInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	level, err := h.safety.Create(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, level)
}

// UpdateSafetyLevel handles PUT /api/v1/admin/safety-levels/{id}
func (h *AdminHandler) UpdateSafetyLevel(w http.ResponseWriter, r *http.Request) {
	var req service.SafetyLevelInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	level, err := h.safety.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, level)
}

// DeleteSafetyLevel handles DELETE /api/v1/admin/safety-levels/{id}
func (h *AdminHandler) DeleteSafetyLevel(w http.ResponseWriter, r *http.Request) {
	if err := h.safety.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "safety level deleted"})
}
