package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/service"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/httputil"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/middleware"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/pagination"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/validator"
)

// ReviewHandler handles the review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{service: svc, logger: logger}
}

// ReportRequest is the request body for reporting a review or comment.
type ReportRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ReplyRequest is the request body for a shop owner's reply.
type ReplyRequest struct {
	Reply string `json:"reply" validate:"required,max=2000"`
}

// Create handles POST /api/v1/shops/{id}/reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())
	role := middleware.RoleFromContext(r.Context())

	var req service.ReviewInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.Create(r.Context(), accountID, role, chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, review)
}

// ListByShop handles GET /api/v1/shops/{id}/reviews
func (h *ReviewHandler) ListByShop(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	reviews, total, err := h.service.ListByShop(r.Context(), chi.URLParam(r, "id"), params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, pagination.NewResult(reviews, total, params))
}

// Update handles PUT /api/v1/reviews/{id}
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())
	role := middleware.RoleFromContext(r.Context())

	var req service.ReviewInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.Update(r.Context(), accountID, role, chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, review)
}

// Delete handles DELETE /api/v1/reviews/{id}
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())
	role := middleware.RoleFromContext(r.Context())

	if err := h.service.Delete(r.Context(), accountID, role, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "review deleted"})
}

// Report handles POST /api/v1/reviews/{id}/report
func (h *ReviewHandler) Report(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())

	var req ReportRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.Report(r.Context(), accountID, chi.URLParam(r, "id"), req.Reason); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "review reported"})
}

// Reply handles POST /api/v1/reviews/{id}/reply
func (h *ReviewHandler) Reply(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())

	var req ReplyRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.Reply(r.Context(), accountID, chi.URLParam(r, "id"), req.Reply)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, review)
}
