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

// CommentHandler handles the comment endpoints.
type CommentHandler struct {
	service *service.CommentService
	logger  *slog.Logger
}

// NewCommentHandler creates a new comment HTTP handler.
func NewCommentHandler(svc *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{service: svc, logger: logger}
}

// CommentRequest is the request body for creating or editing a comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// Create handles POST /api/v1/shops/{id}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())
	role := middleware.RoleFromContext(r.Context())

	var req CommentRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	comment, err := h.service.Create(r.Context(), accountID, role, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, comment)
}

// ListByShop handles GET /api/v1/shops/{id}/comments
func (h *CommentHandler) ListByShop(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	status := r.URL.Query().Get("status")

	comments, total, err := h.service.ListByShop(r.Context(), chi.URLParam(r, "id"), status, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, pagination.NewResult(comments, total, params))
}

// Update handles PUT /api/v1/comments/{id}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())
	role := middleware.RoleFromContext(r.Context())

	var req CommentRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	comment, err := h.service.Update(r.Context(), accountID, role, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, comment)
}

// Delete handles DELETE /api/v1/comments/{id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())
	role := middleware.RoleFromContext(r.Context())

	if err := h.service.Delete(r.Context(), accountID, role, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}

// Report handles POST /api/v1/comments/{id}/report
func (h *CommentHandler) Report(w http.ResponseWriter, r *http.Request) {
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

	writeData(w, http.StatusOK, map[string]string{"message": "comment reported"})
}
