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

// BookmarkHandler handles the bookmark endpoints.
type BookmarkHandler struct {
	service *service.BookmarkService
	logger  *slog.Logger
}

// NewBookmarkHandler creates a new bookmark HTTP handler.
func NewBookmarkHandler(svc *service.BookmarkService, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{service: svc, logger: logger}
}

// AddRequest is the request body for bookmarking a shop.
type AddRequest struct {
	Category string `json:"category"`
}

// Add handles POST /api/v1/shops/{id}/bookmark
func (h *BookmarkHandler) Add(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())

	var req AddRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	bookmark, err := h.service.Add(r.Context(), accountID, chi.URLParam(r, "id"), req.Category)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, bookmark)
}

// Remove handles DELETE /api/v1/shops/{id}/bookmark
func (h *BookmarkHandler) Remove(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())

	if err := h.service.Remove(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "bookmark removed"})
}

// Status handles GET /api/v1/shops/{id}/bookmark
func (h *BookmarkHandler) Status(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())

	bookmarked, category, err := h.service.Status(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"bookmarked": bookmarked,
		"category":   category,
	})
}

// List handles GET /api/v1/users/me/bookmarks
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())
	params := pagination.FromRequest(r)

	bookmarks, total, err := h.service.List(r.Context(), accountID, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, pagination.NewResult(bookmarks, total, params))
}

// Count handles GET /api/v1/shops/{id}/bookmarks/count
func (h *BookmarkHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]int{"count": count})
}
