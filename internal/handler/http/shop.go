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

// ShopHandler handles the shop catalog endpoints.
type ShopHandler struct {
	service *service.ShopService
	logger  *slog.Logger
}

// NewShopHandler creates a new shop HTTP handler.
func NewShopHandler(svc *service.ShopService, logger *slog.Logger) *ShopHandler {
	return &ShopHandler{service: svc, logger: logger}
}

// List handles GET /api/v1/shops
func (h *ShopHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	query := r.URL.Query().Get("q")

	shops, total, err := h.service.List(r.Context(), query, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, pagination.NewResult(shops, total, params))
}

// Get handles GET /api/v1/shops/{id}
func (h *ShopHandler) Get(w http.ResponseWriter, r *http.Request) {
	shop, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, shop)
}

// ListMine handles GET /api/v1/shops/mine
func (h *ShopHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.AccountIDFromContext(r.Context())

	shops, err := h.service.ListByOwner(r.Context(), ownerID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, shops)
}

// Create handles POST /api/v1/shops
func (h *ShopHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.AccountIDFromContext(r.Context())

	var req service.ShopInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	shop, err := h.service.Create(r.Context(), ownerID, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, shop)
}

// Update handles PUT /api/v1/shops/{id}
func (h *ShopHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.AccountIDFromContext(r.Context())

	var req service.ShopInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	shop, err := h.service.Update(r.Context(), actorID, chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, shop)
}

// Delete handles DELETE /api/v1/shops/{id}
func (h *ShopHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.AccountIDFromContext(r.Context())

	if err := h.service.Delete(r.Context(), actorID, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "shop deleted"})
}
