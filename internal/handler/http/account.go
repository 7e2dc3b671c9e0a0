package http

import (
	"log/slog"
	"net/http"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/service"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/httputil"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/middleware"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/validator"
)

// AccountHandler handles the authenticated profile endpoints.
type AccountHandler struct {
	service *service.AccountService
	logger  *slog.Logger
}

// NewAccountHandler creates a new account HTTP handler.
func NewAccountHandler(svc *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{service: svc, logger: logger}
}

// GetMe handles GET /api/v1/users/me
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())

	account, err := h.service.Get(r.Context(), accountID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, account)
}

// UpdateMe handles PUT /api/v1/users/me
func (h *AccountHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())

	var req service.UpdateProfileInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	account, err := h.service.UpdateProfile(r.Context(), accountID, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, account)
}
