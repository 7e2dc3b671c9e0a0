package http

import (
	"log/slog"
	"net/http"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/service"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/httputil"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/middleware"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/validator"
)

// AuthHandler handles registration, login, and token lifecycle endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// LoginRequest is the JSON request body for credential login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the JSON request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// OAuthExchangeRequest is the JSON request body for federated login.
type OAuthExchangeRequest struct {
	Code string `json:"code" validate:"required"`
}

// ChangePasswordRequest is the JSON request body for password changes.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type loginResponse struct {
	Account any    `json:"account"`
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	account, err := h.service.Register(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, account)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	account, pair, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, loginResponse{
		Account: account,
		Access:  pair.AccessToken,
		Refresh: pair.RefreshToken,
	})
}

// OAuthExchange handles POST /api/v1/auth/oauth/exchange
func (h *AuthHandler) OAuthExchange(w http.ResponseWriter, r *http.Request) {
	var req OAuthExchangeRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	account, pair, err := h.service.OAuthLogin(r.Context(), req.Code)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, loginResponse{
		Account: account,
		Access:  pair.AccessToken,
		Refresh: pair.RefreshToken,
	})
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, pair)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())

	if err := h.service.Logout(r.Context(), accountID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ChangePassword handles POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())

	var req ChangePasswordRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), accountID, req.CurrentPassword, req.NewPassword); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "password changed"})
}
