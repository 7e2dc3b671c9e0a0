package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKeyType string

const (
	accountIDKey contextKeyType = "account_id"
	emailKey     contextKeyType = "email"
	roleKey      contextKeyType = "role"
)

// StatusActive is the account status required to pass the authenticated gate.
const StatusActive = "active"

// Claims represents the token claims extracted by the auth middleware.
type Claims struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Account is a fresh snapshot of the account record loaded at request time.
// Gates decide on this snapshot, never on the (possibly stale) token claims,
// so role and status changes take effect immediately.
type Account struct {
	ID     string
	Email  string
	Role   string
	Status string
}

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator func(token string) (*Claims, error)

// AccountLoader loads the current account record for the given ID.
type AccountLoader func(ctx context.Context, id string) (*Account, error)

// Auth validates the bearer token, re-loads the account record, and rejects
// requests whose account is missing or not active. On success the account ID,
// email, and the freshly loaded role are stored in the request context.
func Auth(validate TokenValidator, load AccountLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
				return
			}

			claims, err := validate(parts[1])
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				return
			}

			account, err := load(r.Context(), claims.AccountID)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "account no longer exists")
				return
			}

			if account.Status != StatusActive {
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "account is not active")
				return
			}

			ctx := context.WithValue(r.Context(), accountIDKey, account.ID)
			ctx = context.WithValue(ctx, emailKey, account.Email)
			ctx = context.WithValue(ctx, roleKey, account.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole checks that the authenticated account's freshly loaded role is
// one of the given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if _, ok := roleSet[role]; !ok {
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AccountIDFromContext extracts the account ID from the request context.
func AccountIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(accountIDKey).(string); ok {
		return id
	}
	return ""
}

// EmailFromContext extracts the account email from the request context.
func EmailFromContext(ctx context.Context) string {
	if email, ok := ctx.Value(emailKey).(string); ok {
		return email
	}
	return ""
}

// RoleFromContext extracts the account role from the request context.
func RoleFromContext(ctx context.Context) string {
	if role, ok := ctx.Value(roleKey).(string); ok {
		return role
	}
	return ""
}

// WithAccount returns a context carrying the given identity values. Intended
// for handler tests that bypass the Auth middleware.
func WithAccount(ctx context.Context, id, email, role string) context.Context {
	ctx = context.WithValue(ctx, accountIDKey, id)
	ctx = context.WithValue(ctx, emailKey, email)
	return context.WithValue(ctx, roleKey, role)
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
