package domain

import (
	"time"
)

// Role constants define the allowed account roles.
const (
	RoleUser  = "user"
	RoleStore = "store"
	RoleAdmin = "admin"
)

// Status constants define the allowed account statuses. Only active accounts
// may use authenticated routes.
const (
	StatusPending = "pending"
	StatusActive  = "active"
)

// ValidRoles returns the set of valid account roles.
func ValidRoles() []string {
	return []string{RoleUser, RoleStore, RoleAdmin}
}

// IsValidRole checks whether the given role string is a valid account role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// IsValidStatus checks whether the given status string is a valid account status.
func IsValidStatus(status string) bool {
	return status == StatusPending || status == StatusActive
}

// Account represents a registered account in the system.
type Account struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  *string   `json:"-"`
	DisplayName   string    `json:"display_name"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	AvatarFileID  string    `json:"-"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	OAuthProvider *string   `json:"oauth_provider,omitempty"`
	OAuthSubject  *string   `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsActive reports whether the account may use authenticated routes.
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// RefreshToken represents a stored refresh token for an account session.
type RefreshToken struct {
	ID        string     `json:"id"`
	AccountID string     `json:"account_id"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// TokenPair holds an access and refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
