package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/auth"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/event"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/identity"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/repository"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

// AuthService handles registration, credential and federated login, token
// rotation, and password changes.
type AuthService struct {
	accounts repository.AccountRepository
	tokens   repository.RefreshTokenRepository
	jwt      *auth.JWTManager
	provider identity.Provider
	events   event.Publisher
	logger   *slog.Logger
}

// NewAuthService creates an auth service. The identity provider may be nil
// when federated login is disabled.
func NewAuthService(
	accounts repository.AccountRepository,
	tokens repository.RefreshTokenRepository,
	jwtManager *auth.JWTManager,
	provider identity.Provider,
	events event.Publisher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
		jwt:      jwtManager,
		provider: provider,
		events:   events,
		logger:   logger,
	}
}

// RegisterInput holds the fields for credential registration.
type RegisterInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// Register creates a new active user account. A duplicate email fails on the
// database constraint, never on a prior lookup.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	hashStr := string(hash)
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: &hashStr,
		DisplayName:  in.DisplayName,
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.events.AccountRegistered(ctx, account.ID, account.Email, account.Role)

	return account, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, *domain.TokenPair, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, nil, err
	}

	if account.PasswordHash == nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}
	if !account.IsActive() {
		return nil, nil, apperrors.Forbidden("account is not active")
	}

	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, nil, err
	}

	return account, pair, nil
}

// OAuthLogin exchanges an authorization code with the injected identity
// provider and signs the holder in, creating a passwordless user account on
// first login or linking the provider to an existing account with the same
// email.
func (s *AuthService) OAuthLogin(ctx context.Context, code string) (*domain.Account, *domain.TokenPair, error) {
	if s.provider == nil {
		return nil, nil, apperrors.InvalidInput("federated login is not configured")
	}

	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	account, err := s.findOrCreateOAuthAccount(ctx, profile)
	if err != nil {
		return nil, nil, err
	}
	if !account.IsActive() {
		return nil, nil, apperrors.Forbidden("account is not active")
	}

	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, nil, err
	}

	return account, pair, nil
}

func (s *AuthService) findOrCreateOAuthAccount(ctx context.Context, profile *identity.Profile) (*domain.Account, error) {
	providerName := s.provider.Name()

	account, err := s.accounts.GetByOAuth(ctx, providerName, profile.Subject)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	account, err = s.accounts.GetByEmail(ctx, profile.Email)
	if err == nil {
		account.OAuthProvider = &providerName
		account.OAuthSubject = &profile.Subject
		if err := s.accounts.Update(ctx, account); err != nil {
			return nil, err
		}
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	account = &domain.Account{
		ID:            uuid.NewString(),
		Email:         profile.Email,
		DisplayName:   profile.Name,
		AvatarURL:     profile.Picture,
		Role:          domain.RoleUser,
		Status:        domain.StatusActive,
		OAuthProvider: &providerName,
		OAuthSubject:  &profile.Subject,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.events.AccountRegistered(ctx, account.ID, account.Email, account.Role)

	return account, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. Revoked, expired, or unknown tokens fail authentication.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	hash := hashToken(refreshToken)
	stored, err := s.tokens.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid refresh token")
		}
		return nil, err
	}
	if stored.RevokedAt != nil || time.Now().After(stored.ExpiresAt) {
		return nil, apperrors.Unauthorized("refresh token is no longer valid")
	}

	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("account no longer exists")
		}
		return nil, err
	}
	if !account.IsActive() {
		return nil, apperrors.Forbidden("account is not active")
	}

	if err := s.tokens.Revoke(ctx, hash); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, account)
}

// Logout revokes every refresh token for the account.
func (s *AuthService) Logout(ctx context.Context, accountID string) error {
	return s.tokens.RevokeByAccountID(ctx, accountID)
}

// ChangePassword verifies the current password, stores the new hash, and
// revokes outstanding refresh tokens so other sessions re-authenticate.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, current, next string) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if account.PasswordHash == nil {
		return apperrors.Conflict("account has no password; it uses federated login")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(current)); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	hashStr := string(hash)
	account.PasswordHash = &hashStr
	if err := s.accounts.Update(ctx, account); err != nil {
		return err
	}

	if err := s.tokens.RevokeByAccountID(ctx, accountID); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke refresh tokens after password change",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()))
	}

	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, account *domain.Account) (*domain.TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refresh, err := s.jwt.GenerateRefreshToken(account.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.jwt.RefreshExpiry())
	if err := s.tokens.Create(ctx, account.ID, hashToken(refresh), expiresAt); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// hashToken stores refresh tokens by digest so a database leak does not leak
// usable tokens.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
