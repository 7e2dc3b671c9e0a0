package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/domain"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/repository"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/database"
	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

const accountColumns = `id, email, password_hash, display_name, avatar_url, avatar_file_id,
	role, status, oauth_provider, oauth_subject, created_at, updated_at`

// AccountRepository implements repository.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool database.DBTX
}

// NewAccountRepository creates a new PostgreSQL-backed account repository.
func NewAccountRepository(pool database.DBTX) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, display_name, avatar_url, avatar_file_id, role, status, oauth_provider, oauth_subject, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.Email,
		a.PasswordHash,
		a.DisplayName,
		a.AvatarURL,
		a.AvatarFileID,
		a.Role,
		a.Status,
		a.OAuthProvider,
		a.OAuthSubject,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("account", "email", a.Email)
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(ctx, query, id)
}

// GetByEmail retrieves an account by its email address.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanAccount(ctx, query, email)
}

// GetByOAuth retrieves an account by its federated identity pair.
func (r *AccountRepository) GetByOAuth(ctx context.Context, provider, subject string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE oauth_provider = $1 AND oauth_subject = $2`
	return r.scanAccount(ctx, query, provider, subject)
}

// Update modifies an existing account.
func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	a.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE accounts
		SET email = $1, password_hash = $2, display_name = $3, avatar_url = $4, avatar_file_id = $5,
		    role = $6, status = $7, oauth_provider = $8, oauth_subject = $9, updated_at = $10
		WHERE id = $11`

	ct, err := r.pool.Exec(ctx, query,
		a.Email,
		a.PasswordHash,
		a.DisplayName,
		a.AvatarURL,
		a.AvatarFileID,
		a.Role,
		a.Status,
		a.OAuthProvider,
		a.OAuthSubject,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("account", "email", a.Email)
		}
		return fmt.Errorf("update account: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("account", a.ID)
	}

	return nil
}

// UpdateRole changes only the account's role.
func (r *AccountRepository) UpdateRole(ctx context.Context, id, role string) error {
	return r.updateField(ctx, id, "role", role)
}

// UpdateStatus changes only the account's status.
func (r *AccountRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.updateField(ctx, id, "status", status)
}

func (r *AccountRepository) updateField(ctx context.Context, id, column, value string) error {
	query := fmt.Sprintf(`UPDATE accounts SET %s = $1, updated_at = $2 WHERE id = $3`, column)

	ct, err := r.pool.Exec(ctx, query, value, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update account %s: %w", column, err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("account", id)
	}

	return nil
}

// Delete removes an account. Bookmarks, reviews, and comments cascade.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("account", id)
	}

	return nil
}

// List returns a filtered, paginated account listing and the total count.
func (r *AccountRepository) List(ctx context.Context, filter repository.AccountFilter, page, perPage int) ([]domain.Account, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	query := `
		SELECT ` + accountColumns + `, count(*) OVER() AS total_count
		FROM accounts
		WHERE ($1 = '' OR role = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, filter.Role, filter.Status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var (
		accounts   []domain.Account
		totalCount int
	)

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.ID,
			&a.Email,
			&a.PasswordHash,
			&a.DisplayName,
			&a.AvatarURL,
			&a.AvatarFileID,
			&a.Role,
			&a.Status,
			&a.OAuthProvider,
			&a.OAuthSubject,
			&a.CreatedAt,
			&a.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate account rows: %w", err)
	}

	if accounts == nil {
		accounts = []domain.Account{}
	}

	return accounts, totalCount, nil
}

// scanAccount executes a query expected to return a single account row.
func (r *AccountRepository) scanAccount(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	var a domain.Account

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.DisplayName,
		&a.AvatarURL,
		&a.AvatarFileID,
		&a.Role,
		&a.Status,
		&a.OAuthProvider,
		&a.OAuthSubject,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	return &a, nil
}

// --- Refresh Token Repository ---

// RefreshTokenRepository implements repository.RefreshTokenRepository using PostgreSQL.
type RefreshTokenRepository struct {
	pool database.DBTX
}

// NewRefreshTokenRepository creates a new PostgreSQL-backed refresh token repository.
func NewRefreshTokenRepository(pool database.DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{pool: pool}
}

// Create stores a new refresh token hash.
func (r *RefreshTokenRepository) Create(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (account_id, token_hash, expires_at)
		VALUES ($1, $2, $3)`

	if _, err := r.pool.Exec(ctx, query, accountID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}

	return nil
}

// GetByHash retrieves a refresh token record by its hash.
func (r *RefreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, account_id, token_hash, expires_at, created_at, revoked_at
		FROM refresh_tokens
		WHERE token_hash = $1`

	var t domain.RefreshToken
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(
		&t.ID,
		&t.AccountID,
		&t.TokenHash,
		&t.ExpiresAt,
		&t.CreatedAt,
		&t.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan refresh token: %w", err)
	}

	return &t, nil
}

// Revoke revokes a specific refresh token by its hash.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, tokenHash string) error {
	query := `UPDATE refresh_tokens SET revoked_at = NOW() WHERE token_hash = $1 AND revoked_at IS NULL`

	if _, err := r.pool.Exec(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	return nil
}

// RevokeByAccountID revokes all refresh tokens for the given account.
func (r *RefreshTokenRepository) RevokeByAccountID(ctx context.Context, accountID string) error {
	query := `UPDATE refresh_tokens SET revoked_at = NOW() WHERE account_id = $1 AND revoked_at IS NULL`

	if _, err := r.pool.Exec(ctx, query, accountID); err != nil {
		return fmt.Errorf("revoke refresh tokens for account: %w", err)
	}

	return nil
}
