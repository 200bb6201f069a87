// Package userinfra provides the PostgreSQL implementation of the user
// repository port.
package userinfra

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Abraxas-365/vendia/pkg/errx"
	"github.com/Abraxas-365/vendia/pkg/iam/user"
	"github.com/Abraxas-365/vendia/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresUserRepository implements user.Repository on sqlx + lib/pq.
type PostgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) user.Repository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	query := `SELECT * FROM users WHERE username = $1`
	if err := r.db.GetContext(ctx, &u, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find user by username", errx.TypeInternal)
	}
	return &u, nil
}

func (r *PostgresUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *PostgresUserRepository) ExistsByRefreshToken(ctx context.Context, token string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE refresh_token = $1)`, token)
}

func (r *PostgresUserRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, arg); err != nil {
		return false, errx.Wrap(err, "failed to run existence check", errx.TypeInternal)
	}
	return exists, nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (
			id, username, email, password_hash, role,
			refresh_token, refresh_token_expires_at, created_at, updated_at
		) VALUES (
			:id, :username, :email, :password_hash, :role,
			:refresh_token, :refresh_token_expires_at, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			switch {
			case strings.Contains(pqErr.Constraint, "email"):
				return user.ErrEmailTaken()
			case strings.Contains(pqErr.Constraint, "refresh_token"):
				return errx.Internal("refresh token collision on insert").WithCause(err)
			default:
				return user.ErrUsernameTaken()
			}
		}
		return errx.Wrap(err, "failed to create user", errx.TypeInternal).
			WithDetail("username", u.Username)
	}
	return nil
}

// UpdateTokens performs the compare-and-swap rotation. IS NOT DISTINCT FROM
// makes the guard NULL-safe, so a nil expectedPrior matches only records
// with no stored token.
func (r *PostgresUserRepository) UpdateTokens(ctx context.Context, username, refreshToken string, expiresAt time.Time, expectedPrior *string) (bool, error) {
	query := `
		UPDATE users SET
			refresh_token = $1,
			refresh_token_expires_at = $2,
			updated_at = NOW()
		WHERE username = $3 AND refresh_token IS NOT DISTINCT FROM $4`

	res, err := r.db.ExecContext(ctx, query, refreshToken, expiresAt, username, expectedPrior)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// Another record already holds this token; the store rejects the
			// duplicate rather than silently overwriting.
			return false, errx.Internal("refresh token already in use").WithCause(err)
		}
		return false, errx.Wrap(err, "failed to rotate refresh token", errx.TypeInternal).
			WithDetail("username", username)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, errx.Wrap(err, "failed to read rows affected", errx.TypeInternal)
	}
	return affected == 1, nil
}

func (r *PostgresUserRepository) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE users SET
			refresh_token = NULL,
			refresh_token_expires_at = NULL,
			updated_at = NOW()
		WHERE refresh_token IS NOT NULL AND refresh_token_expires_at <= $1`

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, errx.Wrap(err, "failed to clear expired refresh tokens", errx.TypeInternal)
	}
	return res.RowsAffected()
}

func (r *PostgresUserRepository) List(ctx context.Context, opts kernel.PaginationOptions) ([]*user.User, int, error) {
	opts = opts.Normalize()

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, errx.Wrap(err, "failed to count users", errx.TypeInternal)
	}

	var users []*user.User
	query := `SELECT * FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	offset := (opts.Page - 1) * opts.PageSize
	if err := r.db.SelectContext(ctx, &users, query, opts.PageSize, offset); err != nil {
		return nil, 0, errx.Wrap(err, "failed to list users", errx.TypeInternal)
	}
	return users, total, nil
}
