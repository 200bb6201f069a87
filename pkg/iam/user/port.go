package user

import (
	"context"
	"time"

	"github.com/Abraxas-365/vendia/pkg/kernel"
)

// Repository is the persistence contract for credential records. The store
// is authoritative for uniqueness of username, email, and live refresh
// tokens.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByRefreshToken reports whether any record currently stores the
	// candidate token. Used by the generator's collision check.
	ExistsByRefreshToken(ctx context.Context, token string) (bool, error)

	Create(ctx context.Context, u *User) error

	// UpdateTokens rotates a user's refresh token with a conditional write:
	// the update applies only while the stored token still equals
	// expectedPrior (nil meaning no stored token). It returns false when the
	// guard fails, which is how concurrent refresh losers are detected.
	UpdateTokens(ctx context.Context, username, refreshToken string, expiresAt time.Time, expectedPrior *string) (bool, error)

	// ClearExpiredTokens nulls out refresh tokens whose expiry has passed
	// and returns the number of records touched.
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)

	List(ctx context.Context, opts kernel.PaginationOptions) ([]*User, int, error)
}
