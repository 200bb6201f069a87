package auth

import (
	"context"
	"time"

	"github.com/Abraxas-365/vendia/pkg/iam/user"
)

// TokenService is the contract for access-token management.
type TokenService interface {
	GenerateAccessToken(username string, role user.Role) (string, error)

	// ValidateAccessToken enforces signature, signing method, and lifetime.
	ValidateAccessToken(token string) (*AccessClaims, error)

	// ParseExpiredToken verifies signature and signing method but ignores
	// the lifetime claim. Only the refresh flow may use it.
	ParseExpiredToken(token string) (*AccessClaims, error)
}

// PasswordHasher is the contract for one-way password hashing.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)

	// Verify recomputes the digest with the embedded salt and compares in
	// constant time. It never logs the plaintext.
	Verify(plaintext, hash string) bool
}

// AuditEvent is one recorded authentication outcome.
type AuditEvent struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Username string    `json:"username"`
	Success  bool      `json:"success"`
	Reason   string    `json:"reason,omitempty"`
	At       time.Time `json:"at"`
}

// Audit event kinds.
const (
	AuditLogin        = "login"
	AuditRegistration = "registration"
	AuditRefresh      = "refresh"
)

// AuditService records authentication outcomes. Implementations must be
// best-effort: auditing never fails the request it describes.
type AuditService interface {
	Record(ctx context.Context, event AuditEvent)
}
