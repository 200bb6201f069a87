// Package authinfra provides infrastructure adapters for the auth context:
// bcrypt password hashing, audit sinks, and background token cleanup.
package authinfra

import (
	"github.com/Abraxas-365/vendia/pkg/errx"
	"golang.org/x/crypto/bcrypt"
)

// BcryptPasswordService implements auth.PasswordHasher. The bcrypt output is
// self-contained: cost and per-call salt are embedded in the hash, and
// comparison is constant-time.
type BcryptPasswordService struct {
	cost int
}

// NewBcryptPasswordService creates the hasher. A cost outside bcrypt's valid
// range falls back to the library default.
func NewBcryptPasswordService(cost int) *BcryptPasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordService{cost: cost}
}

func (s *BcryptPasswordService) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", errx.Wrap(err, "bcrypt hash failed", errx.TypeInternal)
	}
	return string(hash), nil
}

func (s *BcryptPasswordService) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
