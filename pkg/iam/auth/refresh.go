package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"

	"github.com/Abraxas-365/vendia/pkg/errx"
)

const refreshTokenBytes = 64

// ExistsFunc reports whether a candidate token is already stored for any
// user. Implemented by the user repository.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// RefreshTokenGenerator produces globally unique, high-entropy refresh
// tokens. The collision retry loop is bounded; exhaustion is an error, not a
// longer wait.
type RefreshTokenGenerator struct {
	maxAttempts int
}

func NewRefreshTokenGenerator(maxAttempts int) *RefreshTokenGenerator {
	if maxAttempts < 1 {
		maxAttempts = 5
	}
	return &RefreshTokenGenerator{maxAttempts: maxAttempts}
}

// Generate draws random tokens until one passes the store's existence check,
// up to maxAttempts. The caller persists the token; Generate does not.
func (g *RefreshTokenGenerator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		buf := make([]byte, refreshTokenBytes)
		if _, err := rand.Read(buf); err != nil {
			return "", errx.Wrap(err, "failed to read random bytes", errx.TypeInternal)
		}
		candidate := base64.StdEncoding.EncodeToString(buf)

		inUse, err := exists(ctx, candidate)
		if err != nil {
			return "", errx.Wrap(err, "refresh token existence check failed", errx.TypeInternal)
		}
		if !inUse {
			return candidate, nil
		}
	}
	return "", ErrRefreshExhausted().WithDetail("attempts", g.maxAttempts)
}
