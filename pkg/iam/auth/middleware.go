package auth

import (
	"strings"

	"github.com/Abraxas-365/vendia/pkg/iam/user"
	"github.com/Abraxas-365/vendia/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// TokenMiddleware guards routes with strict (lifetime-checked) access-token
// validation.
type TokenMiddleware struct {
	tokenService TokenService
}

func NewTokenMiddleware(tokenService TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokenService: tokenService}
}

// Authenticate validates the Bearer token and injects the AuthContext into
// request locals.
func (m *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return ErrUnauthorized()
		}

		claims, err := m.tokenService.ValidateAccessToken(parts[1])
		if err != nil {
			return ErrUnauthorized()
		}

		c.Locals(string(kernel.AuthContextKey), &kernel.AuthContext{
			Username: claims.Username,
			Role:     claims.Role.String(),
		})
		return c.Next()
	}
}

// RequireRole rejects authenticated requests whose role claim does not match.
func (m *TokenMiddleware) RequireRole(role user.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac := AuthContextFrom(c)
		if !ac.IsValid() {
			return ErrUnauthorized()
		}
		if !ac.HasRole(role.String()) {
			return ErrForbidden()
		}
		return c.Next()
	}
}

// AuthContextFrom extracts the AuthContext set by Authenticate, or nil.
func AuthContextFrom(c *fiber.Ctx) *kernel.AuthContext {
	ac, _ := c.Locals(string(kernel.AuthContextKey)).(*kernel.AuthContext)
	return ac
}
