// Package authapi exposes the authentication HTTP surface on Fiber.
package authapi

import (
	"github.com/Abraxas-365/vendia/pkg/iam/auth"
	"github.com/Abraxas-365/vendia/pkg/iam/auth/authsrv"
	"github.com/Abraxas-365/vendia/pkg/iam/user"
	"github.com/Abraxas-365/vendia/pkg/iam/user/usersrv"
	"github.com/Abraxas-365/vendia/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type tokenRequest struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthHandlers wires the auth and user services to HTTP routes.
type AuthHandlers struct {
	auth  *authsrv.AuthService
	users *usersrv.UserService
}

func NewAuthHandlers(authService *authsrv.AuthService, userService *usersrv.UserService) *AuthHandlers {
	return &AuthHandlers{auth: authService, users: userService}
}

// RegisterRoutes mounts the public auth endpoints and the admin-only user
// listing. Errors propagate to the app's global error handler.
func (h *AuthHandlers) RegisterRoutes(app *fiber.App, mw *auth.TokenMiddleware) {
	grp := app.Group("/auth")
	grp.Post("/login", h.Login)
	grp.Post("/register", h.Register)
	grp.Post("/refresh", h.Refresh)

	api := app.Group("/api/v1", mw.Authenticate())
	api.Get("/users", mw.RequireRole(user.RoleAdmin), h.ListUsers)
}

func (h *AuthHandlers) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrMissingBody().WithCause(err)
	}
	if req.Username == "" || req.Password == "" {
		return auth.ErrMissingBody()
	}

	pair, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(pair)
}

func (h *AuthHandlers) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrMissingBody().WithCause(err)
	}

	created, err := h.users.Register(c.Context(), usersrv.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(created)
}

func (h *AuthHandlers) Refresh(c *fiber.Ctx) error {
	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrMissingBody().WithCause(err)
	}
	if req.AccessToken == "" || req.RefreshToken == "" {
		return auth.ErrMissingBody()
	}

	pair, err := h.auth.Refresh(c.Context(), req.AccessToken, req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(pair)
}

func (h *AuthHandlers) ListUsers(c *fiber.Ctx) error {
	opts := kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}

	page, err := h.users.ListUsers(c.Context(), opts)
	if err != nil {
		return err
	}
	return c.JSON(page)
}
