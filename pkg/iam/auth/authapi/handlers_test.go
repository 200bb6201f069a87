package authapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/vendia/pkg/errx"
	"github.com/Abraxas-365/vendia/pkg/iam/auth"
	"github.com/Abraxas-365/vendia/pkg/iam/auth/authapi"
	"github.com/Abraxas-365/vendia/pkg/iam/auth/authinfra"
	"github.com/Abraxas-365/vendia/pkg/iam/auth/authsrv"
	"github.com/Abraxas-365/vendia/pkg/iam/user"
	"github.com/Abraxas-365/vendia/pkg/iam/user/usersrv"
	"github.com/Abraxas-365/vendia/pkg/kernel"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeRepo struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newFakeRepo() *fakeRepo { return &fakeRepo{users: make(map[string]*user.User)} }

func (r *fakeRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, user.ErrNotFound()
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[username]
	return ok, nil
}

func (r *fakeRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) ExistsByRefreshToken(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.Username] = &cp
	return nil
}

func (r *fakeRepo) UpdateTokens(_ context.Context, username, refreshToken string, expiresAt time.Time, expectedPrior *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return false, nil
	}
	stored := u.RefreshToken
	switch {
	case stored == nil && expectedPrior == nil:
	case stored != nil && expectedPrior != nil && *stored == *expectedPrior:
	default:
		return false, nil
	}
	u.RefreshToken = &refreshToken
	u.RefreshTokenExpiresAt = &expiresAt
	return true, nil
}

func (r *fakeRepo) ClearExpiredTokens(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeRepo) List(_ context.Context, _ kernel.PaginationOptions) ([]*user.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, len(out), nil
}

// newTestApp wires the handlers onto a Fiber app using the same error
// translation as the server binary.
func newTestApp(t *testing.T, repo *fakeRepo) *fiber.App {
	t.Helper()

	tokens := auth.NewJWTService(testSecret, 10*time.Minute, "vendia-test")
	hasher := authinfra.NewBcryptPasswordService(bcrypt.MinCost)
	gen := auth.NewRefreshTokenGenerator(5)

	authService := authsrv.NewAuthService(repo, tokens, hasher, gen, 5*24*time.Hour, nil)
	userService := usersrv.NewUserService(repo, hasher, auth.NewPasswordPolicy(), nil)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *errx.Error
			if errx.As(err, &e) {
				return c.Status(e.HTTPStatus).JSON(fiber.Map{
					"error": e.Message,
					"code":  e.Code,
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
		},
	})

	handlers := authapi.NewAuthHandlers(authService, userService)
	handlers.RegisterRoutes(app, auth.NewTokenMiddleware(tokens))
	return app
}

func seedAccount(t *testing.T, repo *fakeRepo, username, password string, role user.Role) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("seed hash: %v", err)
	}
	repo.users[username] = &user.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, header map[string]string) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()

	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode body %q: %v", raw, err)
		}
	}
	return resp, decoded
}

func TestLoginEndpoint(t *testing.T) {
	repo := newFakeRepo()
	seedAccount(t, repo, "alice", "Valid1Pass!", user.RoleCustomer)
	app := newTestApp(t, repo)

	resp, body := doJSON(t, app, fiber.MethodPost, "/auth/login",
		fiber.Map{"username": "alice", "password": "Valid1Pass!"}, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	access, _ := body["accessToken"].(string)
	refresh, _ := body["refreshToken"].(string)
	if access == "" || refresh == "" {
		t.Fatalf("missing token pair in %v", body)
	}

	resp, _ = doJSON(t, app, fiber.MethodPost, "/auth/login",
		fiber.Map{"username": "ghost", "password": "Valid1Pass!"}, nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("unknown username: status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, fiber.MethodPost, "/auth/login",
		fiber.Map{"username": "alice", "password": "Wrong1Pass!"}, nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("wrong password: status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, fiber.MethodPost, "/auth/login",
		fiber.Map{"username": "alice"}, nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("missing password: status = %d", resp.StatusCode)
	}
}

func TestRegisterEndpoint(t *testing.T) {
	repo := newFakeRepo()
	app := newTestApp(t, repo)

	resp, body := doJSON(t, app, fiber.MethodPost, "/auth/register",
		fiber.Map{"username": "alice", "email": "alice@example.com", "password": "Valid1Pass!"}, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if body["username"] != "alice" || body["role"] != "customer" {
		t.Fatalf("unexpected body %v", body)
	}
	hashed, _ := body["password"].(string)
	if hashed == "" || hashed == "Valid1Pass!" {
		t.Fatalf("password field must carry the hash, got %q", hashed)
	}

	resp, body = doJSON(t, app, fiber.MethodPost, "/auth/register",
		fiber.Map{"username": "alice", "email": "other@example.com", "password": "Valid1Pass!"}, nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("duplicate username: status = %d", resp.StatusCode)
	}
	if body["code"] != "USER_USERNAME_TAKEN" {
		t.Fatalf("duplicate username: code = %v", body["code"])
	}

	resp, body = doJSON(t, app, fiber.MethodPost, "/auth/register",
		fiber.Map{"username": "bob", "email": "bob@example.com", "password": "weak"}, nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("weak password: status = %d", resp.StatusCode)
	}
	if body["code"] != "USER_WEAK_PASSWORD" {
		t.Fatalf("weak password: code = %v", body["code"])
	}
}

func TestRefreshEndpoint(t *testing.T) {
	repo := newFakeRepo()
	seedAccount(t, repo, "alice", "Valid1Pass!", user.RoleCustomer)
	app := newTestApp(t, repo)

	_, login := doJSON(t, app, fiber.MethodPost, "/auth/login",
		fiber.Map{"username": "alice", "password": "Valid1Pass!"}, nil)

	expired := auth.NewJWTService(testSecret, -time.Minute, "vendia-test")
	access, err := expired.GenerateAccessToken("alice", user.RoleCustomer)
	if err != nil {
		t.Fatalf("mint expired token: %v", err)
	}

	resp, body := doJSON(t, app, fiber.MethodPost, "/auth/refresh",
		fiber.Map{"accessToken": access, "refreshToken": login["refreshToken"]}, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if body["refreshToken"] == login["refreshToken"] {
		t.Fatal("refresh token was not rotated")
	}

	// The consumed pair is dead.
	resp, _ = doJSON(t, app, fiber.MethodPost, "/auth/refresh",
		fiber.Map{"accessToken": access, "refreshToken": login["refreshToken"]}, nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("replay: status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, fiber.MethodPost, "/auth/refresh",
		fiber.Map{"accessToken": access}, nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("missing refresh token: status = %d", resp.StatusCode)
	}
}

func TestListUsersEndpoint(t *testing.T) {
	repo := newFakeRepo()
	seedAccount(t, repo, "alice", "Valid1Pass!", user.RoleAdmin)
	seedAccount(t, repo, "bob", "Valid1Pass!", user.RoleCustomer)
	app := newTestApp(t, repo)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/users", nil, nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("no token: status = %d", resp.StatusCode)
	}

	tokens := auth.NewJWTService(testSecret, 10*time.Minute, "vendia-test")
	customerToken, err := tokens.GenerateAccessToken("bob", user.RoleCustomer)
	if err != nil {
		t.Fatalf("mint customer token: %v", err)
	}
	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/users", nil,
		map[string]string{"Authorization": "Bearer " + customerToken})
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("customer token: status = %d", resp.StatusCode)
	}

	adminToken, err := tokens.GenerateAccessToken("alice", user.RoleAdmin)
	if err != nil {
		t.Fatalf("mint admin token: %v", err)
	}
	resp, body := doJSON(t, app, fiber.MethodGet, "/api/v1/users", nil,
		map[string]string{"Authorization": "Bearer " + adminToken})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("admin token: status = %d, body = %v", resp.StatusCode, body)
	}

	items, _ := body["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 accounts, got %v", body["items"])
	}
	first, _ := items[0].(map[string]any)
	if _, leaked := first["password"]; leaked {
		t.Fatal("listing leaked the password hash")
	}
}
