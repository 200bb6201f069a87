// Package user is the user-account bounded context: the credential record,
// the closed role enumeration, and the repository port the auth flows
// consume. Persistence lives in userinfra, business logic in usersrv.
package user

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/vendia/pkg/errx"
	"github.com/Abraxas-365/vendia/pkg/kernel"
)

// Role is the closed set of roles a user may hold. Roles are validated once
// at registration so access-token claims never carry arbitrary strings.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// ParseRole validates a role string. Empty input defaults to customer.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleCustomer:
		return Role(s), nil
	case "":
		return RoleCustomer, nil
	default:
		return "", ErrInvalidRole().WithDetail("role", s)
	}
}

func (r Role) String() string { return string(r) }

// User is the credential record. PasswordHash is the bcrypt digest of the
// password; the plaintext is never stored. RefreshToken holds the single
// currently valid refresh token, nil until the first login.
type User struct {
	ID                    kernel.UserID `db:"id" json:"id"`
	Username              string        `db:"username" json:"username"`
	Email                 string        `db:"email" json:"email"`
	PasswordHash          string        `db:"password_hash" json:"password"`
	Role                  Role          `db:"role" json:"role"`
	RefreshToken          *string       `db:"refresh_token" json:"-"`
	RefreshTokenExpiresAt *time.Time    `db:"refresh_token_expires_at" json:"-"`
	CreatedAt             time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time     `db:"updated_at" json:"updated_at"`
}

// HasValidRefreshToken reports whether the stored refresh token matches the
// candidate and has not expired. A record with no stored token never matches.
func (u *User) HasValidRefreshToken(candidate string, now time.Time) bool {
	if u.RefreshToken == nil || u.RefreshTokenExpiresAt == nil {
		return false
	}
	return *u.RefreshToken == candidate && now.Before(*u.RefreshTokenExpiresAt)
}

// Public is the redacted shape exposed by list endpoints.
type Public struct {
	ID       kernel.UserID `json:"id"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Role     Role          `json:"role"`
	Created  time.Time     `json:"created_at"`
}

// ToPublic strips credential material from the record.
func (u *User) ToPublic() Public {
	return Public{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Created:  u.CreatedAt,
	}
}

var ErrRegistry = errx.NewRegistry("USER")

// Registration failures surface as 400 to match the public API contract,
// even where 409 would be the conventional status.
var (
	CodeNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Username not found")
	CodeUsernameTaken = ErrRegistry.Register("USERNAME_TAKEN", errx.TypeConflict, http.StatusBadRequest, "Username already exists")
	CodeEmailTaken    = ErrRegistry.Register("EMAIL_TAKEN", errx.TypeConflict, http.StatusBadRequest, "Email already exists")
	CodeWeakPassword  = ErrRegistry.Register("WEAK_PASSWORD", errx.TypeValidation, http.StatusBadRequest, "Password does not meet the policy")
	CodeInvalidRole   = ErrRegistry.Register("INVALID_ROLE", errx.TypeValidation, http.StatusBadRequest, "Unknown role")
)

func ErrNotFound() *errx.Error      { return ErrRegistry.New(CodeNotFound) }
func ErrUsernameTaken() *errx.Error { return ErrRegistry.New(CodeUsernameTaken) }
func ErrEmailTaken() *errx.Error    { return ErrRegistry.New(CodeEmailTaken) }
func ErrInvalidRole() *errx.Error   { return ErrRegistry.New(CodeInvalidRole) }

// ErrWeakPassword carries the joined violation messages as the user-visible
// reason.
func ErrWeakPassword(reason string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeWeakPassword, reason)
}
