// Package usersrv implements registration and account listing on top of the
// user repository.
package usersrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/vendia/pkg/errx"
	"github.com/Abraxas-365/vendia/pkg/iam/auth"
	"github.com/Abraxas-365/vendia/pkg/iam/user"
	"github.com/Abraxas-365/vendia/pkg/kernel"
	"github.com/google/uuid"
)

// RegisterInput is the registration payload after transport decoding.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// UserService handles account creation and queries.
type UserService struct {
	users  user.Repository
	hasher auth.PasswordHasher
	policy *auth.PasswordPolicy
	audit  auth.AuditService
}

func NewUserService(users user.Repository, hasher auth.PasswordHasher, policy *auth.PasswordPolicy, audit auth.AuditService) *UserService {
	return &UserService{users: users, hasher: hasher, policy: policy, audit: audit}
}

// Register creates a credential record. Checks run in the public API's
// order: username uniqueness, email uniqueness, password policy, role. The
// store stays authoritative for uniqueness; its constraint violations map to
// the same conflict errors. Nothing is persisted when any check fails.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, errx.Validation("username, email and password are required")
	}

	taken, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, errx.Wrap(err, "username check failed", errx.TypeInternal)
	}
	if taken {
		s.record(ctx, in.Username, false, "username taken")
		return nil, user.ErrUsernameTaken()
	}

	taken, err = s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, errx.Wrap(err, "email check failed", errx.TypeInternal)
	}
	if taken {
		s.record(ctx, in.Username, false, "email taken")
		return nil, user.ErrEmailTaken()
	}

	if violations := s.policy.Check(in.Password); len(violations) > 0 {
		s.record(ctx, in.Username, false, "weak password")
		return nil, user.ErrWeakPassword(auth.JoinViolations(violations))
	}

	role, err := user.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, errx.Wrap(err, "password hashing failed", errx.TypeInternal)
	}

	now := time.Now()
	u := &user.User{
		ID:           kernel.NewUserID(uuid.NewString()),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		s.record(ctx, in.Username, false, "store rejected record")
		return nil, err
	}

	s.record(ctx, in.Username, true, "")
	return u, nil
}

// ListUsers returns a redacted, paginated account listing.
func (s *UserService) ListUsers(ctx context.Context, opts kernel.PaginationOptions) (kernel.Paginated[user.Public], error) {
	opts = opts.Normalize()

	users, total, err := s.users.List(ctx, opts)
	if err != nil {
		return kernel.Paginated[user.Public]{}, err
	}

	items := make([]user.Public, len(users))
	for i, u := range users {
		items[i] = u.ToPublic()
	}
	return kernel.NewPaginated(items, opts.Page, opts.PageSize, total), nil
}

func (s *UserService) record(ctx context.Context, username string, success bool, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, auth.AuditEvent{
		Kind:     auth.AuditRegistration,
		Username: username,
		Success:  success,
		Reason:   reason,
		At:       time.Now(),
	})
}
