// Package authsrv orchestrates the login and refresh flows over the user
// repository and the token services.
package authsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/vendia/pkg/errx"
	"github.com/Abraxas-365/vendia/pkg/iam/auth"
	"github.com/Abraxas-365/vendia/pkg/iam/user"
	"github.com/Abraxas-365/vendia/pkg/logx"
)

// AuthService issues and rotates token pairs. All state lives in the user
// store; the service itself is safe for concurrent use.
type AuthService struct {
	users      user.Repository
	tokens     auth.TokenService
	hasher     auth.PasswordHasher
	refreshGen *auth.RefreshTokenGenerator
	refreshTTL time.Duration
	audit      auth.AuditService
}

func NewAuthService(
	users user.Repository,
	tokens auth.TokenService,
	hasher auth.PasswordHasher,
	refreshGen *auth.RefreshTokenGenerator,
	refreshTTL time.Duration,
	audit auth.AuditService,
) *AuthService {
	if refreshTTL == 0 {
		refreshTTL = 5 * 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		hasher:     hasher,
		refreshGen: refreshGen,
		refreshTTL: refreshTTL,
		audit:      audit,
	}
}

// Login verifies the password and issues a fresh token pair, overwriting any
// previously stored refresh token. Unknown usernames and password mismatches
// are distinct failures at login time.
func (s *AuthService) Login(ctx context.Context, username, password string) (*auth.TokenPair, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		s.record(ctx, auth.AuditLogin, username, false, "unknown username")
		if errx.IsCode(err, user.CodeNotFound) {
			return nil, err
		}
		return nil, errx.Wrap(err, "login lookup failed", errx.TypeInternal)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		s.record(ctx, auth.AuditLogin, username, false, "password mismatch")
		return nil, auth.ErrInvalidCredentials()
	}

	pair, err := s.issuePair(ctx, u, u.RefreshToken)
	if err != nil {
		s.record(ctx, auth.AuditLogin, username, false, "issuance failed")
		return nil, err
	}

	s.record(ctx, auth.AuditLogin, username, true, "")
	return pair, nil
}

// Refresh runs the rotation protocol:
//
//	Start → SignatureValidated → IdentityResolved → RefreshMatched → Reissued
//
// Every failure past signature validation collapses into the same generic
// invalid-request error so callers cannot tell an unknown user from a stale
// or mismatched refresh token.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.tokens.ParseExpiredToken(accessToken)
	if err != nil {
		s.record(ctx, auth.AuditRefresh, "", false, "invalid access token")
		return nil, auth.ErrInvalidRequest().WithCause(err)
	}

	u, err := s.users.FindByUsername(ctx, claims.Username)
	if err != nil {
		s.record(ctx, auth.AuditRefresh, claims.Username, false, "identity not resolved")
		if errx.IsCode(err, user.CodeNotFound) {
			return nil, auth.ErrInvalidRequest()
		}
		return nil, errx.Wrap(err, "refresh lookup failed", errx.TypeInternal)
	}

	if !u.HasValidRefreshToken(refreshToken, time.Now()) {
		s.record(ctx, auth.AuditRefresh, u.Username, false, "refresh token mismatch or expired")
		return nil, auth.ErrInvalidRequest()
	}

	pair, err := s.issuePair(ctx, u, &refreshToken)
	if err != nil {
		s.record(ctx, auth.AuditRefresh, u.Username, false, "issuance failed")
		return nil, err
	}

	s.record(ctx, auth.AuditRefresh, u.Username, true, "")
	return pair, nil
}

// issuePair mints a new access/refresh pair and commits the rotation with a
// conditional write against expectedPrior. Nothing is persisted unless that
// single write succeeds, and a lost race surfaces as the generic
// invalid-request error. The refresh expiry is re-stamped on every rotation
// (sliding session), on refresh as well as on login.
func (s *AuthService) issuePair(ctx context.Context, u *user.User, expectedPrior *string) (*auth.TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(u.Username, u.Role)
	if err != nil {
		return nil, err
	}

	refresh, err := s.refreshGen.Generate(ctx, s.users.ExistsByRefreshToken)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.refreshTTL)
	ok, err := s.users.UpdateTokens(ctx, u.Username, refresh, expiresAt, expectedPrior)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The stored token changed between read and write: a concurrent
		// login or refresh won. This request's tokens are discarded.
		logx.WithField("username", u.Username).Warn("refresh rotation lost conditional update")
		return nil, auth.ErrInvalidRequest()
	}

	return &auth.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) record(ctx context.Context, kind, username string, success bool, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, auth.AuditEvent{
		Kind:     kind,
		Username: username,
		Success:  success,
		Reason:   reason,
		At:       time.Now(),
	})
}
