// Package auth implements the credential and token lifecycle: password
// hashing and policy, JWT access-token issuance and validation, refresh-token
// generation, and the rotation protocol. Orchestration lives in authsrv,
// HTTP handlers in authapi, and infrastructure adapters in authinfra.
package auth

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/vendia/pkg/errx"
	"github.com/Abraxas-365/vendia/pkg/iam/user"
)

// TokenPair bundles a short-lived access token with its long-lived refresh
// token. Field names match the public API contract.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AccessClaims is the identity carried by an access token.
type AccessClaims struct {
	Username  string    `json:"username"`
	Role      user.Role `json:"role"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	// CodeInvalidCredentials is the login-time password mismatch. It is
	// deliberately distinct from USER_NOT_FOUND at login, unlike the refresh
	// path which collapses every failure into CodeInvalidRequest.
	CodeInvalidCredentials = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeValidation, http.StatusBadRequest, "Password does not match")

	// CodeInvalidRequest covers every refresh failure: bad signature, unknown
	// user, mismatched or expired refresh token, lost rotation race. One
	// message for all of them so callers cannot probe which check failed.
	CodeInvalidRequest = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request")

	CodeMissingBody = ErrRegistry.Register("MISSING_BODY", errx.TypeValidation, http.StatusBadRequest, "Invalid request body")

	CodeUnauthorized = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthorization, http.StatusUnauthorized, "Missing or invalid access token")
	CodeForbidden    = ErrRegistry.Register("FORBIDDEN", errx.TypeAuthorization, http.StatusForbidden, "Insufficient role")

	CodeTokenGenerationFailed = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Token generation failed")

	// CodeRefreshExhausted is internal: the generator ran out of collision
	// retries. Never shown to callers with detail.
	CodeRefreshExhausted = ErrRegistry.Register("REFRESH_EXHAUSTED", errx.TypeInternal, http.StatusInternalServerError, "Could not generate a unique refresh token")
)

func ErrInvalidCredentials() *errx.Error    { return ErrRegistry.New(CodeInvalidCredentials) }
func ErrInvalidRequest() *errx.Error        { return ErrRegistry.New(CodeInvalidRequest) }
func ErrMissingBody() *errx.Error           { return ErrRegistry.New(CodeMissingBody) }
func ErrUnauthorized() *errx.Error          { return ErrRegistry.New(CodeUnauthorized) }
func ErrForbidden() *errx.Error             { return ErrRegistry.New(CodeForbidden) }
func ErrTokenGenerationFailed() *errx.Error { return ErrRegistry.New(CodeTokenGenerationFailed) }
func ErrRefreshExhausted() *errx.Error      { return ErrRegistry.New(CodeRefreshExhausted) }
