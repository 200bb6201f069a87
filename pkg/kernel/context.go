package kernel

// AuthContext is the authenticated identity injected into each request by
// the auth middleware. Role is the closed role claim carried by the access
// token, already validated at registration time.
type AuthContext struct {
	UserID   *UserID `json:"user_id,omitempty"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
}

// IsValid reports whether the context carries a usable identity.
func (ac *AuthContext) IsValid() bool {
	return ac != nil && ac.Username != ""
}

// HasRole reports whether the context carries the given role.
func (ac *AuthContext) HasRole(role string) bool {
	return ac != nil && ac.Role == role
}

// ContextKey is the type for values stored in request-scoped storage.
type ContextKey string

const (
	// AuthContextKey locates the AuthContext in request locals.
	AuthContextKey ContextKey = "auth_context"

	// RequestIDKey locates the request id in request locals.
	RequestIDKey ContextKey = "request_id"
)
