package auth

import (
	"fmt"
	"time"

	"github.com/Abraxas-365/vendia/pkg/iam/user"
	"github.com/golang-jwt/jwt/v5"
)

// JWTService implements TokenService with HS256-signed JWTs. The secret is
// process-wide configuration injected at startup; it is never derived per
// user and never compiled into the binary.
type JWTService struct {
	secretKey      []byte
	accessTokenTTL time.Duration
	issuer         string
}

func NewJWTService(secretKey string, accessTokenTTL time.Duration, issuer string) *JWTService {
	if accessTokenTTL == 0 {
		accessTokenTTL = 10 * time.Minute
	}
	if issuer == "" {
		issuer = "vendia"
	}
	return &JWTService{
		secretKey:      []byte(secretKey),
		accessTokenTTL: accessTokenTTL,
		issuer:         issuer,
	}
}

type jwtClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (j *JWTService) GenerateAccessToken(username string, role user.Role) (string, error) {
	now := time.Now()

	claims := jwtClaims{
		Username: username,
		Role:     role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", ErrTokenGenerationFailed().WithCause(err)
	}
	return signed, nil
}

// ValidateAccessToken enforces signature, HS256 method, and lifetime.
func (j *JWTService) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	return j.parse(tokenString, jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	))
}

// ParseExpiredToken verifies authenticity only. The refresh protocol accepts
// tokens whose lifetime has elapsed as long as the signature still holds, so
// claims validation is switched off; malformed tokens, foreign signing
// algorithms, and bad signatures are still rejected.
func (j *JWTService) ParseExpiredToken(tokenString string) (*AccessClaims, error) {
	return j.parse(tokenString, jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	))
}

func (j *JWTService) parse(tokenString string, parser *jwt.Parser) (*AccessClaims, error) {
	claims := &jwtClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		return nil, ErrUnauthorized().WithCause(err)
	}
	if !token.Valid || claims.Username == "" {
		return nil, ErrUnauthorized()
	}

	role, err := user.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrUnauthorized().WithCause(err)
	}

	out := &AccessClaims{Username: claims.Username, Role: role}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
