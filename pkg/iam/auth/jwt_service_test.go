package auth_test

import (
	"testing"
	"time"

	"github.com/Abraxas-365/vendia/pkg/iam/auth"
	"github.com/Abraxas-365/vendia/pkg/iam/user"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := auth.NewJWTService(testSecret, 10*time.Minute, "vendia-test")

	token, err := svc.GenerateAccessToken("alice", user.RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate fresh token: %v", err)
	}
	if claims.Username != "alice" || claims.Role != user.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.After(time.Now()) {
		t.Fatal("expected future expiry on a fresh token")
	}
}

func TestJWTService_StrictRejectsExpired(t *testing.T) {
	expired := auth.NewJWTService(testSecret, -time.Minute, "vendia-test")

	token, err := expired.GenerateAccessToken("alice", user.RoleCustomer)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	svc := auth.NewJWTService(testSecret, 10*time.Minute, "vendia-test")
	if _, err := svc.ValidateAccessToken(token); err == nil {
		t.Fatal("strict validation accepted an expired token")
	}
}

func TestJWTService_SignatureOnlyAcceptsExpired(t *testing.T) {
	expired := auth.NewJWTService(testSecret, -time.Minute, "vendia-test")

	token, err := expired.GenerateAccessToken("alice", user.RoleCustomer)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	svc := auth.NewJWTService(testSecret, 10*time.Minute, "vendia-test")
	claims, err := svc.ParseExpiredToken(token)
	if err != nil {
		t.Fatalf("signature-only check rejected an authentic expired token: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("unexpected username: %q", claims.Username)
	}
}

func TestJWTService_RejectsForeignKey(t *testing.T) {
	other := auth.NewJWTService("another-secret-another-secret-32", 10*time.Minute, "vendia-test")

	token, err := other.GenerateAccessToken("alice", user.RoleCustomer)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	svc := auth.NewJWTService(testSecret, 10*time.Minute, "vendia-test")
	if _, err := svc.ParseExpiredToken(token); err == nil {
		t.Fatal("accepted a token signed with a different key")
	}
}

func TestJWTService_RejectsForeignAlgorithm(t *testing.T) {
	claims := jwt.MapClaims{
		"username": "alice",
		"role":     "customer",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	svc := auth.NewJWTService(testSecret, 10*time.Minute, "vendia-test")
	if _, err := svc.ParseExpiredToken(token); err == nil {
		t.Fatal("accepted an HS512-signed token")
	}
	if _, err := svc.ValidateAccessToken(token); err == nil {
		t.Fatal("strict validation accepted an HS512-signed token")
	}
}

func TestJWTService_RejectsMalformed(t *testing.T) {
	svc := auth.NewJWTService(testSecret, 10*time.Minute, "vendia-test")

	for _, malformed := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := svc.ParseExpiredToken(malformed); err == nil {
			t.Fatalf("accepted malformed token %q", malformed)
		}
	}
}
