package auth_test

import (
	"strings"
	"testing"

	"github.com/Abraxas-365/vendia/pkg/iam/auth"
)

func TestPasswordPolicy_Compliant(t *testing.T) {
	p := auth.NewPasswordPolicy()

	if v := p.Check("Valid1Pass!"); len(v) != 0 {
		t.Fatalf("expected no violations, got %v", v)
	}
}

func TestPasswordPolicy_LengthOnly(t *testing.T) {
	p := auth.NewPasswordPolicy()

	v := p.Check("Short1!")
	if len(v) != 1 {
		t.Fatalf("expected exactly the length violation, got %v", v)
	}
	if !strings.Contains(string(v[0]), "8 characters") {
		t.Fatalf("unexpected violation: %q", v[0])
	}
}

func TestPasswordPolicy_MissingUppercase(t *testing.T) {
	p := auth.NewPasswordPolicy()

	v := p.Check("alllowercase1!")
	if len(v) != 1 || !strings.Contains(string(v[0]), "uppercase") {
		t.Fatalf("expected only the uppercase violation, got %v", v)
	}
}

func TestPasswordPolicy_MissingSpecial(t *testing.T) {
	p := auth.NewPasswordPolicy()

	v := p.Check("NoSpecial123")
	if len(v) != 1 || !strings.Contains(string(v[0]), "special") {
		t.Fatalf("expected only the special-character violation, got %v", v)
	}
}

func TestPasswordPolicy_ReportsAllViolationsTogether(t *testing.T) {
	p := auth.NewPasswordPolicy()

	// Violates every rule at once; no short-circuiting.
	v := p.Check("abc")
	if len(v) != 4 {
		t.Fatalf("expected 4 violations, got %d: %v", len(v), v)
	}

	joined := auth.JoinViolations(v)
	for _, want := range []string{"8 characters", "uppercase", "digit", "special"} {
		if !strings.Contains(joined, want) {
			t.Errorf("joined reason missing %q: %s", want, joined)
		}
	}
}
