package auth

import (
	"strings"
	"unicode"
)

// passwordSpecialSet is the set of characters accepted as "special".
const passwordSpecialSet = "@#$%!&*?_-"

const passwordMinLength = 8

// Violation is one human-readable policy failure.
type Violation string

// PasswordPolicy checks plaintext passwords at registration time. Every rule
// is evaluated so the caller can report all violations together.
type PasswordPolicy struct{}

func NewPasswordPolicy() *PasswordPolicy { return &PasswordPolicy{} }

// Check returns the full list of violations, empty when compliant.
func (p *PasswordPolicy) Check(plaintext string) []Violation {
	var violations []Violation

	if len([]rune(plaintext)) < passwordMinLength {
		violations = append(violations, "password must be at least 8 characters")
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range plaintext {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
		if strings.ContainsRune(passwordSpecialSet, r) {
			hasSpecial = true
		}
	}

	if !hasLower {
		violations = append(violations, "password must contain a lowercase letter")
	}
	if !hasUpper {
		violations = append(violations, "password must contain an uppercase letter")
	}
	if !hasDigit {
		violations = append(violations, "password must contain a digit")
	}
	if !hasSpecial {
		violations = append(violations, "password must contain a special character ("+passwordSpecialSet+")")
	}

	return violations
}

// JoinViolations renders violations as the user-visible rejection reason.
func JoinViolations(violations []Violation) string {
	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = string(v)
	}
	return strings.Join(parts, "; ")
}
