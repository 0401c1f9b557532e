package session

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the identity provider's password policy floor.
const MinPasswordLength = 6

var (
	hasUpper = regexp.MustCompile(`[A-Z]`)
	hasLower = regexp.MustCompile(`[a-z]`)
)

// ValidatePassword enforces the registration policy: at least six characters with both an
// upper-case and a lower-case letter. Every violated rule is reported.
func ValidatePassword(pw string) error {
	var problems []string
	if utf8.RuneCountInString(pw) < MinPasswordLength {
		problems = append(problems, "password must be at least 6 characters long")
	}
	if !hasUpper.MatchString(pw) {
		problems = append(problems, "password must include at least one uppercase letter")
	}
	if !hasLower.MatchString(pw) {
		problems = append(problems, "password must include at least one lowercase letter")
	}
	if len(problems) > 0 {
		return &ValidationError{Field: "password", Problems: problems}
	}
	return nil
}

// ValidateRegistration checks the whole registration form. The photo URL is optional.
func ValidateRegistration(email, password, displayName string) error {
	if strings.TrimSpace(displayName) == "" {
		return &ValidationError{Field: "name", Problems: []string{"name is required"}}
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email", Problems: []string{"email is required"}}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &ValidationError{Field: "email", Problems: []string{"email address is badly formatted"}}
	}
	return nil
}
