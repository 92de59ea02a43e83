// Package validation checks form input before it reaches a collection.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/frahmantamala/office-management/internal"
)

// Rule returns a failure message for value, or "" when it passes.
type Rule func(field, value string) string

// Validator collects at most one failure per field.
type Validator struct {
	failures []internal.FieldError
}

func New() *Validator {
	return &Validator{}
}

// Field runs rules in order and records the first one that fails.
func (v *Validator) Field(name, value string, rules ...Rule) *Validator {
	for _, rule := range rules {
		if msg := rule(name, value); msg != "" {
			v.failures = append(v.failures, internal.FieldError{
				Field:   name,
				Message: msg,
				Code:    string(internal.ErrCodeValidationFailed),
			})
			break
		}
	}
	return v
}

// Err is nil when every field passed.
func (v *Validator) Err() *internal.AppError {
	if len(v.failures) == 0 {
		return nil
	}
	return internal.NewValidationError(v.failures...)
}

func Required() Rule {
	return func(field, value string) string {
		if strings.TrimSpace(value) == "" {
			return fmt.Sprintf("%s is required", field)
		}
		return ""
	}
}

func MaxLength(max int) Rule {
	return func(field, value string) string {
		if utf8.RuneCountInString(value) > max {
			return fmt.Sprintf("%s must not exceed %d characters", field, max)
		}
		return ""
	}
}

// MaxBytes caps the encoded length, for inputs bounded in bytes rather than
// characters.
func MaxBytes(max int) Rule {
	return func(field, value string) string {
		if len(value) > max {
			return fmt.Sprintf("%s must not exceed %d bytes", field, max)
		}
		return ""
	}
}

func NoWhitespace() Rule {
	return func(field, value string) string {
		if strings.ContainsAny(value, " \t\r\n") {
			return fmt.Sprintf("%s must not contain whitespace", field)
		}
		return ""
	}
}

// ValidateCredentials checks the fields every new account needs. Passwords
// are capped at bcrypt's 72-byte input.
func ValidateCredentials(username, password string) *internal.AppError {
	return New().
		Field("username", username, Required(), MaxLength(64), NoWhitespace()).
		Field("password", password, Required(), MaxBytes(72)).
		Err()
}
