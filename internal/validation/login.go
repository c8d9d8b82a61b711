// Package validation holds the local input checks that run before any
// network interaction. A login name becomes part of a storage key, so the
// rules here are strict about path characters.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	sperrors "github.com/ssmpass/ssmpass/internal/errors"
)

// MaxLoginLength bounds login names. SSM parameter names allow far more,
// but long names are almost always a caller bug.
const MaxLoginLength = 128

var loginPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateLogin checks a logical login name. It returns a validation-kind
// error for: empty names, names over MaxLoginLength, characters outside
// [A-Za-z0-9._-], and path traversal sequences.
func ValidateLogin(login string) error {
	if login == "" {
		return sperrors.Validation(login, "Login cannot be empty")
	}
	if len(login) > MaxLoginLength {
		return sperrors.Validation(login, fmt.Sprintf(
			"Login cannot be longer than %d characters (got %d)", MaxLoginLength, len(login)))
	}
	// The charset check already rejects '/', but traversal sequences get a
	// dedicated message since they suggest an attempted key escape.
	if strings.Contains(login, "/") || strings.Contains(login, "..") {
		return sperrors.Validation(login, fmt.Sprintf(
			"Login '%s' must not contain path separators or '..'", login))
	}
	if !loginPattern.MatchString(login) {
		return sperrors.Validation(login, fmt.Sprintf(
			"Login '%s' contains invalid characters (allowed: letters, digits, '.', '_', '-')", login))
	}
	return nil
}

// ValidatePassword checks a caller-supplied password. Only emptiness is
// rejected locally; composition policy applies to generated passwords, not
// ones the caller chose.
func ValidatePassword(password string) error {
	if password == "" {
		return sperrors.Validation("", "Password cannot be empty")
	}
	return nil
}
