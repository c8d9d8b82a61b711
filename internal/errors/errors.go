// Package errors defines the closed error taxonomy for credential
// operations. Every failure a caller can observe is exactly one of the four
// kinds below; nothing unclassified leaks out of the manager.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind discriminates the closed set of failure classes.
type Kind int

const (
	// KindValidation: input failed local validation, no remote call was made.
	KindValidation Kind = iota + 1
	// KindNotFound: the operation required an existing login and found none.
	KindNotFound
	// KindAlreadyExists: create targeted a login that already has a record.
	KindAlreadyExists
	// KindStore: the remote store or its decryption path failed.
	KindStore
)

// Exit codes, one per kind, so scripts can branch on failure class.
const (
	ExitOK            = 0
	ExitUnclassified  = 1
	ExitValidation    = 2
	ExitNotFound      = 3
	ExitAlreadyExists = 4
	ExitStore         = 5
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindAlreadyExists:
		return "already exists"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// Error is the single tagged error type carrying a kind discriminant, the
// offending login, and contextual detail. Store-kind errors preserve the
// underlying cause for logging and unwrapping.
type Error struct {
	Kind       Kind
	Login      string
	Message    string
	Suggestion string
	Err        error
}

func (e *Error) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Err != nil && e.Message != "" {
		parts = append(parts, "\n  Details: "+e.Err.Error())
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a validation-kind error. No remote effect occurred.
func Validation(login, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Login:   login,
		Message: message,
	}
}

// NotFound builds a not-found error for the given login.
func NotFound(login string) *Error {
	return &Error{
		Kind:       KindNotFound,
		Login:      login,
		Message:    fmt.Sprintf("Login '%s' not found", login),
		Suggestion: "Use 'ssmpass list' to see available logins",
	}
}

// AlreadyExists builds an already-exists error for the given login.
func AlreadyExists(login string) *Error {
	return &Error{
		Kind:       KindAlreadyExists,
		Login:      login,
		Message:    fmt.Sprintf("Login '%s' already exists", login),
		Suggestion: "Use 'ssmpass update' or 'ssmpass rotate' to change an existing login",
	}
}

// Store wraps a backend failure, preserving the cause and attaching an
// operation-specific message plus an AWS-flavored suggestion.
func Store(operation, login string, err error) *Error {
	return &Error{
		Kind:       KindStore,
		Login:      login,
		Message:    fmt.Sprintf("Failed to %s", operation),
		Suggestion: storeSuggestion(err),
		Err:        err,
	}
}

// KindOf reports the taxonomy kind of err, or 0 when unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsValidation reports whether err is a validation-kind error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsAlreadyExists reports whether err is an already-exists error.
func IsAlreadyExists(err error) bool { return KindOf(err) == KindAlreadyExists }

// IsStore reports whether err is a store-kind error.
func IsStore(err error) bool { return KindOf(err) == KindStore }

// ExitCode maps an error to its process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch KindOf(err) {
	case KindValidation:
		return ExitValidation
	case KindNotFound:
		return ExitNotFound
	case KindAlreadyExists:
		return ExitAlreadyExists
	case KindStore:
		return ExitStore
	default:
		return ExitUnclassified
	}
}

// storeSuggestion provides a helpful hint based on common AWS failures.
func storeSuggestion(err error) string {
	if err == nil {
		return ""
	}
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "accessdenied"), strings.Contains(errStr, "unauthorized"):
		return "Check IAM permissions for the parameter store and kms:Decrypt for SecureString values"
	case strings.Contains(errStr, "invalidkeyid"):
		return "The KMS key for this value may not exist or you lack kms:Decrypt permission"
	case strings.Contains(errStr, "throttl"), strings.Contains(errStr, "too many requests"):
		return "Request was throttled. Wait a moment and try again"
	case strings.Contains(errStr, "expired"):
		return "Your AWS credentials have expired. Refresh your session and try again"
	case strings.Contains(errStr, "credentials"), strings.Contains(errStr, "no ec2 imds"):
		return "Configure AWS credentials: 'aws configure' or set AWS_PROFILE"
	case strings.Contains(errStr, "region"):
		return "Check that you're using the AWS region where the passwords are stored"
	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "connection"):
		return "Check your network connection and try again"
	default:
		return "Check AWS credentials, region, and IAM permissions"
	}
}
