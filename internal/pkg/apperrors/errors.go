// internal/pkg/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the storefront client core
var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("not found")
)

// ValidationError reports a client-side precondition that failed before any I/O
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AuthReason tells the UI which authentication failure happened
type AuthReason string

const (
	// ReasonInvalidCredentials means the backend rejected the email/password pair
	ReasonInvalidCredentials AuthReason = "invalid_credentials"
	// ReasonUnavailable means the request could not complete (network or server failure)
	ReasonUnavailable AuthReason = "unavailable"
	// ReasonSessionExpired means an authenticated call was answered with 401/403
	ReasonSessionExpired AuthReason = "session_expired"
	// ReasonNotAuthenticated means a bearer-only call was attempted without a session
	ReasonNotAuthenticated AuthReason = "not_authenticated"
)

// AuthenticationError is returned when the backend rejects credentials or a token,
// or when a login could not reach the backend at all
type AuthenticationError struct {
	Reason  AuthReason
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNotAuthenticated) match session-less failures
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrNotAuthenticated &&
		(e.Reason == ReasonNotAuthenticated || e.Reason == ReasonSessionExpired)
}

// UserMessage returns the single corrective message shown to the user
func (e *AuthenticationError) UserMessage() string {
	switch e.Reason {
	case ReasonInvalidCredentials:
		return "Invalid email or password."
	case ReasonUnavailable:
		return "Could not reach the store. Check your connection and try again."
	case ReasonSessionExpired:
		return "Your session has expired. Please log in again."
	default:
		return "Please log in to continue."
	}
}

// PersistenceError reports a failed read or write of durable local storage
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NetworkError wraps a transport failure (timeout, DNS, refused connection)
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
