package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticationErrorMatching(t *testing.T) {
	netErr := &NetworkError{Op: "login", Err: errors.New("connection refused")}
	err := Wrapf(&AuthenticationError{Reason: ReasonUnavailable, Message: "login failed", Err: netErr}, "cli")

	var authErr *AuthenticationError
	require.True(t, As(err, &authErr))
	assert.Equal(t, ReasonUnavailable, authErr.Reason)

	var gotNet *NetworkError
	assert.True(t, As(err, &gotNet), "network cause stays reachable")
	assert.False(t, Is(err, ErrNotAuthenticated))

	expired := &AuthenticationError{Reason: ReasonSessionExpired, Message: "unauthorized"}
	assert.True(t, Is(expired, ErrNotAuthenticated))
}

func TestUserMessagesDifferByReason(t *testing.T) {
	bad := (&AuthenticationError{Reason: ReasonInvalidCredentials}).UserMessage()
	down := (&AuthenticationError{Reason: ReasonUnavailable}).UserMessage()
	assert.NotEqual(t, bad, down)
}

func TestValidationErrorText(t *testing.T) {
	assert.Equal(t, "email: must look like name@domain", NewValidationError("email", "must look like name@domain").Error())
	assert.Equal(t, "bad", (&ValidationError{Message: "bad"}).Error())
}

func TestWrapfNil(t *testing.T) {
	assert.NoError(t, Wrapf(nil, "noop"))
}
