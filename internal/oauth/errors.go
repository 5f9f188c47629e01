package oauth

import (
	"errors"
	"fmt"
)

var (
	// ErrNoToken indicates the current session carries no token set.
	ErrNoToken = errors.New("no token in session")
	// ErrStateMismatch indicates the authorization response state does not
	// match the value stored when the redirect was issued.
	ErrStateMismatch = errors.New("authorization state mismatch")
)

// AuthError reports a failed exchange against the identity provider: code
// exchange, refresh grant, or missing session credentials. It is never
// retried and propagates to a generic failure response.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("oauth %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
