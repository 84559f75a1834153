package api

import (
	"errors"
	"fmt"
)

// The client normalizes every failure into exactly one of three kinds:
//
//   - TransportError: no response was received (network unreachable, timeout)
//   - AuthError: the server rejected the credentials or the token (401/403)
//   - APIError: any other non-2xx response
//
// Callers branch with errors.As; none of these is ever retried automatically.

type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: no response from server: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("server responded with status %d: %s", e.StatusCode, e.Message)
}

// AuthError means the session is not (or no longer) authenticated. The
// session manager treats it as the signal to force a logout; no other
// component may swallow it.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "not authenticated"
	}
	return e.Message
}

// IsAuthError reports whether err is (or wraps) an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
