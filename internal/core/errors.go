package core

import (
	"errors"
	"fmt"
)

// AuthError indicates credential or token acquisition failed. It is fatal
// to the run; no partial output is produced.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth failed during %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// TransportError indicates a provider call failed. Status carries the
// provider's own status code or response class when available.
type TransportError struct {
	Op     string
	Status string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("transport failed during %s (%s): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("transport failed during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsAuthError reports whether err is or wraps an AuthError
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsTransportError reports whether err is or wraps a TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
