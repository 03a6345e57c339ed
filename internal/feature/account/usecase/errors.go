// Package usecase implements the business logic for the account feature.
package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when no visible user matches a lookup.
	// It is an expected outcome and callers are meant to check for it.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned when a user with the same identifier already exists.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrSessionNotFound is returned when no session token matches a lookup.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStore is the caller-facing kind for any failure of the underlying store.
	ErrStore = errors.New("something went wrong please try again")

	// ErrCredential is the caller-facing kind for hashing or token signing failures.
	// It carries the same wording as ErrStore so callers cannot tell the two apart.
	ErrCredential = errors.New("something went wrong please try again")
)

// ValidationError reports a missing or malformed argument.
// It is returned before any store access and the caller can fix the input and retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func required(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// OpError is the normalised failure returned across the usecase boundary.
// Error() only exposes the generic Kind; Cause keeps the original error for diagnostics.
type OpError struct {
	Op    string
	Kind  error
	Cause error
}

func (e *OpError) Error() string {
	return e.Kind.Error()
}

// Unwrap returns Kind so that errors.Is(err, ErrStore) works. Cause is not unwrapped.
func (e *OpError) Unwrap() error {
	return e.Kind
}

// Diagnostic returns the operation and original cause for logging.
func (e *OpError) Diagnostic() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// storeError normalises a repository error. Expected sentinels pass through unchanged.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrUserAlreadyExists) || errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return &OpError{Op: op, Kind: ErrStore, Cause: err}
}

func credentialError(op string, err error) error {
	return &OpError{Op: op, Kind: ErrCredential, Cause: err}
}
