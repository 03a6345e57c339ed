// Package usecase implements the business logic for the presence feature.
package usecase

import "errors"

var (
	// ErrPresenceNotFound is returned when no record exists for a (user, location) pair.
	ErrPresenceNotFound = errors.New("presence record not found")

	// ErrInvalidInput is returned when a user or location id is missing.
	ErrInvalidInput = errors.New("user id and location id are required")
)
