package session

import "errors"

var (
	// ErrSessionNotFound indicates no session with the given id was derived.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidEvent indicates an input event is missing its username or timestamp.
	ErrInvalidEvent = errors.New("invalid activity event")
	// ErrInvalidOptions indicates a negative threshold.
	ErrInvalidOptions = errors.New("invalid session options")
	// ErrInvalidInput indicates invalid session input.
	ErrInvalidInput = errors.New("invalid session input")
	// ErrOverridesUnavailable indicates no override store is configured.
	ErrOverridesUnavailable = errors.New("session overrides unavailable")
)
