package activity

import "errors"

var (
	// ErrInvalidInput indicates the event failed validation.
	ErrInvalidInput = errors.New("invalid activity input")
	// ErrEventNotFound indicates the event doesn't exist.
	ErrEventNotFound = errors.New("activity event not found")
)
