package domain

import "errors"

var (
	// ErrMalformedEvent indicates an event with an unparseable amount or
	// address. Malformed events are logged and dropped, never retried.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrInvalidAmount indicates a non-numeric amount at a decode boundary
	ErrInvalidAmount = errors.New("invalid amount")
)
