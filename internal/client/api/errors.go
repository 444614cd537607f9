package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks transport-level failures: the backend never
	// produced a response.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized marks rejected credentials or an expired token.
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is the uniform shape every failed gateway call normalizes to.
// Status is the HTTP status code, or 0 when no response was received.
// Use errors.Is with ErrUnavailable/ErrUnauthorized to branch on class.
type Error struct {
	Status  int
	Message string
	Data    json.RawMessage

	sentinel error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: %s", e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.sentinel }
