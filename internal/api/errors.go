package api

import (
	"errors"
	"fmt"
)

// ErrRejected matches every application-level failure reported by the
// backend ({error: ...} bodies and error statuses on plain endpoints).
var ErrRejected = errors.New("rejected by server")

// ServerError carries the backend's own message.
type ServerError struct {
	Path    string
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Path, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *ServerError) Is(target error) bool {
	return target == ErrRejected
}
