package backend

import (
	"errors"
	"fmt"
)

// ErrTimeout indicates the remote call exceeded its per-call timeout and was abandoned.
var ErrTimeout = errors.New("translation call timed out")

// ErrBackend indicates the backend answered with a non-success status.
var ErrBackend = errors.New("backend error")

// ErrMalformedResponse indicates a successful call whose body carried no translated text.
var ErrMalformedResponse = errors.New("malformed backend response")

// maxErrorBody caps how much of an upstream body is kept in a BackendError.
const maxErrorBody = 512

// BackendError carries the status and body of a failed backend call.
// It matches ErrBackend with errors.Is.
type BackendError struct {
	Status int
	Body   string
}

func (e *BackendError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Body)
}

// Is reports whether target is ErrBackend.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

// newBackendError builds a BackendError, truncating long bodies.
func newBackendError(status int, body []byte) *BackendError {
	if len(body) > maxErrorBody {
		body = append(body[:maxErrorBody:maxErrorBody], "..."...)
	}
	return &BackendError{Status: status, Body: string(body)}
}
