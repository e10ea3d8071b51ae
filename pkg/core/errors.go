package core

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Common errors.
var (
	// ErrValidation marks input rejected before any network call, or a 400/422 from the backend.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is a 401 that was not (or could not be) recovered by a refresh.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSessionExpired means the silent refresh failed and the session was cleared.
	ErrSessionExpired = errors.New("session expired, please log in again")
	ErrNotFound       = errors.New("not found")
	// ErrGeneration wraps failures of AI artifact requests.
	ErrGeneration = errors.New("artifact generation failed")
	// ErrMutation wraps failures of save/delete style operations.
	ErrMutation = errors.New("operation failed")
	// ErrBusy is returned when a request of the same kind is already in flight.
	ErrBusy = errors.New("request already in flight")
)

// ValidationError lists the offending fields with a human readable message each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Method  string
	Path    string
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// Unwrap maps the status code onto the sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	}
	return nil
}

// IsAuth reports whether err belongs to the authentication class.
func IsAuth(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrSessionExpired)
}

// classify tags err with kind unless it is a validation or authentication error,
// which keep their own class.
func classify(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) || IsAuth(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
