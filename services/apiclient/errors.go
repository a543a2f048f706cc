package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned for every failed backend call. Status is 0 when the
// backend could not be reached or answered with an undecodable body.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("backend unreachable: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("backend %d: %s", e.Status, http.StatusText(e.Status))
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether the backend rejected the call with 401.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// IsNotFound reports whether the backend answered 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// MessageOr returns the backend's message for err, or fallback when the
// backend sent none.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
