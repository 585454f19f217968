package interactome

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by the interactome client.
var (
	// ErrNotFound indicates the endpoint or resource does not exist.
	ErrNotFound = errors.New("not found in interactome service")

	// ErrAuthError indicates a missing or rejected API key.
	ErrAuthError = errors.New("interactome service authentication error")

	// ErrRateLimited indicates the service asked us to slow down.
	ErrRateLimited = errors.New("interactome service rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with interactome service")

	// ErrInvalidResponse indicates a body that does not decode as expected.
	ErrInvalidResponse = errors.New("invalid response from interactome service")
)

// APIError is a non-2xx response from the service. Message carries the
// service's "detail" field when present.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("interactome API error (status %d, %s): %s", e.StatusCode, e.Endpoint, e.Message)
}

// IsNotFound returns true if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsOutOfRange reports whether the service rejected a community index
// beyond the number of modules it detected.
func IsOutOfRange(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 400 && strings.Contains(apiErr.Message, "out of range")
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
