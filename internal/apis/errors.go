package apis

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrNetworkError indicates the request never got a response.
	ErrNetworkError = errors.New("network error")

	// ErrRateLimited indicates the server refused the request for rate.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// APIError is a response with a status other than 200 OK.
type APIError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP GET error %s for %s", e.Status, e.URL)
}

// Is lets errors.Is(err, ErrRateLimited) match a 429 response.
func (e *APIError) Is(target error) bool {
	return target == ErrRateLimited && e.StatusCode == http.StatusTooManyRequests
}

// IsNotFound returns true if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
