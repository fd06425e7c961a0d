package taskapi

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps failures where the request never completed.
	ErrTransport = errors.New("task api unreachable")
	// ErrMissingPayload is returned when a 2xx response carries no data.
	ErrMissingPayload = errors.New("task api response has no data")
)

// HTTPError is a non-2xx response from the task API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error, status %d", e.StatusCode)
}

type errorBody struct {
	Message string `json:"message"`
}
