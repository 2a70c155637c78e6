package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnavailable indicates the API could not be reached (connection
// refused, DNS failure, timeout).
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("API unavailable: %v", e.Err)
	}
	return "API unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrStatus indicates the API answered with a non-success HTTP status.
type ErrStatus struct {
	Code   int
	Detail string
}

func (e *ErrStatus) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API returned HTTP %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("API returned HTTP %d", e.Code)
}

// ErrInvalidResponse indicates a body that could not be decoded or, in
// strict mode, did not match the endpoint's schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid API response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// Describe collapses an API error into the one-line message shown to the
// user. Transport and server failures are not distinguished beyond this.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var status *ErrStatus
	if errors.As(err, &status) {
		if status.Detail != "" {
			return fmt.Sprintf("Server error (%d): %s", status.Code, status.Detail)
		}
		return fmt.Sprintf("Server error (%d).", status.Code)
	}

	var unavail *ErrUnavailable
	if errors.As(err, &unavail) || errors.Is(err, context.DeadlineExceeded) {
		return "Failed to connect to server."
	}

	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		return "Unexpected response from server."
	}

	return "Error: " + err.Error()
}
