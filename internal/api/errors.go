package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is returned for every failed request. StatusCode is the HTTP status,
// or 0 when the server could not be reached.
type Error struct {
	Details    map[string]any
	Err        error
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api request failed: %s", e.Message)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newResponseError builds an Error from a non-2xx response body. JSON bodies
// provide "error" (or "message") and "details"; anything else is used as the
// message verbatim.
func newResponseError(status int, body []byte) *Error {
	apiErr := &Error{StatusCode: status}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil && payload != nil {
		apiErr.Message = errorMessage(payload)
		if details, ok := payload["details"].(map[string]any); ok {
			apiErr.Details = details
		}
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func errorMessage(payload map[string]any) string {
	switch v := payload["error"].(type) {
	case string:
		return v
	case map[string]any:
		if msg, ok := v["message"].(string); ok {
			return msg
		}
	}
	if msg, ok := payload["message"].(string); ok {
		return msg
	}
	return ""
}

// StatusCode returns the HTTP status carried by err, or -1 if err is not an
// API error.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return -1
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsTransient reports whether a caller may reasonably retry: network
// failures, 429 and 5xx. Canceled requests are not transient.
func IsTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch {
	case apiErr.StatusCode == 0:
		return true
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return true
	case apiErr.StatusCode >= 500:
		return true
	default:
		return false
	}
}
