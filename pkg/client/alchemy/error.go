package alchemy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

// Helper function for error handling.
func (e *APIError) Error() string {
	return fmt.Sprintf("alchemy api error status: %d, description: %s", e.StatusCode, e.Message)
}

// Retryable is true for rate limiting and server-side failures.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// errorBody covers both {"message": ".."} and {"error": {"message": ".."}}.
type errorBody struct {
	Message string `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Error != nil && parsed.Error.Message != "":
			apiErr.Message = parsed.Error.Message
		case parsed.Message != "":
			apiErr.Message = parsed.Message
		}
	}

	// If the body is not parsed, keep the raw text.
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	return apiErr
}
