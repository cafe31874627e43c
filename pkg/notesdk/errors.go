package notesdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ============================================================================
// API Error Codes
// ============================================================================

const (
	// Error codes returned by the jotter API
	ErrorCodeValidation         = "validation_error"
	ErrorCodeConflict           = "conflict"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeExpiredToken       = "expired_token"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeServerError        = "server_error"
)

// ErrNotAuthenticated is returned by authenticated operations when the
// client holds no session. Log in, sign up or resume first.
var ErrNotAuthenticated = errors.New("notesdk: not authenticated")

// ============================================================================
// APIError
// ============================================================================

// APIError represents a non-success response from the jotter API.
type APIError struct {
	// Status is the HTTP status code of the response
	Status int

	// Code is the machine-readable error code (e.g. "invalid_token")
	Code string

	// Message is the human-readable description from the server
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is an *APIError carrying the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseAPIError turns a non-success response body into a typed *APIError.
// Bodies that are not an error envelope fall back to the HTTP status text.
func parseAPIError(status int, body []byte) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil && env.Error.Code != "" {
		return &APIError{
			Status:  status,
			Code:    env.Error.Code,
			Message: env.Error.Message,
		}
	}

	return &APIError{
		Status:  status,
		Code:    ErrorCodeServerError,
		Message: fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status)),
	}
}
