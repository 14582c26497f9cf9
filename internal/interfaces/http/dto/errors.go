package dto

import (
	"net/http"

	"github.com/salesops/backend/internal/domain/shared"
)

// Domain error codes, surfaced to clients unchanged
const (
	ErrCodeNotFound          = shared.CodeNotFound
	ErrCodeNotPending        = shared.CodeNotPending
	ErrCodeProductUnresolved = shared.CodeProductUnresolved
	ErrCodeReasonRequired    = shared.CodeReasonRequired
	ErrCodeInvalidInput      = shared.CodeInvalidInput
	ErrCodeInvalidState      = shared.CodeInvalidState
	ErrCodeAlreadyExists     = shared.CodeAlreadyExists
)

// Transport error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when binding tags reject the payload
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	// ErrCodeRateLimited is used when a client exceeds its request budget
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
	// ErrCodeUnavailable is used when a dependency needed to serve the request is down
	ErrCodeUnavailable = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeNotPending:        http.StatusConflict,
	ErrCodeAlreadyExists:     http.StatusConflict,
	ErrCodeProductUnresolved: http.StatusUnprocessableEntity,
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeReasonRequired:    http.StatusBadRequest,
	ErrCodeInvalidInput:      http.StatusBadRequest,

	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
