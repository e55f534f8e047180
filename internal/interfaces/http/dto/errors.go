package dto

import (
	"net/http"

	"github.com/storefront/backend/internal/domain/shared"
)

// Domain error codes, shared with internal/domain/shared
const (
	ErrCodeNotFound       = shared.CodeNotFound
	ErrCodeNoActiveOrder  = shared.CodeNoActiveOrder
	ErrCodeLineNotInOrder = shared.CodeLineNotInOrder
	ErrCodeValidation     = shared.CodeValidation
	ErrCodeInfrastructure = shared.CodeInfrastructure
	ErrCodeInvalidState   = shared.CodeInvalidState
	ErrCodeInvalidInput   = shared.CodeInvalidInput
	ErrCodeAlreadyExists  = shared.CodeAlreadyExists
)

// Transport error codes
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "TOKEN_INVALID"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeNoActiveOrder:  http.StatusNotFound,
	ErrCodeLineNotInOrder: http.StatusConflict,
	ErrCodeValidation:     http.StatusUnprocessableEntity,
	ErrCodeInfrastructure: http.StatusServiceUnavailable,
	ErrCodeInvalidState:   http.StatusConflict,
	ErrCodeInvalidInput:   http.StatusBadRequest,
	ErrCodeAlreadyExists:  http.StatusConflict,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeTokenInvalid:    http.StatusUnauthorized,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
