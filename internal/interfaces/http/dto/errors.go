package dto

import (
	"net/http"

	"github.com/procureflow/backend/internal/domain/shared"
)

// Transport-level error codes. Domain codes come from the shared package and
// are passed through to clients unchanged.
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when authentication is missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes.
//
// Conflicts with existing state (duplicates, stale versions) map to 409;
// legal requests rejected by a business rule map to 422.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeInternal:     http.StatusInternalServerError,

	shared.CodeValidation: http.StatusBadRequest,

	shared.CodeNotFound: http.StatusNotFound,

	shared.CodeForbiddenActor: http.StatusForbidden,

	shared.CodeAlreadyExists:        http.StatusConflict,
	shared.CodeDuplicateReceipt:     http.StatusConflict,
	shared.CodeReceiptAlreadyExists: http.StatusConflict,
	shared.CodeConcurrencyConflict:  http.StatusConflict,

	shared.CodeInvalidTransition: http.StatusUnprocessableEntity,
	shared.CodeGuardFailed:       http.StatusUnprocessableEntity,
	shared.CodeOverpayment:       http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes fall back to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
