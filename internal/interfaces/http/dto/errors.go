package dto

import "net/http"

// Error codes shared between the domain layer and HTTP responses
const (
	ErrCodeInternal            = "INTERNAL_ERROR"
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeCrossTenantAccess   = "CROSS_TENANT_ACCESS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeOrderCreation       = "ORDER_CREATION_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// CROSS_TENANT_ACCESS deliberately maps to 404: clients must not be
// able to probe whether a resource exists under another tenant.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeCrossTenantAccess:   http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	ErrCodeOrderCreation: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Domain validation errors carry granular codes (INVALID_SKU,
// INVALID_QUANTITY, ...) that are not listed individually; anything
// unrecognized is treated as a client error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}

// PublicErrorCode rewrites internal classifications that must not leak
// to clients. Cross-tenant probes look identical to missing resources.
func PublicErrorCode(code string) string {
	if code == ErrCodeCrossTenantAccess {
		return ErrCodeNotFound
	}
	return code
}
