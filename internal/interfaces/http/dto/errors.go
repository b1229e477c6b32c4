package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Business rule violations are 422, state conflicts are 409, lookup
// misses are 404; anything unmapped falls back to 500.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,

	"NOT_FOUND": http.StatusNotFound,

	"ALREADY_EXISTS":       http.StatusConflict,
	"ALREADY_SETTLED":      http.StatusConflict,
	"ALREADY_APPROVED":     http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	"VALIDATION_ERROR":           http.StatusUnprocessableEntity,
	"INVALID_STATE":              http.StatusUnprocessableEntity,
	"INVALID_PRODUCT":            http.StatusUnprocessableEntity,
	"INVALID_BATCH":              http.StatusUnprocessableEntity,
	"INVALID_BATCH_NUMBER":       http.StatusUnprocessableEntity,
	"INVALID_SALESMAN":           http.StatusUnprocessableEntity,
	"INVALID_ASSIGNMENT":         http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":         http.StatusUnprocessableEntity,
	"INSUFFICIENT_ALLOCATED_STOCK": http.StatusUnprocessableEntity,
	"BATCH_RECALLED":             http.StatusUnprocessableEntity,
	"BATCH_EXPIRED":              http.StatusUnprocessableEntity,
	"INVALID_RETURN_QUANTITY":    http.StatusUnprocessableEntity,

	"LEDGER_CORRUPT": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Returns 500 Internal Server Error if the error code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
