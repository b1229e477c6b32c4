package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		status int
	}{
		{"not found maps to 404", "NOT_FOUND", http.StatusNotFound},
		{"insufficient stock is a business rule violation", "INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{"insufficient allocated stock is a business rule violation", "INSUFFICIENT_ALLOCATED_STOCK", http.StatusUnprocessableEntity},
		{"recalled batch is a business rule violation", "BATCH_RECALLED", http.StatusUnprocessableEntity},
		{"invalid return quantity is a business rule violation", "INVALID_RETURN_QUANTITY", http.StatusUnprocessableEntity},
		{"double settlement conflicts", "ALREADY_SETTLED", http.StatusConflict},
		{"double approval conflicts", "ALREADY_APPROVED", http.StatusConflict},
		{"stale version conflicts", "CONCURRENCY_CONFLICT", http.StatusConflict},
		{"validation error is unprocessable", "VALIDATION_ERROR", http.StatusUnprocessableEntity},
		{"corrupt ledger is a server fault", "LEDGER_CORRUPT", http.StatusInternalServerError},
		{"unknown code falls back to 500", "SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("NOT_FOUND", "Batch not found", "req-123")

	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "Batch not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.Nil(t, resp.Data)
}
