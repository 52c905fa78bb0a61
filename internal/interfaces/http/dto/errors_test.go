package dto

import (
	"net/http"
	"testing"

	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInternal, http.StatusInternalServerError},
		{shared.CodeValidation, http.StatusBadRequest},
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeForbiddenActor, http.StatusForbidden},
		{shared.CodeAlreadyExists, http.StatusConflict},
		{shared.CodeDuplicateReceipt, http.StatusConflict},
		{shared.CodeReceiptAlreadyExists, http.StatusConflict},
		{shared.CodeConcurrencyConflict, http.StatusConflict},
		{shared.CodeInvalidTransition, http.StatusUnprocessableEntity},
		{shared.CodeGuardFailed, http.StatusUnprocessableEntity},
		{shared.CodeOverpayment, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.code))
		})
	}
}

func TestGetHTTPStatus_UnknownCode(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_NEW"))
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrCodeBadRequest, "malformed body")

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "malformed body", resp.Error.Message)
	assert.Empty(t, resp.Error.RequestID)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeInternal, "boom", "req-123")

	assert.False(t, resp.Success)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		pageSize   int
		totalPages int
	}{
		{"exact fit", 40, 20, 2},
		{"with remainder", 41, 20, 3},
		{"empty", 0, 20, 0},
		{"zero page size", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewSuccessResponseWithMeta(nil, tt.total, 1, tt.pageSize)

			assert.True(t, resp.Success)
			assert.Equal(t, tt.total, resp.Meta.Total)
			assert.Equal(t, tt.totalPages, resp.Meta.TotalPages)
		})
	}
}
