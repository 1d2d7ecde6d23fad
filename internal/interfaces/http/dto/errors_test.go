package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	cases := []struct {
		code   string
		status int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeBatchReferenced, http.StatusConflict},
		{"ERR_SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.status, GetHTTPStatus(tc.code))
		})
	}
}

func TestMapDomainCode(t *testing.T) {
	cases := []struct {
		domainCode string
		apiCode    string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"DUPLICATE_KEY", ErrCodeConflict},
		{"CONCURRENCY_CONFLICT", ErrCodeConflict},
		{"INVALID_INPUT", ErrCodeBadRequest},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"INSUFFICIENT_STOCK", ErrCodeInsufficientStock},
		{"BATCH_REFERENCED", ErrCodeBatchReferenced},
		{"INVOICE_CONFLICT", ErrCodeBusinessRule},
		{"", ErrCodeBusinessRule},
	}

	for _, tc := range cases {
		t.Run(tc.domainCode, func(t *testing.T) {
			assert.Equal(t, tc.apiCode, MapDomainCode(tc.domainCode))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2, 3}, 25, 2, 10)

	assert.True(t, resp.Success)
	if assert.NotNil(t, resp.Meta) {
		assert.Equal(t, int64(25), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 10, resp.Meta.PageSize)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrCodeNotFound, "batch not found", "req-123")

	assert.False(t, resp.Success)
	if assert.NotNil(t, resp.Error) {
		assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
		assert.Equal(t, "batch not found", resp.Error.Message)
		assert.Equal(t, "req-123", resp.Error.RequestID)
	}
}
