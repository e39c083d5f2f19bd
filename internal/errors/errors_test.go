package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"user not found", ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"wrapped checklist not found", fmt.Errorf("load: %w", ErrChecklistNotFound), http.StatusNotFound, "CHECKLIST_NOT_FOUND"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"already conducted", ErrAlreadyConducted, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unsupported format", ErrUnsupportedFormat, http.StatusBadRequest, "UNSUPPORTED_FORMAT"},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestMapErrorToHTTP_ValidationFields(t *testing.T) {
	err := NewValidationError("password", "too short").Add("email", "required")

	resp := MapErrorToHTTP(fmt.Errorf("register: %w", err)).ToErrorResponse()

	assert.Equal(t, "VALIDATION_FAILED", resp.Code)
	assert.Equal(t, map[string]string{"password": "too short", "email": "required"}, resp.Fields)
	assert.Equal(t, "validation failed: email: required; password: too short", err.Error())
}

func TestMapErrorToHTTP_InternalHidesCause(t *testing.T) {
	got := MapErrorToHTTP(errors.New("dial tcp 10.0.0.1:3306: refused"))

	assert.Equal(t, "internal server error", got.Message)
}
