package errors

import (
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
		{"invalid input", ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{"duplicate username", ErrDuplicateUsername, http.StatusBadRequest, "DUPLICATE_USERNAME"},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"city not found", ErrCityNotFound, http.StatusNotFound, "CITY_NOT_FOUND"},
		{"upstream unavailable", ErrUpstreamUnavailable, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
		{"unknown error", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.ToErrorResponse().Code)
		})
	}
}

// Wrapped sentinels must map the same as bare ones.
func TestMapErrorToHTTP_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("delete city: %w", ErrCityNotFound)
	httpErr := MapErrorToHTTP(wrapped)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, "CITY_NOT_FOUND", httpErr.ToErrorResponse().Code)

	wrapped = fmt.Errorf("login: %w", ErrInvalidCredentials)
	httpErr = MapErrorToHTTP(wrapped)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", httpErr.ToErrorResponse().Code)
}
