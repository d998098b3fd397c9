package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput is returned when required fields are missing or malformed.
	ErrInvalidInput = errors.New("username and password are required")
	// ErrDuplicateUsername is returned when the normalized username is taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidCredentials is returned on any login mismatch. It deliberately
	// does not distinguish unknown user from wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCityNotFound is returned when a city is absent or owned by another user.
	ErrCityNotFound = errors.New("city not found")
	// ErrUpstreamUnavailable is returned when an external weather or geocoding
	// service cannot be reached or answers with a non-OK status.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors, wrapped or not, to HTTP errors.
// Unrecognized errors collapse to a generic 500; their detail is for
// server-side logs only.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidInput.Error(), "INVALID_INPUT")
	case errors.Is(err, ErrDuplicateUsername):
		return NewHTTPError(http.StatusBadRequest, ErrDuplicateUsername.Error(), "DUPLICATE_USERNAME")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrCityNotFound):
		return NewHTTPError(http.StatusNotFound, ErrCityNotFound.Error(), "CITY_NOT_FOUND")
	case errors.Is(err, ErrUpstreamUnavailable):
		return NewHTTPError(http.StatusBadGateway, ErrUpstreamUnavailable.Error(), "UPSTREAM_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
