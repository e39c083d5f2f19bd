package errors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrUserNotFound is returned when a user does not exist or is disabled.
	ErrUserNotFound = errors.New("user not found")
	// ErrProfileNotFound is returned when a role profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInspectionNotFound is returned when a base inspection is missing or not visible.
	ErrInspectionNotFound = errors.New("inspection not found")
	// ErrChecklistNotFound is returned when a checklist is missing, inactive or not visible.
	ErrChecklistNotFound = errors.New("checklist not found")
	// ErrNoInspectionsFound is returned when a search matches nothing.
	ErrNoInspectionsFound = errors.New("no inspections found matching your criteria")
	// ErrForbidden is returned when the caller's role does not allow the action.
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrUnauthorized is returned when no valid access token accompanies a request.
	ErrUnauthorized = errors.New("authentication credentials were not provided or are invalid")
	// ErrUnsupportedFormat is returned for unknown report formats.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrInvalidDate is returned when a date filter is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")
	// ErrRateLimited is returned when a client exceeds its request budget.
	ErrRateLimited = errors.New("too many requests")

	// ErrAlreadyConducted is returned on a second conduct attempt.
	ErrAlreadyConducted = NewValidationError("inspection", "Inspection has already been conducted.")
	// ErrAlreadyApproved is returned on a second approve attempt.
	ErrAlreadyApproved = NewValidationError("inspection", "Inspection already approved.")
	// ErrNotConducted is returned when approval is attempted before conduct.
	ErrNotConducted = NewValidationError("inspection", "Inspection must be conducted before it can be approved.")
	// ErrEmailTaken is returned when registering or updating to an existing email.
	ErrEmailTaken = NewValidationError("email", "A user with this email already exists.")
)

// ValidationError carries field level messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field and returns e for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = message
	return e
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
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
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "validation failed",
			Code:       "VALIDATION_FAILED",
			Fields:     validationErr.Fields,
		}
	}

	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrProfileNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROFILE_NOT_FOUND")
	case errors.Is(err, ErrInspectionNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "INSPECTION_NOT_FOUND")
	case errors.Is(err, ErrChecklistNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CHECKLIST_NOT_FOUND")
	case errors.Is(err, ErrNoInspectionsFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NO_INSPECTIONS_FOUND")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrUnsupportedFormat):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UNSUPPORTED_FORMAT")
	case errors.Is(err, ErrInvalidDate):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_DATE")
	case errors.Is(err, ErrRateLimited):
		return NewHTTPError(http.StatusTooManyRequests, err.Error(), "RATE_LIMITED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
