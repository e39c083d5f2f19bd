package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/logger"
)

// MessageResponse is returned by endpoints without a resource body.
type MessageResponse struct {
	Message string `json:"message"`
}

var errInvalidBody = apperrors.NewHTTPError(http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")

// fail converts err to the JSON error body. Unexpected errors are logged.
func fail(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).Error("request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHTTPError(http.StatusBadRequest, "invalid id", "INVALID_ID")
	}
	return uint(id), nil
}

// readBody returns the raw request body, "{}" when empty.
func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, errInvalidBody
	}
	if len(body) == 0 {
		return []byte("{}"), nil
	}
	return body, nil
}

// decode unmarshals body into dst. Type mismatches become field errors.
func decode(body []byte, dst any) error {
	err := json.Unmarshal(body, dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.NewValidationError(typeErr.Field, fmt.Sprintf("Expected a value of type %s.", typeErr.Type))
	}
	var timeErr *time.ParseError
	if errors.As(err, &timeErr) {
		return apperrors.NewValidationError("non_field_errors", "Datetime has wrong format. Use RFC 3339.")
	}
	return errInvalidBody
}

// bind reads the body into each of dst in turn.
func bind(c echo.Context, dst ...any) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	for _, d := range dst {
		if err := decode(body, d); err != nil {
			return err
		}
	}
	return nil
}

// withoutKeys drops server managed keys from a JSON object body.
func withoutKeys(body []byte, keys ...string) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, errInvalidBody
	}
	for _, k := range keys {
		delete(fields, k)
	}
	return json.Marshal(fields)
}
