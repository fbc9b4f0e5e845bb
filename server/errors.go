package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/rustyeddy/tradejournal/journal"
)

// APIError is the JSON body of every failed request.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func newAPIError(status int, code, msg string, details any) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: msg, Details: details}
}

func errInvalidParameter(name string, err error) *APIError {
	return newAPIError(http.StatusBadRequest, "INVALID_PARAMETER",
		fmt.Sprintf("invalid %s", name), err.Error())
}

func errInvalidBody(err error) *APIError {
	return newAPIError(http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
}

var (
	errNotFound    = newAPIError(http.StatusNotFound, "NOT_FOUND", "trade not found", nil)
	errConflict    = newAPIError(http.StatusConflict, "CONFLICT", "trade already exists", nil)
	errRateLimited = newAPIError(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "rate limit exceeded", nil)
	errInternal    = newAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error", nil)
)

// toAPIError maps repository and validation errors to their API form.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, journal.ErrTradeNotFound):
		return errNotFound
	case errors.Is(err, journal.ErrTradeExists):
		return errConflict
	case errors.Is(err, journal.ErrInvalidTrade):
		return newAPIError(http.StatusBadRequest, "VALIDATION_FAILED", "trade validation failed", err.Error())
	default:
		return errInternal
	}
}
