package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/feral-file/ff-provenance/internal/domain"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeValidationFailed ErrorCode = "validation_failed"

	// Server errors (5xx)
	ErrCodeInternalError ErrorCode = "internal_error"
	ErrCodeServiceError  ErrorCode = "service_error"
	ErrCodeTimeout       ErrorCode = "timeout"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// Error constructors for common error types
func NewBadRequestError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewNotFoundError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewValidationError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Details: strings.Join(details, ", "),
	}
}

func NewInternalError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeInternalError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewServiceError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeServiceError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewTimeoutError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeTimeout,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

// FromError maps an engine error to an HTTP status and API error.
// Callers can tell "no transfers" (a 200 with no stages) apart from
// "the node could not be asked" (a 5xx).
func FromError(err error) (int, *APIError) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Code == ErrCodeNotFound {
			return http.StatusNotFound, apiErr
		}
		return http.StatusBadRequest, apiErr
	case errors.Is(err, domain.ErrInvalidAddress):
		return http.StatusBadRequest, NewBadRequestError("Invalid token address", err.Error())
	case domain.IsNoSuchToken(err):
		return http.StatusNotFound, NewNotFoundError("Token not found", err.Error())
	case domain.IsNodeRejected(err):
		return http.StatusBadGateway, NewServiceError("Ethereum node rejected the request", err.Error())
	case domain.IsRetryable(err):
		return http.StatusServiceUnavailable, NewServiceError("Ethereum node unavailable", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, NewTimeoutError("Request timed out")
	default:
		return http.StatusInternalServerError, NewInternalError("Internal server error")
	}
}
