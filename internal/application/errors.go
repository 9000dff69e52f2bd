package application

import (
	"errors"
	"fmt"
	"net/http"
)

// APPLICATION-LEVEL ERRORS (Orchestration)

type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeTimeout  = "TIMEOUT"
	ErrCodeInternal = "INTERNAL_ERROR"
	ErrCodeUpstream = "UPSTREAM_UNAVAILABLE"
)

func NewTimeoutError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeTimeout,
		Message:    "Request timed out",
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

// NewInternalError wraps faults that are not payment failures. The wrapped error is
// for logs only; clients see the generic message.
func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUpstreamError is returned when the execution backend behind the gate fails.
func NewUpstreamError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeUpstream,
		Message:    "Execution backend unavailable",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}

// FacilitatorError is a non-2xx answer from the facilitator that carried an error body.
type FacilitatorError struct {
	StatusCode int
	Message    string
}

func (e *FacilitatorError) Error() string {
	return fmt.Sprintf("facilitator returned status %d: %s", e.StatusCode, e.Message)
}

// IsRejection reports whether the facilitator judged the payment, as opposed to failing itself.
// A timeout or rate limit says nothing about the payment.
func (e *FacilitatorError) IsRejection() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return e.StatusCode < http.StatusInternalServerError
}

func IsFacilitatorError(err error) (*FacilitatorError, bool) {
	var facErr *FacilitatorError
	ok := errors.As(err, &facErr)
	return facErr, ok
}
