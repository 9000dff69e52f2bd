package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/DanielPopoola/x402-gateway/internal/domain"
)

// ToHTTPStatus maps error to appropriate HTTP status code.
// Payload problems are 400 so the client fixes its header, payment problems are 402
// so it pays again, everything else is a 5xx.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeMalformedPayload:
			return http.StatusBadRequest
		case domain.ErrCodeNoPayment,
			domain.ErrCodeUnsupportedScheme,
			domain.ErrCodeRecipientMismatch,
			domain.ErrCodeInsufficientAmount,
			domain.ErrCodeExpiredAuthorization,
			domain.ErrCodeReplayedAuthorization,
			domain.ErrCodeFacilitatorUnavailable,
			domain.ErrCodeFacilitatorRejected:
			return http.StatusPaymentRequired
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	// Default to 500
	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}

	return ErrCodeInternal
}

// ToErrorMessage hides internal detail from clients.
func ToErrorMessage(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Message
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return "An internal error occurred"
}
