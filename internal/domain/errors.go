package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a payment verification failure
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Payment verification errors
const (
	ErrCodeNoPayment              = "NO_PAYMENT"
	ErrCodeMalformedPayload       = "MALFORMED_PAYLOAD"
	ErrCodeUnsupportedScheme      = "UNSUPPORTED_SCHEME"
	ErrCodeRecipientMismatch      = "RECIPIENT_MISMATCH"
	ErrCodeInsufficientAmount     = "INSUFFICIENT_AMOUNT"
	ErrCodeExpiredAuthorization   = "EXPIRED_AUTHORIZATION"
	ErrCodeReplayedAuthorization  = "REPLAYED_AUTHORIZATION"
	ErrCodeFacilitatorUnavailable = "FACILITATOR_UNAVAILABLE"
	ErrCodeFacilitatorRejected    = "FACILITATOR_REJECTED"
)

// ErrNoPayment means the client did not attempt to pay. It is not a failed payment.
var ErrNoPayment = &DomainError{
	Code:    ErrCodeNoPayment,
	Message: "no payment provided",
}

// ErrNonceReused is returned by replay guards when a payer+nonce pair was already consumed.
var ErrNonceReused = errors.New("nonce already used")

func NewMalformedPayloadError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeMalformedPayload,
		Message: "malformed payment payload",
		Err:     err,
	}
}

func NewUnsupportedSchemeError(scheme string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnsupportedScheme,
		Message: fmt.Sprintf("unsupported scheme: %s", scheme),
	}
}

func NewRecipientMismatchError() *DomainError {
	return &DomainError{
		Code:    ErrCodeRecipientMismatch,
		Message: "invalid recipient",
	}
}

func NewInsufficientAmountError(required, paid string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInsufficientAmount,
		Message: fmt.Sprintf("insufficient payment: required %s, paid %s", required, paid),
	}
}

func NewInvalidValueError(value string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInsufficientAmount,
		Message: fmt.Sprintf("invalid payment value %q", value),
	}
}

func NewExpiredAuthorizationError() *DomainError {
	return &DomainError{
		Code:    ErrCodeExpiredAuthorization,
		Message: "authorization expired or not yet valid",
	}
}

func NewReplayedAuthorizationError() *DomainError {
	return &DomainError{
		Code:    ErrCodeReplayedAuthorization,
		Message: "authorization nonce already used",
		Err:     ErrNonceReused,
	}
}

func NewFacilitatorUnavailableError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeFacilitatorUnavailable,
		Message: "facilitator unavailable",
		Err:     err,
	}
}

// NewFacilitatorRejectedError keeps the facilitator's message verbatim.
func NewFacilitatorRejectedError(message string) *DomainError {
	if message == "" {
		message = "payment rejected by facilitator"
	}
	return &DomainError{
		Code:    ErrCodeFacilitatorRejected,
		Message: message,
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
