// Package domain holds the x402 payment types shared by the verification pipeline and the HTTP gate.
package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// X402Version is the protocol version advertised in payment required responses.
const X402Version = 1

// SchemeExact is the "transfer with authorization" scheme: the payer signs an
// EIP-3009 style transfer that the facilitator submits on chain.
const SchemeExact = "exact"

// PaymentRequirement describes what a resource demands. Built fresh per request.
type PaymentRequirement struct {
	Scheme            string         `json:"scheme"`
	Network           string         `json:"network"`
	MaxAmountRequired string         `json:"maxAmountRequired"`
	Resource          string         `json:"resource"`
	Description       string         `json:"description"`
	MimeType          string         `json:"mimeType"`
	PayTo             string         `json:"payTo"`
	Asset             string         `json:"asset"`
	MaxTimeoutSeconds int64          `json:"maxTimeoutSeconds"`
	OutputSchema      map[string]any `json:"outputSchema,omitempty"`
	Extra             *AssetExtra    `json:"extra,omitempty"`
}

// AssetExtra carries the token's EIP-712 domain so payers can sign without a lookup.
type AssetExtra struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// PaymentRequiredResponse is the body sent with status 402.
type PaymentRequiredResponse struct {
	X402Version int                  `json:"x402Version"`
	Accepts     []PaymentRequirement `json:"accepts"`
	Error       string               `json:"error,omitempty"`
}

// PaymentAuthorization is the signed transfer a client sends in the X-PAYMENT header.
type PaymentAuthorization struct {
	Scheme      string `json:"scheme"`
	Signature   string `json:"signature"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	ValidAfter  int64  `json:"validAfter"`
	ValidBefore int64  `json:"validBefore"`
	Nonce       string `json:"nonce"`
}

// VerificationResult is either valid with a transaction hash, or invalid with an error.
type VerificationResult struct {
	Valid           bool   `json:"valid"`
	TransactionHash string `json:"transactionHash,omitempty"`
	Error           string `json:"error,omitempty"`

	// Code is the DomainError code of a failed verification.
	Code string `json:"-"`
}

// Verified builds a successful result.
func Verified(txHash string) VerificationResult {
	return VerificationResult{Valid: true, TransactionHash: txHash}
}

// Rejected builds a failed result from a domain error.
func Rejected(err *DomainError) VerificationResult {
	return VerificationResult{Valid: false, Error: err.Message, Code: err.Code}
}

// Err returns the failure as a DomainError, or nil for a valid result.
func (r VerificationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &DomainError{Code: r.Code, Message: r.Error}
}

// PaymentContext is attached to a request by the gate. Downstream handlers read it
// and never re-verify.
type PaymentContext struct {
	Verified        bool   `json:"verified"`
	Amount          string `json:"amount"`
	TransactionHash string `json:"transactionHash,omitempty"`
	Payer           string `json:"payer,omitempty"`
}

// SettlementReceipt is the X-Payment-Response header payload.
type SettlementReceipt struct {
	TransactionHash string `json:"transactionHash"`
	Network         string `json:"network"`
	Amount          string `json:"amount"`
}

type paymentContextKey struct{}

// WithPaymentContext returns a copy of ctx carrying pc.
func WithPaymentContext(ctx context.Context, pc PaymentContext) context.Context {
	return context.WithValue(ctx, paymentContextKey{}, pc)
}

// PaymentFromContext returns the payment attached by the gate. ok is false when the
// request never passed through a gate.
func PaymentFromContext(ctx context.Context) (PaymentContext, bool) {
	pc, ok := ctx.Value(paymentContextKey{}).(PaymentContext)
	return pc, ok
}

// UnixSeconds accepts a JSON number or a numeric string. Payers in the wild send both.
type UnixSeconds int64

func (u *UnixSeconds) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}

	var s string
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = raw
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid unix timestamp %q: %w", s, err)
	}
	*u = UnixSeconds(v)
	return nil
}
