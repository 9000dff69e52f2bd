package application

import (
	"context"
	"time"

	"github.com/DanielPopoola/x402-gateway/internal/domain"
)

// FacilitatorRequest is the body of POST {facilitator}/verify.
type FacilitatorRequest struct {
	Payment domain.PaymentAuthorization `json:"payment"`
	Network string                      `json:"network"`
	Asset   string                      `json:"asset"`
}

type FacilitatorResponse struct {
	TransactionHash string `json:"transactionHash"`
	Error           string `json:"error,omitempty"`
}

// Facilitator verifies signatures and settles transfers on our behalf.
type Facilitator interface {
	Verify(ctx context.Context, req FacilitatorRequest) (*FacilitatorResponse, error)
}

// SettlementEvent is emitted after a payment is verified and settled.
type SettlementEvent struct {
	TransactionHash string    `json:"transactionHash"`
	Payer           string    `json:"payer"`
	Amount          string    `json:"amount"`
	Paid            string    `json:"paid"`
	Network         string    `json:"network"`
	Asset           string    `json:"asset"`
	Nonce           string    `json:"nonce"`
	Simulated       bool      `json:"simulated"`
	SettledAt       time.Time `json:"settledAt"`
}

type SettlementPublisher interface {
	PublishSettlement(ctx context.Context, event SettlementEvent) error
}

// Metrics records verification outcomes. Outcome is a domain error code or "verified".
type Metrics interface {
	ObserveVerification(outcome string, elapsed time.Duration)
	ObserveFacilitatorCall(outcome string, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ObserveVerification(string, time.Duration)    {}
func (nopMetrics) ObserveFacilitatorCall(string, time.Duration) {}
