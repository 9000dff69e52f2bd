package handlers

import (
	"net/http"

	"github.com/DanielPopoola/x402-gateway/internal/domain"
	"github.com/DanielPopoola/x402-gateway/internal/interfaces/rest"
)

type QuotaResponse struct {
	Success bool      `json:"success"`
	Data    QuotaData `json:"data"`
}

type QuotaData struct {
	Paid            bool   `json:"paid"`
	Payer           string `json:"payer,omitempty"`
	TransactionHash string `json:"transactionHash,omitempty"`
	Amount          string `json:"amount,omitempty"`
	// Price is what a paid request costs, in the asset's smallest unit.
	Price string `json:"price"`
}

// Quota never blocks; unpaid callers get paid=false and the current price.
func (h *Handlers) Quota(w http.ResponseWriter, r *http.Request) {
	pc, _ := domain.PaymentFromContext(r.Context())

	rest.WriteJSON(w, http.StatusOK, QuotaResponse{
		Success: true,
		Data: QuotaData{
			Paid:            pc.Verified,
			Payer:           pc.Payer,
			TransactionHash: pc.TransactionHash,
			Amount:          pc.Amount,
			Price:           h.builder.Build(h.price, QuotaResource).MaxAmountRequired,
		},
	})
}
