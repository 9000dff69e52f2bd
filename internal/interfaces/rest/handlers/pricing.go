package handlers

import (
	"net/http"

	"github.com/DanielPopoola/x402-gateway/internal/interfaces/rest"
)

// Pricing returns the same body a 402 would carry, with status 200.
func (h *Handlers) Pricing(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, h.builder.PaymentRequired(h.price, ExecuteResource, ""))
}
