package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httputil"

	"github.com/DanielPopoola/x402-gateway/internal/application"
	"github.com/DanielPopoola/x402-gateway/internal/domain"
	"github.com/DanielPopoola/x402-gateway/internal/interfaces/rest/middleware"
)

// ExecuteResource is the paid endpoint. Its requirement is served both in 402 bodies and by /pricing.
var ExecuteResource = application.Resource{
	Path:     "/api/v1/execute",
	Method:   http.MethodPost,
	MimeType: "application/json",
	Output: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"stdout":   map[string]any{"type": "string"},
			"stderr":   map[string]any{"type": "string"},
			"exitCode": map[string]any{"type": "integer"},
		},
	},
}

var QuotaResource = application.Resource{
	Path:        "/api/v1/quota",
	Method:      http.MethodGet,
	Description: "Payment status of the caller",
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Handlers struct {
	builder  *application.RequirementBuilder
	price    domain.Price
	executor *httputil.ReverseProxy
	checks   map[string]HealthCheck
	logger   *slog.Logger
}

func NewHandlers(
	builder *application.RequirementBuilder,
	price domain.Price,
	executor *httputil.ReverseProxy,
	checks map[string]HealthCheck,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		builder:  builder,
		price:    price,
		executor: executor,
		checks:   checks,
		logger:   logger,
	}
}

// Register mounts every route on mux. Only /execute and /quota sit behind the paywall.
func (h *Handlers) Register(mux *http.ServeMux, paywall *middleware.Paywall) {
	mux.Handle("POST "+ExecuteResource.Path, paywall.Require(ExecuteResource)(http.HandlerFunc(h.Execute)))
	mux.Handle("GET "+QuotaResource.Path, paywall.Optional(QuotaResource)(http.HandlerFunc(h.Quota)))
	mux.HandleFunc("GET /api/v1/pricing", h.Pricing)
	mux.HandleFunc("GET /health", h.Health)
}
