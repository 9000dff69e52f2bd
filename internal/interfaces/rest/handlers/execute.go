package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/DanielPopoola/x402-gateway/internal/application"
	"github.com/DanielPopoola/x402-gateway/internal/domain"
	"github.com/DanielPopoola/x402-gateway/internal/interfaces/rest"
)

const (
	HeaderPaymentPayer       = "X-Payment-Payer"
	HeaderPaymentTransaction = "X-Payment-Transaction"
	HeaderPaymentAmount      = "X-Payment-Amount"
)

// NewExecutorProxy forwards paid requests to target. The X-PAYMENT header is stripped and
// replaced by the verified payment details.
func NewExecutorProxy(target *url.URL, logger *slog.Logger) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.URL.Path = target.Path
			pr.Out.URL.RawPath = target.RawPath
			pr.SetXForwarded()

			pr.Out.Header.Del(application.PaymentHeader)
			if pc, ok := domain.PaymentFromContext(pr.In.Context()); ok {
				pr.Out.Header.Set(HeaderPaymentPayer, pc.Payer)
				pr.Out.Header.Set(HeaderPaymentTransaction, pc.TransactionHash)
				pr.Out.Header.Set(HeaderPaymentAmount, pc.Amount)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("executor request failed",
				"path", r.URL.Path,
				"error", err)
			rest.WriteError(w, application.NewUpstreamError(err))
		},
	}
}

func (h *Handlers) Execute(w http.ResponseWriter, r *http.Request) {
	pc, ok := domain.PaymentFromContext(r.Context())
	if !ok || !pc.Verified {
		rest.WriteError(w, application.NewInternalError(errors.New("execute reached without a verified payment")))
		return
	}

	h.logger.Info("forwarding paid execution",
		"payer", pc.Payer,
		"tx_hash", pc.TransactionHash,
		"amount", pc.Amount)

	h.executor.ServeHTTP(w, r)
}
