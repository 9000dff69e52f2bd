package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/DanielPopoola/x402-gateway/internal/application"
	"github.com/DanielPopoola/x402-gateway/internal/domain"
	"github.com/DanielPopoola/x402-gateway/internal/interfaces/rest"
)

const PaymentResponseHeader = "X-Payment-Response"

// Policy decides what happens to a request that is not verified.
type Policy int

const (
	// PolicyMandatory answers unverified requests itself with 400, 402 or 500.
	PolicyMandatory Policy = iota
	// PolicyOptional always calls the next handler, marking the request unverified.
	PolicyOptional
)

func (p Policy) String() string {
	if p == PolicyOptional {
		return "optional"
	}
	return "mandatory"
}

type gateState string

const (
	stateNoHeader      gateState = "no_header"
	stateParseFailed   gateState = "parse_failed"
	stateRejected      gateState = "rejected"
	stateInternalFault gateState = "internal_fault"
	stateVerified      gateState = "verified"
)

type PaymentVerifier interface {
	Verify(ctx context.Context, auth *domain.PaymentAuthorization, price domain.Price) (domain.VerificationResult, error)
}

// PriceFunc resolves the price of a request. An error is treated as an internal fault.
type PriceFunc func(r *http.Request) (domain.Price, error)

// FixedPrice charges every request the same amount.
func FixedPrice(price domain.Price) PriceFunc {
	return func(*http.Request) (domain.Price, error) { return price, nil }
}

type DecisionRecorder interface {
	ObserveGateDecision(policy, state string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveGateDecision(string, string) {}

type Paywall struct {
	builder  *application.RequirementBuilder
	verifier PaymentVerifier
	price    PriceFunc
	network  string
	recorder DecisionRecorder
	logger   *slog.Logger
}

func NewPaywall(
	builder *application.RequirementBuilder,
	verifier PaymentVerifier,
	price PriceFunc,
	network string,
	logger *slog.Logger,
) *Paywall {
	return &Paywall{
		builder:  builder,
		verifier: verifier,
		price:    price,
		network:  network,
		recorder: nopRecorder{},
		logger:   logger,
	}
}

func (p *Paywall) WithRecorder(r DecisionRecorder) *Paywall {
	p.recorder = r
	return p
}

// Require gates res with PolicyMandatory.
func (p *Paywall) Require(res application.Resource) func(http.Handler) http.Handler {
	return p.Gate(PolicyMandatory, res)
}

// Optional gates res with PolicyOptional.
func (p *Paywall) Optional(res application.Resource) func(http.Handler) http.Handler {
	return p.Gate(PolicyOptional, res)
}

// attempt is the outcome of evaluating one request.
type attempt struct {
	state  gateState
	price  domain.Price
	auth   *domain.PaymentAuthorization
	result domain.VerificationResult
	err    error
}

func (p *Paywall) Gate(policy Policy, res application.Resource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resource := res
			if resource.Path == "" {
				resource.Path = r.URL.Path
			}

			a := p.evaluate(r)
			p.recorder.ObserveGateDecision(policy.String(), string(a.state))

			if a.state == stateVerified {
				pc := domain.PaymentContext{
					Verified:        true,
					Amount:          strconv.FormatInt(a.price.SmallestUnit(), 10),
					TransactionHash: a.result.TransactionHash,
					Payer:           a.auth.From,
				}
				if err := p.writeReceipt(w, pc); err != nil {
					p.logger.Error("failed to encode payment response header", "error", err)
				}
				next.ServeHTTP(w, r.WithContext(domain.WithPaymentContext(r.Context(), pc)))
				return
			}

			p.logAttempt(r, policy, a)

			if policy == PolicyOptional {
				pc := domain.PaymentContext{Verified: false}
				next.ServeHTTP(w, r.WithContext(domain.WithPaymentContext(r.Context(), pc)))
				return
			}

			switch a.state {
			case stateNoHeader:
				rest.WriteJSON(w, http.StatusPaymentRequired, p.builder.PaymentRequired(a.price, resource, ""))
			case stateParseFailed:
				rest.WriteError(w, a.err)
			case stateRejected:
				rest.WriteJSON(w, http.StatusPaymentRequired, p.builder.PaymentRequired(a.price, resource, a.result.Error))
			default:
				rest.WriteError(w, application.NewInternalError(a.err))
			}
		})
	}
}

// evaluate never panics; a panic in pricing, parsing or verification becomes an internal fault.
func (p *Paywall) evaluate(r *http.Request) (a attempt) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("panic in payment gate",
				"panic", rec,
				"path", r.URL.Path,
				"stack", string(debug.Stack()))
			a = attempt{state: stateInternalFault, err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	price, err := p.price(r)
	if err != nil {
		return attempt{state: stateInternalFault, err: fmt.Errorf("resolve price: %w", err)}
	}
	a.price = price

	auth, err := application.ParsePaymentHeader(r.Header.Get(application.PaymentHeader))
	switch {
	case errors.Is(err, domain.ErrNoPayment):
		a.state = stateNoHeader
		return a
	case err != nil:
		a.state, a.err = stateParseFailed, err
		return a
	}
	a.auth = auth

	result, err := p.verifier.Verify(r.Context(), auth, price)
	if err != nil {
		a.state, a.err = stateInternalFault, err
		return a
	}
	a.result = result

	if !result.Valid {
		a.state, a.err = stateRejected, result.Err()
		return a
	}
	a.state = stateVerified
	return a
}

func (p *Paywall) writeReceipt(w http.ResponseWriter, pc domain.PaymentContext) error {
	receipt, err := json.Marshal(domain.SettlementReceipt{
		TransactionHash: pc.TransactionHash,
		Network:         p.network,
		Amount:          pc.Amount,
	})
	if err != nil {
		return err
	}
	w.Header().Set(PaymentResponseHeader, string(receipt))
	return nil
}

func (p *Paywall) logAttempt(r *http.Request, policy Policy, a attempt) {
	attrs := []any{
		"policy", policy.String(),
		"state", string(a.state),
		"method", r.Method,
		"path", r.URL.Path,
	}
	if a.auth != nil {
		attrs = append(attrs, "payer", a.auth.From, "nonce", a.auth.Nonce)
	}
	if a.err != nil {
		attrs = append(attrs, "error", a.err)
	}

	switch a.state {
	case stateInternalFault:
		p.logger.Error("payment gate internal fault", attrs...)
	case stateNoHeader:
		p.logger.Debug("request without payment", attrs...)
	default:
		p.logger.Info("payment not accepted", attrs...)
	}
}
