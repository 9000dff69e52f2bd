package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/DanielPopoola/x402-gateway/internal/config"
	"github.com/DanielPopoola/x402-gateway/internal/domain"
)

const outcomeVerified = "verified"

type VerifierConfig struct {
	Scheme  string
	PayTo   string
	Network string
	Asset   string
	// FacilitatorTimeout bounds the facilitator call. A timeout counts as unavailable.
	FacilitatorTimeout time.Duration
	// AllowSimulatedSettlement turns an unreachable facilitator into a simulated success.
	// Never set in production.
	AllowSimulatedSettlement bool
}

// NewVerifierConfig bounds the facilitator call by the smaller of the advertised
// maxTimeoutSeconds and the client timeout.
func NewVerifierConfig(payment config.PaymentConfig, facilitator config.FacilitatorConfig) VerifierConfig {
	timeout := time.Duration(payment.MaxTimeoutSeconds) * time.Second
	if facilitator.Timeout > 0 && facilitator.Timeout < timeout {
		timeout = facilitator.Timeout
	}

	return VerifierConfig{
		Scheme:                   domain.SchemeExact,
		PayTo:                    payment.PayTo,
		Network:                  payment.Network,
		Asset:                    payment.Asset,
		FacilitatorTimeout:       timeout,
		AllowSimulatedSettlement: facilitator.SimulateSettlement,
	}
}

// Verifier runs the local checks in order and only then calls the facilitator.
type Verifier struct {
	cfg         VerifierConfig
	facilitator Facilitator
	nonces      domain.NonceStore
	publisher   SettlementPublisher
	metrics     Metrics
	now         func() time.Time
	logger      *slog.Logger
}

type VerifierOption func(*Verifier)

// WithNonceStore enables replay protection.
func WithNonceStore(store domain.NonceStore) VerifierOption {
	return func(v *Verifier) { v.nonces = store }
}

func WithSettlementPublisher(p SettlementPublisher) VerifierOption {
	return func(v *Verifier) { v.publisher = p }
}

func WithMetrics(m Metrics) VerifierOption {
	return func(v *Verifier) { v.metrics = m }
}

func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) { v.now = now }
}

func NewVerifier(cfg VerifierConfig, facilitator Facilitator, logger *slog.Logger, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		cfg:         cfg,
		facilitator: facilitator,
		metrics:     nopMetrics{},
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks auth against the price. A failed check is a result with Valid=false;
// the error return is reserved for internal faults such as an unreachable nonce store.
func (v *Verifier) Verify(ctx context.Context, auth *domain.PaymentAuthorization, price domain.Price) (domain.VerificationResult, error) {
	start := time.Now()

	result, err := v.verify(ctx, auth, price)

	outcome := outcomeVerified
	switch {
	case err != nil:
		outcome = ErrCodeInternal
	case !result.Valid:
		outcome = result.Code
	}
	v.metrics.ObserveVerification(outcome, time.Since(start))

	return result, err
}

func (v *Verifier) verify(ctx context.Context, auth *domain.PaymentAuthorization, price domain.Price) (domain.VerificationResult, error) {
	if auth == nil {
		return domain.VerificationResult{}, errors.New("nil payment authorization")
	}

	if auth.Scheme != v.cfg.Scheme {
		return domain.Rejected(domain.NewUnsupportedSchemeError(auth.Scheme)), nil
	}

	if !strings.EqualFold(auth.To, v.cfg.PayTo) {
		return domain.Rejected(domain.NewRecipientMismatchError()), nil
	}

	required := price.SmallestUnit()
	if domainErr := checkAmount(auth.Value, required); domainErr != nil {
		return domain.Rejected(domainErr), nil
	}

	now := v.now().Unix()
	if now < auth.ValidAfter || now > auth.ValidBefore {
		return domain.Rejected(domain.NewExpiredAuthorizationError()), nil
	}

	if v.nonces != nil {
		// Addresses and bytes32 nonces are hex; case does not distinguish them.
		err := v.nonces.Reserve(ctx, strings.ToLower(auth.From), strings.ToLower(auth.Nonce), time.Unix(auth.ValidBefore, 0))
		if errors.Is(err, domain.ErrNonceReused) {
			return domain.Rejected(domain.NewReplayedAuthorizationError()), nil
		}
		if err != nil {
			return domain.VerificationResult{}, fmt.Errorf("reserve nonce: %w", err)
		}
	}

	return v.settle(ctx, auth, required), nil
}

// checkAmount accepts value >= required. Excess is not refunded.
func checkAmount(value string, required int64) *domain.DomainError {
	paid, ok := new(big.Int).SetString(value, 10)
	if !ok || paid.Sign() < 0 {
		return domain.NewInvalidValueError(value)
	}

	if paid.Cmp(big.NewInt(required)) < 0 {
		return domain.NewInsufficientAmountError(strconv.FormatInt(required, 10), paid.String())
	}
	return nil
}

func (v *Verifier) settle(ctx context.Context, auth *domain.PaymentAuthorization, required int64) domain.VerificationResult {
	callCtx, cancel := context.WithTimeout(ctx, v.cfg.FacilitatorTimeout)
	defer cancel()

	start := time.Now()
	resp, err := v.facilitator.Verify(callCtx, FacilitatorRequest{
		Payment: *auth,
		Network: v.cfg.Network,
		Asset:   v.cfg.Asset,
	})

	switch {
	case err != nil:
		if facErr, ok := IsFacilitatorError(err); ok && facErr.IsRejection() {
			v.metrics.ObserveFacilitatorCall("rejected", time.Since(start))
			return domain.Rejected(domain.NewFacilitatorRejectedError(facErr.Message))
		}
	case resp == nil:
		err = errors.New("facilitator returned an empty response")
	case resp.Error != "" && resp.TransactionHash == "":
		v.metrics.ObserveFacilitatorCall("rejected", time.Since(start))
		return domain.Rejected(domain.NewFacilitatorRejectedError(resp.Error))
	case resp.TransactionHash == "":
		err = errors.New("facilitator response missing transactionHash")
	}

	if err != nil {
		v.metrics.ObserveFacilitatorCall("unavailable", time.Since(start))
		return v.unavailable(ctx, auth, required, err)
	}

	v.metrics.ObserveFacilitatorCall("settled", time.Since(start))
	v.publish(ctx, auth, required, resp.TransactionHash, false)
	return domain.Verified(resp.TransactionHash)
}

func (v *Verifier) unavailable(ctx context.Context, auth *domain.PaymentAuthorization, required int64, cause error) domain.VerificationResult {
	if !v.cfg.AllowSimulatedSettlement {
		v.logger.Error("facilitator unavailable",
			"payer", auth.From,
			"nonce", auth.Nonce,
			"error", cause)
		return domain.Rejected(domain.NewFacilitatorUnavailableError(cause))
	}

	txHash := SimulatedTransactionHash(auth.Nonce)
	v.logger.Warn("facilitator unavailable, simulating settlement",
		"payer", auth.From,
		"nonce", auth.Nonce,
		"tx_hash", txHash,
		"error", cause)

	v.publish(ctx, auth, required, txHash, true)
	return domain.Verified(txHash)
}

// SimulatedTransactionHash is deterministic so a replayed dev request yields the same hash.
func SimulatedTransactionHash(nonce string) string {
	return "sim-" + nonce
}

func (v *Verifier) publish(ctx context.Context, auth *domain.PaymentAuthorization, required int64, txHash string, simulated bool) {
	if v.publisher == nil {
		return
	}

	event := SettlementEvent{
		TransactionHash: txHash,
		Payer:           auth.From,
		Amount:          strconv.FormatInt(required, 10),
		Paid:            auth.Value,
		Network:         v.cfg.Network,
		Asset:           v.cfg.Asset,
		Nonce:           auth.Nonce,
		Simulated:       simulated,
		SettledAt:       v.now().UTC(),
	}

	if err := v.publisher.PublishSettlement(ctx, event); err != nil {
		v.logger.Error("failed to publish settlement event",
			"tx_hash", txHash,
			"error", err)
	}
}
