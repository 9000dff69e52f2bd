package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/DanielPopoola/x402-gateway/internal/application"
	"github.com/DanielPopoola/x402-gateway/internal/application/mocks"
	"github.com/DanielPopoola/x402-gateway/internal/config"
	"github.com/DanielPopoola/x402-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	testPayTo = "0x209693Bc6afc0C5328bA36FaF03C514EF312287C"
	testAsset = "0x036CbD53842c5426634e7929541eC2318f3dCF7e"
	testPayer = "0x857b06519E91e3A54538791bDbb0E22373e36b66"
	testNow   = int64(1_700_000_000)
)

type VerifierTestSuite struct {
	suite.Suite
	facilitator *mocks.MockFacilitator
	price       domain.Price
	cfg         application.VerifierConfig
}

func TestVerifierSuite(t *testing.T) {
	suite.Run(t, new(VerifierTestSuite))
}

func (suite *VerifierTestSuite) SetupTest() {
	suite.facilitator = mocks.NewMockFacilitator(suite.T())
	suite.price = domain.MustPrice("0.02")
	suite.cfg = application.VerifierConfig{
		Scheme:             domain.SchemeExact,
		PayTo:              testPayTo,
		Network:            "base-sepolia",
		Asset:              testAsset,
		FacilitatorTimeout: time.Second,
	}
}

func (suite *VerifierTestSuite) newVerifier(opts ...application.VerifierOption) *application.Verifier {
	opts = append([]application.VerifierOption{
		application.WithClock(func() time.Time { return time.Unix(testNow, 0) }),
	}, opts...)
	return application.NewVerifier(suite.cfg, suite.facilitator, discardLogger(), opts...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validAuthorization() *domain.PaymentAuthorization {
	return &domain.PaymentAuthorization{
		Scheme:      domain.SchemeExact,
		Signature:   "0xsig",
		From:        testPayer,
		To:          testPayTo,
		Value:       "20000",
		ValidAfter:  testNow - 60,
		ValidBefore: testNow + 60,
		Nonce:       "0xnonce1",
	}
}

// ============================================================================
// HAPPY PATH TESTS
// ============================================================================

func (suite *VerifierTestSuite) Test_Verify_Success() {
	t := suite.T()
	auth := validAuthorization()

	suite.facilitator.EXPECT().
		Verify(mock.Anything, application.FacilitatorRequest{
			Payment: *auth,
			Network: "base-sepolia",
			Asset:   testAsset,
		}).
		Return(&application.FacilitatorResponse{TransactionHash: "0xabc"}, nil).
		Once()

	result, err := suite.newVerifier().Verify(context.Background(), auth, suite.price)

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "0xabc", result.TransactionHash)
	assert.Empty(t, result.Error)
}

func (suite *VerifierTestSuite) Test_Verify_RecipientIsCaseInsensitive() {
	t := suite.T()
	auth := validAuthorization()
	auth.To = "0x209693bc6afc0c5328ba36faf03c514ef312287c"

	suite.facilitator.EXPECT().
		Verify(mock.Anything, mock.Anything).
		Return(&application.FacilitatorResponse{TransactionHash: "0xabc"}, nil).
		Once()

	result, err := suite.newVerifier().Verify(context.Background(), auth, suite.price)

	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func (suite *VerifierTestSuite) Test_Verify_AcceptsOverpayment() {
	t := suite.T()
	auth := validAuthorization()
	auth.Value = "20001"

	suite.facilitator.EXPECT().
		Verify(mock.Anything, mock.Anything).
		Return(&application.FacilitatorResponse{TransactionHash: "0xabc"}, nil).
		Once()

	result, err := suite.newVerifier().Verify(context.Background(), auth, suite.price)

	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func (suite *VerifierTestSuite) Test_Verify_TimeWindowIsInclusive() {
	t := suite.T()

	suite.facilitator.EXPECT().
		Verify(mock.Anything, mock.Anything).
		Return(&application.FacilitatorResponse{TransactionHash: "0xabc"}, nil).
		Twice()

	atStart := validAuthorization()
	atStart.ValidAfter = testNow

	atEnd := validAuthorization()
	atEnd.ValidBefore = testNow

	for _, auth := range []*domain.PaymentAuthorization{atStart, atEnd} {
		result, err := suite.newVerifier().Verify(context.Background(), auth, suite.price)

		require.NoError(t, err)
		assert.True(t, result.Valid)
	}
}

// ============================================================================
// LOCAL CHECK FAILURES (no facilitator call expected)
// ============================================================================

func (suite *VerifierTestSuite) Test_Verify_LocalCheckFailures() {
	cases := []struct {
		name    string
		mutate  func(a *domain.PaymentAuthorization)
		code    string
		message string
	}{
		{
			name:    "unsupported scheme",
			mutate:  func(a *domain.PaymentAuthorization) { a.Scheme = "other" },
			code:    domain.ErrCodeUnsupportedScheme,
			message: "scheme",
		},
		{
			name:    "wrong recipient",
			mutate:  func(a *domain.PaymentAuthorization) { a.To = testPayer },
			code:    domain.ErrCodeRecipientMismatch,
			message: "invalid recipient",
		},
		{
			name:    "one unit short",
			mutate:  func(a *domain.PaymentAuthorization) { a.Value = "19999" },
			code:    domain.ErrCodeInsufficientAmount,
			message: "required 20000, paid 19999",
		},
		{
			name:    "non integer value",
			mutate:  func(a *domain.PaymentAuthorization) { a.Value = "0.02" },
			code:    domain.ErrCodeInsufficientAmount,
			message: "invalid payment value",
		},
		{
			name:    "negative value",
			mutate:  func(a *domain.PaymentAuthorization) { a.Value = "-20000" },
			code:    domain.ErrCodeInsufficientAmount,
			message: "invalid payment value",
		},
		{
			name:    "expired one second ago",
			mutate:  func(a *domain.PaymentAuthorization) { a.ValidBefore = testNow - 1 },
			code:    domain.ErrCodeExpiredAuthorization,
			message: "authorization expired or not yet valid",
		},
		{
			name:    "not yet valid",
			mutate:  func(a *domain.PaymentAuthorization) { a.ValidAfter = testNow + 1 },
			code:    domain.ErrCodeExpiredAuthorization,
			message: "authorization expired or not yet valid",
		},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			t := suite.T()
			auth := validAuthorization()
			tc.mutate(auth)

			result, err := suite.newVerifier().Verify(context.Background(), auth, suite.price)

			require.NoError(t, err)
			assert.False(t, result.Valid)
			assert.Empty(t, result.TransactionHash)
			assert.Equal(t, tc.code, result.Code)
			assert.Contains(t, result.Error, tc.message)
		})
	}

	suite.facilitator.AssertNotCalled(suite.T(), "Verify", mock.Anything, mock.Anything)
}

func (suite *VerifierTestSuite) Test_Verify_SchemeCheckedBeforeRecipient() {
	t := suite.T()
	auth := validAuthorization()
	auth.Scheme = "other"
	auth.To = testPayer
	auth.Value = "1"

	result, err := suite.newVerifier().Verify(context.Background(), auth, suite.price)

	require.NoError(t, err)
	assert.Equal(t, domain.ErrCodeUnsupportedScheme, result.Code)
}

// ============================================================================
// FACILITATOR FAILURES
// ============================================================================

func (suite *VerifierTestSuite) Test_Verify_FacilitatorTimeout_Production() {
	t := suite.T()
	suite.cfg.FacilitatorTimeout = 50 * time.Millisecond

	suite.facilitator.EXPECT().
		Verify(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ application.FacilitatorRequest) (*application.FacilitatorResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).
		Once()

	result, err := suite.newVerifier().Verify(context.Background(), validAuthorization(), suite.price)

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "facilitator unavailable", result.Error)
	assert.Equal(t, domain.ErrCodeFacilitatorUnavailable, result.Code)
	assert.Empty(t, result.TransactionHash)
}

func (suite *VerifierTestSuite) Test_Verify_FacilitatorUnreachable_Simulated() {
	t := suite.T()
	suite.cfg.AllowSimulatedSettlement = true

	suite.facilitator.EXPECT().
		Verify(mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused")).
		Once()

	result, err := suite.newVerifier().Verify(context.Background(), validAuthorization(), suite.price)

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, application.SimulatedTransactionHash("0xnonce1"), result.TransactionHash)
	assert.Empty(t, result.Error)
}

func (suite *VerifierTestSuite) Test_Verify_FacilitatorRejection_SurfacedAsIs() {
	t := suite.T()
	suite.cfg.AllowSimulatedSettlement = true

	suite.facilitator.EXPECT().
		Verify(mock.Anything, mock.Anything).
		Return(nil, &application.FacilitatorError{StatusCode: 400, Message: "invalid_authorization_signature"}).
		Once()

	result, err := suite.newVerifier().Verify(context.Background(), validAuthorization(), suite.price)

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "invalid_authorization_signature", result.Error)
	assert.Equal(t, domain.ErrCodeFacilitatorRejected, result.Code)
}

func (suite *VerifierTestSuite) Test_Verify_FacilitatorErrorBodyOn200() {
	t := suite.T()

	suite.facilitator.EXPECT().
		Verify(mock.Anything, mock.Anything).
		Return(&application.FacilitatorResponse{Error: "insufficient_funds"}, nil).
		Once()

	result, err := suite.newVerifier().Verify(context.Background(), validAuthorization(), suite.price)

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "insufficient_funds", result.Error)
}

func (suite *VerifierTestSuite) Test_Verify_Facilitator5xx_IsUnavailable() {
	t := suite.T()

	suite.facilitator.EXPECT().
		Verify(mock.Anything, mock.Anything).
		Return(nil, &application.FacilitatorError{StatusCode: 503, Message: "maintenance"}).
		Once()

	result, err := suite.newVerifier().Verify(context.Background(), validAuthorization(), suite.price)

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, domain.ErrCodeFacilitatorUnavailable, result.Code)
}

func (suite *VerifierTestSuite) Test_Verify_FacilitatorThrottled_IsUnavailable() {
	t := suite.T()

	for _, status := range []int{http.StatusRequestTimeout, http.StatusTooManyRequests} {
		suite.facilitator.EXPECT().
			Verify(mock.Anything, mock.Anything).
			Return(nil, &application.FacilitatorError{StatusCode: status, Message: "slow down"}).
			Once()

		result, err := suite.newVerifier().Verify(context.Background(), validAuthorization(), suite.price)

		require.NoError(t, err)
		assert.False(t, result.Valid, status)
		assert.Equal(t, domain.ErrCodeFacilitatorUnavailable, result.Code, status)
		assert.Equal(t, "facilitator unavailable", result.Error, status)
	}
}

func (suite *VerifierTestSuite) Test_Verify_MissingTransactionHash_IsUnavailable() {
	t := suite.T()

	suite.facilitator.EXPECT().
		Verify(mock.Anything, mock.Anything).
		Return(&application.FacilitatorResponse{}, nil).
		Once()

	result, err := suite.newVerifier().Verify(context.Background(), validAuthorization(), suite.price)

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "facilitator unavailable", result.Error)
}

// ============================================================================
// REPLAY PROTECTION AND EVENTS
// ============================================================================

func (suite *VerifierTestSuite) Test_Verify_ReservesNonceBeforeSettlement() {
	t := suite.T()
	auth := validAuthorization()
	nonces := mocks.NewMockNonceStore(t)

	nonces.EXPECT().
		Reserve(mock.Anything, "0x857b06519e91e3a54538791bdbb0e22373e36b66", "0xnonce1", time.Unix(auth.ValidBefore, 0)).
		Return(nil).
		Once()
	suite.facilitator.EXPECT().
		Verify(mock.Anything, mock.Anything).
		Return(&application.FacilitatorResponse{TransactionHash: "0xabc"}, nil).
		Once()

	result, err := suite.newVerifier(application.WithNonceStore(nonces)).Verify(context.Background(), auth, suite.price)

	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func (suite *VerifierTestSuite) Test_Verify_ReplayedNonce() {
	t := suite.T()
	nonces := mocks.NewMockNonceStore(t)

	nonces.EXPECT().
		Reserve(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(domain.ErrNonceReused).
		Once()

	result, err := suite.newVerifier(application.WithNonceStore(nonces)).Verify(context.Background(), validAuthorization(), suite.price)

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, domain.ErrCodeReplayedAuthorization, result.Code)
	suite.facilitator.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func (suite *VerifierTestSuite) Test_Verify_ReplayedNonce_IgnoresHexCase() {
	t := suite.T()
	nonces := mocks.NewMockNonceStore(t)

	upper := validAuthorization()
	upper.Nonce = "0xABCDEF"
	upper.From = "0x857B06519E91E3A54538791BDBB0E22373E36B66"

	nonces.EXPECT().
		Reserve(mock.Anything, "0x857b06519e91e3a54538791bdbb0e22373e36b66", "0xabcdef", time.Unix(upper.ValidBefore, 0)).
		Return(domain.ErrNonceReused).
		Once()

	result, err := suite.newVerifier(application.WithNonceStore(nonces)).Verify(context.Background(), upper, suite.price)

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, domain.ErrCodeReplayedAuthorization, result.Code)
	suite.facilitator.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func (suite *VerifierTestSuite) Test_Verify_NonceStoreFailureIsInternal() {
	t := suite.T()
	nonces := mocks.NewMockNonceStore(t)

	nonces.EXPECT().
		Reserve(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("redis: connection pool timeout")).
		Once()

	_, err := suite.newVerifier(application.WithNonceStore(nonces)).Verify(context.Background(), validAuthorization(), suite.price)

	require.Error(t, err)
	assert.Equal(t, 500, application.ToHTTPStatus(err))
}

func (suite *VerifierTestSuite) Test_Verify_PublishesSettlement() {
	t := suite.T()
	publisher := mocks.NewMockSettlementPublisher(t)
	auth := validAuthorization()
	auth.Value = "25000"

	suite.facilitator.EXPECT().
		Verify(mock.Anything, mock.Anything).
		Return(&application.FacilitatorResponse{TransactionHash: "0xabc"}, nil).
		Once()
	publisher.EXPECT().
		PublishSettlement(mock.Anything, mock.MatchedBy(func(e application.SettlementEvent) bool {
			return e.TransactionHash == "0xabc" &&
				e.Amount == "20000" &&
				e.Paid == "25000" &&
				e.Payer == testPayer &&
				!e.Simulated
		})).
		Return(errors.New("broker down")).
		Once()

	result, err := suite.newVerifier(application.WithSettlementPublisher(publisher)).Verify(context.Background(), auth, suite.price)

	require.NoError(t, err)
	assert.True(t, result.Valid, "publish failures must not fail a settled payment")
}

func TestNewVerifierConfig(t *testing.T) {
	cfg := application.NewVerifierConfig(
		config.PaymentConfig{PayTo: testPayTo, Network: "base", Asset: testAsset, MaxTimeoutSeconds: 60},
		config.FacilitatorConfig{Timeout: 10 * time.Second, SimulateSettlement: true},
	)

	assert.Equal(t, domain.SchemeExact, cfg.Scheme)
	assert.Equal(t, 10*time.Second, cfg.FacilitatorTimeout)
	assert.True(t, cfg.AllowSimulatedSettlement)

	cfg = application.NewVerifierConfig(
		config.PaymentConfig{MaxTimeoutSeconds: 5},
		config.FacilitatorConfig{Timeout: 30 * time.Second},
	)
	assert.Equal(t, 5*time.Second, cfg.FacilitatorTimeout)
}
