package facilitator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DanielPopoola/x402-gateway/internal/application"
	"github.com/DanielPopoola/x402-gateway/internal/config"
	"github.com/DanielPopoola/x402-gateway/internal/domain"
	"github.com/DanielPopoola/x402-gateway/internal/infrastructure/facilitator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() application.FacilitatorRequest {
	return application.FacilitatorRequest{
		Payment: domain.PaymentAuthorization{
			Scheme:      "exact",
			Signature:   "0xsig",
			From:        "0xpayer",
			To:          "0xpayee",
			Value:       "20000",
			ValidAfter:  1,
			ValidBefore: 2,
			Nonce:       "0xnonce",
		},
		Network: "base-sepolia",
		Asset:   "0xasset",
	}
}

func newClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) application.Facilitator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return facilitator.NewFacilitatorClient(config.FacilitatorConfig{
		URL:     server.URL + "/",
		Timeout: timeout,
	})
}

func TestFacilitatorClient_Verify_Success(t *testing.T) {
	var received application.FacilitatorRequest

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/verify", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"transactionHash":"0xabc"}`))
	}, time.Second)

	resp, err := client.Verify(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, "0xabc", resp.TransactionHash)
	assert.Equal(t, testRequest(), received)
}

func TestFacilitatorClient_Verify_Rejection(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid signature"}`))
	}, time.Second)

	_, err := client.Verify(context.Background(), testRequest())

	facErr, ok := application.IsFacilitatorError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, facErr.StatusCode)
	assert.Equal(t, "invalid signature", facErr.Message)
	assert.True(t, facErr.IsRejection())
}

func TestFacilitatorClient_Verify_InvalidReasonBody(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"isValid":false,"invalidReason":"insufficient_funds"}`))
	}, time.Second)

	_, err := client.Verify(context.Background(), testRequest())

	facErr, ok := application.IsFacilitatorError(err)
	require.True(t, ok)
	assert.Equal(t, "insufficient_funds", facErr.Message)
}

func TestFacilitatorClient_Verify_ServerErrorIsNotRejection(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}, time.Second)

	_, err := client.Verify(context.Background(), testRequest())

	require.Error(t, err)
	_, ok := application.IsFacilitatorError(err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "502")
}

func TestFacilitatorClient_Verify_MalformedSuccessBody(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}, time.Second)

	_, err := client.Verify(context.Background(), testRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
}

func TestFacilitatorClient_Verify_HonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 10*time.Second)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Verify(ctx, testRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFacilitatorClient_Verify_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := facilitator.NewFacilitatorClient(config.FacilitatorConfig{URL: url, Timeout: time.Second})

	_, err := client.Verify(context.Background(), testRequest())

	require.Error(t, err)
	_, ok := application.IsFacilitatorError(err)
	assert.False(t, ok)
}
