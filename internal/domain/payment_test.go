package domain_test

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/DanielPopoola/x402-gateway/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSmallestUnit(t *testing.T) {
	cases := map[string]int64{
		"0.02":       20000,
		"1":          1000000,
		"0":          0,
		"0.000001":   1,
		"0.0000019":  1,
		"0.0000001":  0,
		"12.3456789": 12345678,
		"0.1":        100000,
	}

	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			d, err := decimal.NewFromString(in)
			require.NoError(t, err)

			assert.Equal(t, want, domain.ToSmallestUnit(d))
		})
	}
}

func TestToSmallestUnit_NeverRoundsUp(t *testing.T) {
	for _, in := range []string{"0.0199999", "0.0000009", "5.9999999999"} {
		d := decimal.RequireFromString(in)
		scaled := d.Shift(domain.USDCDecimals)

		got := decimal.NewFromInt(domain.ToSmallestUnit(d))

		assert.True(t, got.LessThanOrEqual(scaled), "%s converted to %s", in, got)
	}
}

func TestNewPrice(t *testing.T) {
	t.Run("parses decimal amount", func(t *testing.T) {
		p, err := domain.NewPrice("0.02")

		require.NoError(t, err)
		assert.Equal(t, int64(20000), p.SmallestUnit())
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := domain.NewPrice("-0.01")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "price cannot be negative")
	})

	t.Run("accepts largest representable amount", func(t *testing.T) {
		p, err := domain.NewPrice("9223372036854.775807")

		require.NoError(t, err)
		assert.Equal(t, int64(math.MaxInt64), p.SmallestUnit())
	})

	t.Run("rejects amount beyond smallest unit range", func(t *testing.T) {
		_, err := domain.NewPrice("10000000000000")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "price too large")
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := domain.NewPrice("two cents")

		assert.Error(t, err)
	})
}

func TestVerificationResult(t *testing.T) {
	t.Run("verified carries hash and no error", func(t *testing.T) {
		r := domain.Verified("0xabc")

		assert.True(t, r.Valid)
		assert.Equal(t, "0xabc", r.TransactionHash)
		assert.Empty(t, r.Error)
		assert.NoError(t, r.Err())
	})

	t.Run("rejected carries error and no hash", func(t *testing.T) {
		r := domain.Rejected(domain.NewRecipientMismatchError())

		assert.False(t, r.Valid)
		assert.Empty(t, r.TransactionHash)
		assert.Equal(t, "invalid recipient", r.Error)
		assert.True(t, domain.IsErrorCode(r.Err(), domain.ErrCodeRecipientMismatch))
	})
}

func TestPaymentContext(t *testing.T) {
	ctx := context.Background()

	_, ok := domain.PaymentFromContext(ctx)
	assert.False(t, ok)

	ctx = domain.WithPaymentContext(ctx, domain.PaymentContext{Verified: true, Amount: "20000"})

	pc, ok := domain.PaymentFromContext(ctx)
	require.True(t, ok)
	assert.True(t, pc.Verified)
	assert.Equal(t, "20000", pc.Amount)
}

func TestUnixSeconds_UnmarshalJSON(t *testing.T) {
	var v struct {
		A *domain.UnixSeconds `json:"a"`
		B *domain.UnixSeconds `json:"b"`
	}

	err := json.Unmarshal([]byte(`{"a": 1700000000, "b": "1700000600"}`), &v)

	require.NoError(t, err)
	assert.Equal(t, domain.UnixSeconds(1700000000), *v.A)
	assert.Equal(t, domain.UnixSeconds(1700000600), *v.B)

	err = json.Unmarshal([]byte(`{"a": "soon"}`), &v)
	assert.Error(t, err)
}
