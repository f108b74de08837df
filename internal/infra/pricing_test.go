package infra

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateCardPricer_Multipliers(t *testing.T) {
	p := &RateCardPricer{RatePerKm: decimal.RequireFromString("1.75")}
	distance := decimal.RequireFromString("100")

	cases := []struct {
		priority string
		want     string
	}{
		{"low", "157.50"},
		{"normal", "175.00"},
		{"high", "218.75"},
		{"urgent", "262.50"},
		{"unknown", "175.00"}, // unrecognized priorities price as normal
	}
	for _, tc := range cases {
		amount, err := p.Quote(context.Background(), distance, tc.priority)
		require.NoError(t, err)
		assert.Equal(t, tc.want, amount.StringFixed(2), "priority %s", tc.priority)
	}
}

func TestPricingClient_Quote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		var payload QuotePayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, 320.0, payload.DistanceKm)
		assert.Equal(t, "high", payload.Priority)
		json.NewEncoder(w).Encode(QuoteResponse{Amount: "700.00", Currency: "ARS"})
	}))
	defer srv.Close()

	c := NewPricingClient(srv.URL)
	amount, err := c.Quote(context.Background(), decimal.RequireFromString("320"), "high")
	require.NoError(t, err)
	assert.Equal(t, "700.00", amount.StringFixed(2))
}

func TestPricingClient_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewPricingClient(srv.URL)
	_, err := c.Quote(context.Background(), decimal.NewFromInt(10), "normal")
	assert.Error(t, err)
}

type failingPricer struct{ calls int }

func (p *failingPricer) Quote(context.Context, decimal.Decimal, string) (decimal.Decimal, error) {
	p.calls++
	return decimal.Zero, errors.New("connection refused")
}

func TestFallbackPricer_LocalRateCardOnRemoteFailure(t *testing.T) {
	remote := &failingPricer{}
	p := NewFallbackPricer(remote, decimal.RequireFromString("2.00"), NewCircuitBreaker(DefaultCBConfig()))

	amount, err := p.Quote(context.Background(), decimal.RequireFromString("50"), "normal")
	require.NoError(t, err)
	assert.Equal(t, "100.00", amount.StringFixed(2))
}

func TestFallbackPricer_BreakerStopsHammeringRemote(t *testing.T) {
	remote := &failingPricer{}
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Hour})
	p := NewFallbackPricer(remote, decimal.RequireFromString("2.00"), cb)

	for i := 0; i < 10; i++ {
		amount, err := p.Quote(context.Background(), decimal.RequireFromString("50"), "normal")
		require.NoError(t, err)
		assert.Equal(t, "100.00", amount.StringFixed(2))
	}

	// after three failures the breaker is open and the remote is left alone
	assert.Equal(t, 3, remote.calls)
	assert.Equal(t, CBOpen, cb.State())
}
