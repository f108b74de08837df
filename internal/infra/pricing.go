package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Pricer quotes the amount to invoice for a completed transport request.
type Pricer interface {
	Quote(ctx context.Context, distanceKm decimal.Decimal, priority string) (decimal.Decimal, error)
}

// QuotePayload is sent to the external pricing sidecar.
type QuotePayload struct {
	DistanceKm float64 `json:"distance_km"`
	Priority   string  `json:"priority"`
}

// QuoteResponse is returned by the pricing sidecar.
type QuoteResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// PricingClient talks to the pricing sidecar over HTTP.
type PricingClient struct {
	baseURL string
	client  *http.Client
}

func NewPricingClient(baseURL string) *PricingClient {
	return &PricingClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *PricingClient) Quote(ctx context.Context, distanceKm decimal.Decimal, priority string) (decimal.Decimal, error) {
	payload := QuotePayload{
		DistanceKm: distanceKm.InexactFloat64(),
		Priority:   priority,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return decimal.Zero, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/quote", bytes.NewReader(body))
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("pricing sidecar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("pricing sidecar: status %d", resp.StatusCode)
	}

	var qr QuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return decimal.Zero, fmt.Errorf("pricing sidecar: decode: %w", err)
	}
	amount, err := decimal.NewFromString(qr.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("pricing sidecar: bad amount %q: %w", qr.Amount, err)
	}
	return amount, nil
}

// RateCardPricer computes a local quote: rate per km times distance, scaled by
// a priority multiplier. It never fails and serves as the fallback when the
// sidecar is unreachable.
type RateCardPricer struct {
	RatePerKm decimal.Decimal
}

var priorityMultipliers = map[string]decimal.Decimal{
	"low":    decimal.NewFromFloat(0.90),
	"normal": decimal.NewFromInt(1),
	"high":   decimal.NewFromFloat(1.25),
	"urgent": decimal.NewFromFloat(1.50),
}

func (p *RateCardPricer) Quote(_ context.Context, distanceKm decimal.Decimal, priority string) (decimal.Decimal, error) {
	mult, ok := priorityMultipliers[priority]
	if !ok {
		mult = decimal.NewFromInt(1)
	}
	return p.RatePerKm.Mul(distanceKm).Mul(mult).Round(2), nil
}

// FallbackPricer routes quotes through the sidecar behind a circuit breaker
// and falls back to the local rate card when the breaker is open or the call
// fails. The amount is therefore always computable.
type FallbackPricer struct {
	Remote Pricer
	Local  *RateCardPricer
	CB     *CircuitBreaker
}

func NewFallbackPricer(remote Pricer, ratePerKm decimal.Decimal, cb *CircuitBreaker) *FallbackPricer {
	return &FallbackPricer{
		Remote: remote,
		Local:  &RateCardPricer{RatePerKm: ratePerKm},
		CB:     cb,
	}
}

func (p *FallbackPricer) Quote(ctx context.Context, distanceKm decimal.Decimal, priority string) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := p.CB.Execute(func() error {
		var qerr error
		amount, qerr = p.Remote.Quote(ctx, distanceKm, priority)
		return qerr
	})
	if err != nil {
		return p.Local.Quote(ctx, distanceKm, priority)
	}
	return amount, nil
}
