// File: internal/infra/adapters/payment/paystack_gateway.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"umrah-booking-platform/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*PaystackGateway)(nil)

// PaystackGateway implements adapter.PaymentGateway against the Paystack
// REST API. Amounts are passed through in minor units (kobo), which is also
// what Paystack expects.
type PaystackGateway struct {
	secretKey string
	baseURL   string
	callback  string
	client    *http.Client
}

func NewPaystackGateway(secretKey, baseURL, callbackURL string, timeout time.Duration) (*PaystackGateway, error) {
	if secretKey == "" {
		return nil, errors.New("paystack secret key empty")
	}
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	if _, err := url.Parse(callbackURL); err != nil {
		return nil, fmt.Errorf("invalid callback url: %w", err)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PaystackGateway{
		secretKey: secretKey,
		baseURL:   baseURL,
		callback:  callbackURL,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

func (g *PaystackGateway) Name() string { return "paystack" }

type paystackMetadata struct {
	BookingID string `json:"booking_id"`
}

// InitializeTransaction calls POST /transaction/initialize and returns
// (reference, authorization_url).
func (g *PaystackGateway) InitializeTransaction(ctx context.Context, amount int64, email, callbackURL string, meta adapter.TransactionMetadata) (string, string, error) {
	if callbackURL == "" {
		callbackURL = g.callback
	}
	payload := map[string]any{
		"email":        email,
		"amount":       amount,
		"callback_url": callbackURL,
		"metadata":     paystackMetadata{BookingID: meta.BookingID},
	}
	b, _ := json.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transaction/initialize", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	resp, err := g.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	var out struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", err
	}
	if !out.Status || out.Data.Reference == "" {
		return "", "", fmt.Errorf("paystack initialize failed: %s", out.Message)
	}
	return out.Data.Reference, out.Data.AuthorizationURL, nil
}

// LookupTransaction calls GET /transaction/verify/:reference. A reachable
// gateway reporting an abandoned or failed transaction is a valid response,
// not an error; the caller inspects Settled().
func (g *PaystackGateway) LookupTransaction(ctx context.Context, reference string) (*adapter.GatewayTransaction, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/transaction/verify/"+url.PathEscape(reference), nil)
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paystack verify: unexpected status %d", resp.StatusCode)
	}
	var out struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Reference string           `json:"reference"`
			Status    string           `json:"status"`
			Amount    int64            `json:"amount"`
			Currency  string           `json:"currency"`
			Channel   string           `json:"channel"`
			PaidAt    time.Time        `json:"paid_at"`
			Metadata  paystackMetadata `json:"metadata"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if !out.Status {
		return nil, fmt.Errorf("paystack verify failed: %s", out.Message)
	}
	return &adapter.GatewayTransaction{
		Reference: out.Data.Reference,
		Status:    out.Data.Status,
		Amount:    out.Data.Amount,
		Currency:  out.Data.Currency,
		Channel:   out.Data.Channel,
		PaidAt:    out.Data.PaidAt,
		Metadata:  adapter.TransactionMetadata{BookingID: out.Data.Metadata.BookingID},
	}, nil
}
