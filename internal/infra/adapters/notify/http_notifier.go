// File: internal/infra/adapters/notify/http_notifier.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"umrah-booking-platform/internal/domain/ports/adapter"
)

var _ adapter.ReceiptNotifier = (*HTTPNotifier)(nil)

// HTTPNotifier posts receipts to a downstream notification service (the one
// that renders and emails them). Delivery is best-effort; callers only log
// the returned error.
type HTTPNotifier struct {
	endpoint string
	client   *http.Client
}

func NewHTTPNotifier(endpoint string, timeout time.Duration) (*HTTPNotifier, error) {
	if endpoint == "" {
		return nil, errors.New("notifier endpoint empty")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

func (n *HTTPNotifier) SendReceipt(ctx context.Context, r adapter.Receipt) error {
	payload := map[string]any{
		"booking_id": r.BookingID,
		"email":      r.Email,
		"reference":  r.Reference,
		"method":     r.Method,
		"amount":     r.Amount,
		"currency":   r.Currency,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notifier: unexpected status %d", resp.StatusCode)
	}
	return nil
}
