package notify

import (
	"context"
	"sync"

	"umrah-booking-platform/internal/domain/ports/adapter"
)

var _ adapter.ReceiptNotifier = (*NoopNotifier)(nil)

// NoopNotifier swallows receipts. Used when no notification endpoint is
// configured.
type NoopNotifier struct {
	mu   sync.Mutex
	sent []adapter.Receipt
}

func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (n *NoopNotifier) SendReceipt(ctx context.Context, r adapter.Receipt) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, r)
	return nil
}
