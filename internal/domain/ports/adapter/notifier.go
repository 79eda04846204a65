package adapter

import "context"

// Receipt carries what the downstream notification handler needs to render
// a payment receipt for the pilgrim.
type Receipt struct {
	BookingID string
	Email     string
	Reference string
	Method    string
	Amount    int64
	Currency  string
}

// ReceiptNotifier delivers a receipt after a confirmed payment. Delivery is
// fire-and-forget: implementations report errors for logging and metrics,
// but no caller lets a notifier failure affect the verification outcome.
type ReceiptNotifier interface {
	SendReceipt(ctx context.Context, r Receipt) error
}
