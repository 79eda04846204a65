package adapter

import (
	"context"
	"time"
)

// TransactionMetadata is the piece of checkout-time state the gateway echoes
// back on lookup. The booking id is established when the transaction is
// initialized; its absence on a settled transaction is a checkout bug, not a
// user-correctable condition.
type TransactionMetadata struct {
	BookingID string
}

// GatewayTransaction is the provider-agnostic view of a transaction as the
// gateway reports it. Amount is in minor currency units.
type GatewayTransaction struct {
	Reference string
	Status    string // "success" is the only settled state; anything else is a decline
	Amount    int64
	Currency  string
	Channel   string
	PaidAt    time.Time
	Metadata  TransactionMetadata
}

func (t *GatewayTransaction) Settled() bool { return t != nil && t.Status == "success" }

// PaymentGateway is the hex port for payment providers.
type PaymentGateway interface {
	Name() string

	// InitializeTransaction opens a checkout session for the given amount and
	// customer, attaching the booking id as transaction metadata. It returns
	// the gateway reference and the URL the customer is redirected to.
	InitializeTransaction(ctx context.Context, amount int64, email, callbackURL string, meta TransactionMetadata) (reference, authorizationURL string, err error)

	// LookupTransaction fetches the authoritative state of a transaction by
	// reference. Network faults and non-2xx responses surface as errors; a
	// reachable gateway reporting a failed transaction is NOT an error here,
	// it is a GatewayTransaction whose Settled() is false.
	LookupTransaction(ctx context.Context, reference string) (*GatewayTransaction, error)
}
