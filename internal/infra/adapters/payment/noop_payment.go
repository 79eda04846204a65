package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"umrah-booking-platform/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopPaymentGateway)(nil)

// NoopPaymentGateway is a simple in-memory gateway to use in tests and local
// development. Every initialized transaction settles immediately.
type NoopPaymentGateway struct {
	mu      sync.Mutex
	seq     int64
	intents map[string]*adapter.GatewayTransaction // reference -> settled transaction
}

func NewNoopPaymentGateway() *NoopPaymentGateway {
	return &NoopPaymentGateway{
		intents: make(map[string]*adapter.GatewayTransaction),
	}
}

func (g *NoopPaymentGateway) Name() string { return "noop" }

func (g *NoopPaymentGateway) next() string {
	g.seq++
	return fmt.Sprintf("noop-%d", g.seq)
}

func (g *NoopPaymentGateway) InitializeTransaction(ctx context.Context, amount int64, email, callbackURL string, meta adapter.TransactionMetadata) (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	reference := g.next()
	g.intents[reference] = &adapter.GatewayTransaction{
		Reference: reference,
		Status:    "success",
		Amount:    amount,
		Currency:  "NGN",
		Channel:   "noop",
		PaidAt:    time.Now(),
		Metadata:  meta,
	}
	return reference, "https://example.test/pay/" + reference, nil
}

func (g *NoopPaymentGateway) LookupTransaction(ctx context.Context, reference string) (*adapter.GatewayTransaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	tx, ok := g.intents[reference]
	if !ok {
		return nil, fmt.Errorf("noop: reference not found")
	}
	cp := *tx
	return &cp, nil
}
