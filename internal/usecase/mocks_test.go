//go:build !integration

package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"umrah-booking-platform/internal/domain"
	"umrah-booking-platform/internal/domain/model"
	"umrah-booking-platform/internal/domain/ports/adapter"
	"umrah-booking-platform/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memBookingRepo is a small in-memory implementation used by unit tests.
type memBookingRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Booking
	saveErr error
	findErr error
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{store: make(map[string]*model.Booking)}
}

func (m *memBookingRepo) Save(ctx context.Context, tx repository.Tx, b *model.Booking) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.store[b.ID] = &cp
	return nil
}

func (m *memBookingRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Booking, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBookingRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Booking
	for _, b := range m.store {
		if b.UserID == userID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memBookingRepo) ConfirmIfPending(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if b.Status == model.BookingStatusConfirmed {
		return false, nil
	}
	if b.Status != model.BookingStatusPending {
		return false, nil
	}
	b.Status = model.BookingStatusConfirmed
	b.UpdatedAt = time.Now()
	return true, nil
}

func (m *memBookingRepo) CancelIfPending(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if b.Status != model.BookingStatusPending {
		return false, nil
	}
	b.Status = model.BookingStatusCancelled
	b.UpdatedAt = time.Now()
	return true, nil
}

// memPaymentRepo mirrors the conditional-update semantics of the Postgres
// implementation so race tests can pre-seed verified rows.
type memPaymentRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Payment // by ID
	saveErr error
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{store: make(map[string]*model.Payment)}
}

func (m *memPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPaymentRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		if p.Reference == reference {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPaymentRepo) FindVerified(ctx context.Context, tx repository.Tx, bookingID, method string) (*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		if p.BookingID == bookingID && p.Method == method && p.Status == model.PaymentStatusVerified {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPaymentRepo) MarkVerifiedIfPending(ctx context.Context, tx repository.Tx, bookingID, method, reference string, verifiedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.store {
		if p.BookingID == bookingID && p.Method == method && p.Status == model.PaymentStatusPending {
			p.Status = model.PaymentStatusVerified
			p.Reference = reference
			vt := verifiedAt
			p.VerifiedAt = &vt
			p.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (m *memPaymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Payment
	for _, p := range m.store {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *memPaymentRepo) SumVerifiedByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for _, p := range m.store {
		if p.Status == model.PaymentStatusVerified {
			sum += p.Amount
		}
	}
	return sum, nil
}

// countVerified is a test helper: how many rows for a booking ever reached
// verified status.
func (m *memPaymentRepo) countVerified(bookingID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, p := range m.store {
		if p.BookingID == bookingID && p.Status == model.PaymentStatusVerified {
			n++
		}
	}
	return n
}

type memPackageRepo struct {
	mu    sync.RWMutex
	store map[string]*model.TravelPackage
}

func newMemPackageRepo() *memPackageRepo {
	return &memPackageRepo{store: make(map[string]*model.TravelPackage)}
}

func (m *memPackageRepo) Save(ctx context.Context, tx repository.Tx, p *model.TravelPackage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPackageRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.TravelPackage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPackageRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.TravelPackage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.TravelPackage
	for _, p := range m.store {
		if p.Active {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memAgentRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Agent
}

func newMemAgentRepo() *memAgentRepo {
	return &memAgentRepo{store: make(map[string]*model.Agent)}
}

func (m *memAgentRepo) Save(ctx context.Context, tx repository.Tx, a *model.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.store[a.ID] = &cp
	return nil
}

func (m *memAgentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAgentRepo) FindByUserID(ctx context.Context, tx repository.Tx, userID string) (*model.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.store {
		if a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memActivityRepo struct {
	mu        sync.RWMutex
	entries   []*model.ActivityEntry
	recordErr error
}

func newMemActivityRepo() *memActivityRepo { return &memActivityRepo{} }

func (m *memActivityRepo) Record(ctx context.Context, tx repository.Tx, e *model.ActivityEntry) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *memActivityRepo) ListByBooking(ctx context.Context, tx repository.Tx, bookingID string, limit int) ([]*model.ActivityEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.ActivityEntry
	for _, e := range m.entries {
		if e.BookingID == bookingID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memActivityRepo) countKind(bookingID string, kind model.ActivityKind) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, e := range m.entries {
		if e.BookingID == bookingID && e.Kind == kind {
			n++
		}
	}
	return n
}

type memUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[string]*model.User)}
}

func (m *memUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockGateway lets each test script the gateway's answers.
type mockGateway struct {
	LookupFunc     func(ctx context.Context, reference string) (*adapter.GatewayTransaction, error)
	InitializeFunc func(ctx context.Context, amount int64, email, callbackURL string, meta adapter.TransactionMetadata) (string, string, error)
	lookupCalls    int
}

func (g *mockGateway) Name() string { return "paystack" }

func (g *mockGateway) LookupTransaction(ctx context.Context, reference string) (*adapter.GatewayTransaction, error) {
	g.lookupCalls++
	if g.LookupFunc != nil {
		return g.LookupFunc(ctx, reference)
	}
	return nil, domain.ErrNotFound
}

func (g *mockGateway) InitializeTransaction(ctx context.Context, amount int64, email, callbackURL string, meta adapter.TransactionMetadata) (string, string, error) {
	if g.InitializeFunc != nil {
		return g.InitializeFunc(ctx, amount, email, callbackURL, meta)
	}
	return "ref-mock", "https://gateway.test/pay/ref-mock", nil
}

type mockNotifier struct {
	mu       sync.Mutex
	sendErr  error
	receipts []adapter.Receipt
}

func (n *mockNotifier) SendReceipt(ctx context.Context, r adapter.Receipt) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sendErr != nil {
		return n.sendErr
	}
	n.receipts = append(n.receipts, r)
	return nil
}

func (n *mockNotifier) sent() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.receipts)
}

// inlineTaskQueue runs submitted tasks synchronously so tests can observe
// notification side effects without goroutine coordination.
type inlineTaskQueue struct {
	submitErr error
	submitted int
}

func (q *inlineTaskQueue) Submit(task func(ctx context.Context) error) error {
	if q.submitErr != nil {
		return q.submitErr
	}
	q.submitted++
	_ = task(context.Background())
	return nil
}
