//go:build !integration

package usecase

import (
	"context"
	"errors"
	"testing"

	"umrah-booking-platform/internal/domain"
	"umrah-booking-platform/internal/domain/model"
	"umrah-booking-platform/internal/domain/ports/adapter"
	"umrah-booking-platform/internal/domain/ports/repository"
)

func newCheckoutDeps(t *testing.T) (*verifyDeps, *checkoutUC) {
	t.Helper()
	deps := newVerifyDeps()
	uc := NewCheckoutUseCase(
		deps.bookings, deps.payments, deps.packages, deps.agents, deps.activity, deps.users,
		deps.gateway, "https://app.example.com/payment/callback", "IDR", newTestLogger(),
	)
	return deps, uc
}

func TestCheckoutStart(t *testing.T) {
	ctx := context.Background()
	owner := Identity{UserID: "user-1", Role: model.RolePilgrim}

	t.Run("should create a pending payment and return the gateway URL", func(t *testing.T) {
		deps, uc := newCheckoutDeps(t)
		deps.seed(t, 250_000, 250_000)

		var gotMeta adapter.TransactionMetadata
		var gotAmount int64
		deps.gateway.InitializeFunc = func(ctx context.Context, amount int64, email, callbackURL string, meta adapter.TransactionMetadata) (string, string, error) {
			gotMeta = meta
			gotAmount = amount
			return "ref-new", "https://gateway.test/pay/ref-new", nil
		}

		p, url, err := uc.Start(ctx, owner, "bk-1")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if url != "https://gateway.test/pay/ref-new" {
			t.Errorf("unexpected authorization URL: %s", url)
		}
		if p.Status != model.PaymentStatusPending {
			t.Errorf("expected pending payment, got %s", p.Status)
		}
		if p.Reference != "ref-new" {
			t.Errorf("expected gateway reference on payment, got %q", p.Reference)
		}
		if gotAmount != 250_000 {
			t.Errorf("expected server-computed amount 250000, gateway saw %d", gotAmount)
		}
		if gotMeta.BookingID != "bk-1" {
			t.Errorf("expected booking id in transaction metadata, got %q", gotMeta.BookingID)
		}
		if n := deps.activity.countKind("bk-1", model.ActivityCheckoutStarted); n != 1 {
			t.Errorf("expected a checkout activity entry, got %d", n)
		}
	})

	t.Run("should refuse checkout on a non-pending booking", func(t *testing.T) {
		deps, uc := newCheckoutDeps(t)
		booking := deps.seed(t, 250_000, 250_000)
		booking.Status = model.BookingStatusConfirmed
		if err := deps.bookings.Save(ctx, repository.NoTX, booking); err != nil {
			t.Fatalf("update booking: %v", err)
		}

		_, _, err := uc.Start(ctx, owner, "bk-1")
		if !errors.Is(err, domain.ErrBookingNotPending) {
			t.Fatalf("expected ErrBookingNotPending, got %v", err)
		}
	})

	t.Run("should deny a stranger", func(t *testing.T) {
		deps, uc := newCheckoutDeps(t)
		deps.seed(t, 250_000, 250_000)

		_, _, err := uc.Start(ctx, Identity{UserID: "user-2", Role: model.RolePilgrim}, "bk-1")
		if !errors.Is(err, domain.ErrAccessDenied) {
			t.Fatalf("expected ErrAccessDenied, got %v", err)
		}
	})

	t.Run("should not persist a payment when the gateway rejects initialization", func(t *testing.T) {
		deps, uc := newCheckoutDeps(t)
		deps.seed(t, 250_000, 250_000)
		deps.gateway.InitializeFunc = func(ctx context.Context, amount int64, email, callbackURL string, meta adapter.TransactionMetadata) (string, string, error) {
			return "", "", errors.New("gateway 503")
		}

		_, _, err := uc.Start(ctx, owner, "bk-1")
		if err == nil {
			t.Fatal("expected an error, but got nil")
		}
		// Only the seeded pending row should exist.
		if _, err := deps.payments.FindByReference(ctx, repository.NoTX, "ref-new"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected no payment row for failed init")
		}
	})

	t.Run("should charge the discounted amount for agent bookings", func(t *testing.T) {
		deps, uc := newCheckoutDeps(t)
		booking := deps.seed(t, 1_000_000, 1_000_000)
		agent, err := model.NewAgent("agent-1", "user-agent", "Al-Safar Travel", model.CommissionPercentage, 10)
		if err != nil {
			t.Fatalf("seed agent: %v", err)
		}
		if err := deps.agents.Save(ctx, repository.NoTX, agent); err != nil {
			t.Fatalf("save agent: %v", err)
		}
		agentID := "agent-1"
		booking.AgentID = &agentID
		if err := deps.bookings.Save(ctx, repository.NoTX, booking); err != nil {
			t.Fatalf("update booking: %v", err)
		}

		var gotAmount int64
		deps.gateway.InitializeFunc = func(ctx context.Context, amount int64, email, callbackURL string, meta adapter.TransactionMetadata) (string, string, error) {
			gotAmount = amount
			return "ref-agent", "https://gateway.test/pay/ref-agent", nil
		}
		if _, _, err := uc.Start(ctx, owner, "bk-1"); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if gotAmount != 900_000 {
			t.Errorf("expected discounted amount 900000, got %d", gotAmount)
		}
	})
}
