//go:build !integration

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"umrah-booking-platform/internal/domain"
	"umrah-booking-platform/internal/domain/model"
	"umrah-booking-platform/internal/domain/ports/repository"
)

func newBookingDeps(t *testing.T) (*verifyDeps, *bookingUC) {
	t.Helper()
	deps := newVerifyDeps()
	uc := NewBookingUseCase(deps.bookings, deps.packages, deps.agents, deps.activity, newTestLogger())
	return deps, uc
}

func seedPackage(t *testing.T, deps *verifyDeps, price, agentDiscount int64) {
	t.Helper()
	pkg, err := model.NewTravelPackage("pkg-1", "Hajj Plus 26D", model.SeasonHajj, price, agentDiscount, 20, time.Now().AddDate(1, 0, 0))
	if err != nil {
		t.Fatalf("seed package: %v", err)
	}
	if err := deps.packages.Save(context.Background(), repository.NoTX, pkg); err != nil {
		t.Fatalf("save package: %v", err)
	}
}

func TestBookingUseCase(t *testing.T) {
	ctx := context.Background()
	pilgrim := Identity{UserID: "user-1", Role: model.RolePilgrim}

	t.Run("should create a pending booking with a price snapshot", func(t *testing.T) {
		deps, uc := newBookingDeps(t)
		seedPackage(t, deps, 550_000, 0)

		b, err := uc.Create(ctx, pilgrim, "pkg-1", nil, 2)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if b.Status != model.BookingStatusPending {
			t.Errorf("expected pending, got %s", b.Status)
		}
		if b.Total != 550_000 {
			t.Errorf("expected snapshot 550000, got %d", b.Total)
		}
		if n := deps.activity.countKind(b.ID, model.ActivityBookingCreated); n != 1 {
			t.Errorf("expected creation activity, got %d", n)
		}
	})

	t.Run("should snapshot the agent-discounted price", func(t *testing.T) {
		deps, uc := newBookingDeps(t)
		seedPackage(t, deps, 1_000_000, 0)
		agent, err := model.NewAgent("agent-1", "user-agent", "Madinah Tours", model.CommissionFixed, 150_000)
		if err != nil {
			t.Fatalf("seed agent: %v", err)
		}
		if err := deps.agents.Save(ctx, repository.NoTX, agent); err != nil {
			t.Fatalf("save agent: %v", err)
		}

		agentID := "agent-1"
		b, err := uc.Create(ctx, pilgrim, "pkg-1", &agentID, 1)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if b.Total != 850_000 {
			t.Errorf("expected discounted snapshot 850000, got %d", b.Total)
		}
	})

	t.Run("should cancel only pending bookings", func(t *testing.T) {
		deps, uc := newBookingDeps(t)
		seedPackage(t, deps, 550_000, 0)

		b, err := uc.Create(ctx, pilgrim, "pkg-1", nil, 1)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := uc.Cancel(ctx, pilgrim, b.ID); err != nil {
			t.Fatalf("cancel pending: %v", err)
		}

		// A confirmed booking must survive a cancel attempt.
		b2, err := uc.Create(ctx, pilgrim, "pkg-1", nil, 1)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := deps.bookings.ConfirmIfPending(ctx, repository.NoTX, b2.ID); err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if err := uc.Cancel(ctx, pilgrim, b2.ID); !errors.Is(err, domain.ErrBookingNotPending) {
			t.Fatalf("expected ErrBookingNotPending, got %v", err)
		}
		got, _ := deps.bookings.FindByID(ctx, repository.NoTX, b2.ID)
		if got.Status != model.BookingStatusConfirmed {
			t.Errorf("confirmed booking mutated by cancel: %s", got.Status)
		}
	})

	t.Run("should deny reads of other users' bookings", func(t *testing.T) {
		deps, uc := newBookingDeps(t)
		seedPackage(t, deps, 550_000, 0)

		b, err := uc.Create(ctx, pilgrim, "pkg-1", nil, 1)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		_, err = uc.Get(ctx, Identity{UserID: "user-2", Role: model.RolePilgrim}, b.ID)
		if !errors.Is(err, domain.ErrAccessDenied) {
			t.Fatalf("expected ErrAccessDenied, got %v", err)
		}
		if _, err := uc.Get(ctx, Identity{UserID: "admin", Role: model.RoleAdmin}, b.ID); err != nil {
			t.Errorf("admin read failed: %v", err)
		}
	})

	t.Run("should reject bookings against inactive packages", func(t *testing.T) {
		deps, uc := newBookingDeps(t)
		seedPackage(t, deps, 550_000, 0)
		pkg, _ := deps.packages.FindByID(ctx, repository.NoTX, "pkg-1")
		pkg.Active = false
		if err := deps.packages.Save(ctx, repository.NoTX, pkg); err != nil {
			t.Fatalf("save package: %v", err)
		}

		_, err := uc.Create(ctx, pilgrim, "pkg-1", nil, 1)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
