//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"umrah-booking-platform/internal/domain"
	"umrah-booking-platform/internal/domain/model"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

func TestPaymentRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	// 1. Setup
	ctx := context.Background()
	repo := NewPaymentRepo(testPool)
	userRepo := NewUserRepo(testPool)
	pkgRepo := NewTravelPackageRepo(testPool)
	bookingRepo := NewBookingRepo(testPool)

	user, _ := model.NewUser("", "pilgrim@example.com", "Aisha Bello", model.RolePilgrim)
	pkg, _ := model.NewTravelPackage(uuid.NewString(), "Umrah Standard", model.SeasonUmrah, 1_000_000, 50_000, 40, time.Now().AddDate(0, 2, 0))
	booking, _ := model.NewBooking("", user.ID, pkg.ID, nil, 1, pkg.Price)

	// Helper to set up a clean state with prerequisites
	setupPrerequisites := func(t *testing.T) {
		cleanup(t)
		if err := userRepo.Save(ctx, nil, user); err != nil {
			t.Fatalf("failed to save user: %v", err)
		}
		if err := pkgRepo.Save(ctx, nil, pkg); err != nil {
			t.Fatalf("failed to save package: %v", err)
		}
		if err := bookingRepo.Save(ctx, nil, booking); err != nil {
			t.Fatalf("failed to save booking: %v", err)
		}
	}

	newPending := func(reference string) *model.Payment {
		now := time.Now()
		return &model.Payment{
			ID:        ulid.Make().String(),
			BookingID: booking.ID,
			UserID:    user.ID,
			Method:    "paystack",
			Amount:    pkg.Price,
			Currency:  "NGN",
			Reference: reference,
			Status:    model.PaymentStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	t.Run("should save and find a payment", func(t *testing.T) {
		setupPrerequisites(t)

		p := newPending("ref-123")
		if err := repo.Save(ctx, nil, p); err != nil {
			t.Fatalf("Failed to save new payment: %v", err)
		}

		foundByID, err := repo.FindByID(ctx, nil, p.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if foundByID == nil || foundByID.Reference != "ref-123" {
			t.Fatal("Did not find the correct payment by ID")
		}

		foundByRef, err := repo.FindByReference(ctx, nil, "ref-123")
		if err != nil {
			t.Fatalf("FindByReference failed: %v", err)
		}
		if foundByRef == nil || foundByRef.ID != p.ID {
			t.Fatal("Did not find the correct payment by Reference")
		}
	})

	t.Run("should mark verified only while pending", func(t *testing.T) {
		setupPrerequisites(t)

		p := newPending("ref-456")
		repo.Save(ctx, nil, p)

		verifiedAt := time.Now().Truncate(time.Millisecond)

		// First finalization should apply
		applied, err := repo.MarkVerifiedIfPending(ctx, nil, booking.ID, "paystack", "ref-456", verifiedAt)
		if err != nil {
			t.Fatalf("First MarkVerifiedIfPending failed: %v", err)
		}
		if !applied {
			t.Error("expected first finalization to apply, but it returned false")
		}

		// Replay against the now-verified row must affect nothing
		appliedAgain, err := repo.MarkVerifiedIfPending(ctx, nil, booking.ID, "paystack", "ref-456", time.Now())
		if err != nil {
			t.Fatalf("Second MarkVerifiedIfPending failed: %v", err)
		}
		if appliedAgain {
			t.Error("expected replay to affect zero rows, but it returned true")
		}

		final, _ := repo.FindByID(ctx, nil, p.ID)
		if final.Status != model.PaymentStatusVerified {
			t.Errorf("expected final status to be 'verified', but got '%s'", final.Status)
		}
		if final.VerifiedAt == nil || !final.VerifiedAt.Equal(verifiedAt) {
			t.Errorf("VerifiedAt not recorded correctly, expected %v got %v", verifiedAt, final.VerifiedAt)
		}
	})

	t.Run("should find the verified payment for a booking and method", func(t *testing.T) {
		setupPrerequisites(t)

		p := newPending("ref-789")
		repo.Save(ctx, nil, p)

		if _, err := repo.FindVerified(ctx, nil, booking.ID, "paystack"); err != domain.ErrNotFound {
			t.Fatalf("expected ErrNotFound before verification, got %v", err)
		}

		repo.MarkVerifiedIfPending(ctx, nil, booking.ID, "paystack", "ref-789", time.Now())

		found, err := repo.FindVerified(ctx, nil, booking.ID, "paystack")
		if err != nil {
			t.Fatalf("FindVerified failed: %v", err)
		}
		if found.ID != p.ID {
			t.Error("found the wrong verified payment")
		}
	})

	t.Run("should list pending payments older than a cutoff", func(t *testing.T) {
		setupPrerequisites(t)

		// 1. Pending and old, should be found
		p1 := newPending("ref-old")
		p1.CreatedAt = time.Now().Add(-2 * time.Hour)
		// 2. Pending but recent, should NOT be found
		p2 := newPending("ref-new")
		p2.CreatedAt = time.Now().Add(-5 * time.Minute)
		// 3. Old but verified, should NOT be found
		p3 := newPending("ref-done")
		p3.CreatedAt = time.Now().Add(-2 * time.Hour)
		p3.Status = model.PaymentStatusVerified

		repo.Save(ctx, nil, p1)
		repo.Save(ctx, nil, p2)
		repo.Save(ctx, nil, p3)

		cutoff := time.Now().Add(-1 * time.Hour)
		results, err := repo.ListPendingOlderThan(ctx, nil, cutoff, 10)
		if err != nil {
			t.Fatalf("ListPendingOlderThan failed: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("expected to find 1 pending payment, but got %d", len(results))
		}
		if len(results) == 1 && results[0].ID != p1.ID {
			t.Error("found the wrong pending payment")
		}
	})

	t.Run("should sum verified revenue by period", func(t *testing.T) {
		setupPrerequisites(t)

		p := newPending("ref-sum")
		repo.Save(ctx, nil, p)
		repo.MarkVerifiedIfPending(ctx, nil, booking.ID, "paystack", "ref-sum", time.Now())

		sum, err := repo.SumVerifiedByPeriod(ctx, nil, "month")
		if err != nil {
			t.Fatalf("SumVerifiedByPeriod failed: %v", err)
		}
		if sum != pkg.Price {
			t.Errorf("expected monthly sum %d, got %d", pkg.Price, sum)
		}
	})
}
