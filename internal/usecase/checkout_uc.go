package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"umrah-booking-platform/internal/domain"
	"umrah-booking-platform/internal/domain/model"
	"umrah-booking-platform/internal/domain/ports/adapter"
	"umrah-booking-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

type CheckoutUseCase interface {
	// Start opens a gateway checkout session for a pending booking: the
	// expected amount is recomputed server-side, a pending payment row is
	// created, and the booking id is attached to the transaction metadata
	// so verification can find its way back. Returns the payment and the
	// gateway URL the pilgrim is redirected to.
	Start(ctx context.Context, caller Identity, bookingID string) (*model.Payment, string, error)
}

type checkoutUC struct {
	bookings repository.BookingRepository
	payments repository.PaymentRepository
	packages repository.TravelPackageRepository
	agents   repository.AgentRepository
	activity repository.ActivityRepository
	users    repository.UserRepository
	gateway  adapter.PaymentGateway

	callbackURL string
	currency    string
	log         *zerolog.Logger
}

func NewCheckoutUseCase(
	bookings repository.BookingRepository,
	payments repository.PaymentRepository,
	packages repository.TravelPackageRepository,
	agents repository.AgentRepository,
	activity repository.ActivityRepository,
	users repository.UserRepository,
	gateway adapter.PaymentGateway,
	callbackURL, currency string,
	logger *zerolog.Logger,
) *checkoutUC {
	if currency == "" {
		currency = "IDR"
	}
	return &checkoutUC{
		bookings:    bookings,
		payments:    payments,
		packages:    packages,
		agents:      agents,
		activity:    activity,
		users:       users,
		gateway:     gateway,
		callbackURL: callbackURL,
		currency:    currency,
		log:         logger,
	}
}

func (u *checkoutUC) Start(ctx context.Context, caller Identity, bookingID string) (*model.Payment, string, error) {
	booking, err := u.bookings.FindByID(ctx, repository.NoTX, bookingID)
	if err != nil {
		return nil, "", fmt.Errorf("booking %s: %w", bookingID, err)
	}
	if !caller.CanActOn(booking) {
		return nil, "", fmt.Errorf("booking %s: %w", bookingID, domain.ErrAccessDenied)
	}
	if !booking.IsPending() {
		return nil, "", fmt.Errorf("booking %s is %s: %w", bookingID, booking.Status, domain.ErrBookingNotPending)
	}

	pkg, err := u.packages.FindByID(ctx, repository.NoTX, booking.PackageID)
	if err != nil {
		return nil, "", fmt.Errorf("package %s: %w", booking.PackageID, err)
	}
	var agent *model.Agent
	if booking.AgentID != nil {
		agent, err = u.agents.FindByID(ctx, repository.NoTX, *booking.AgentID)
		if err != nil {
			return nil, "", fmt.Errorf("agent %s: %w", *booking.AgentID, err)
		}
	}
	amount := model.ExpectedAmount(pkg, agent)

	owner, err := u.users.FindByID(ctx, repository.NoTX, booking.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("booking owner %s: %w", booking.UserID, err)
	}

	reference, authURL, err := u.gateway.InitializeTransaction(ctx, amount, owner.Email, u.callbackURL, adapter.TransactionMetadata{BookingID: booking.ID})
	if err != nil {
		return nil, "", fmt.Errorf("initialize transaction for booking %s: %w", booking.ID, err)
	}

	now := time.Now()
	p := &model.Payment{
		ID:        newULID(),
		BookingID: booking.ID,
		UserID:    booking.UserID,
		Method:    u.gateway.Name(),
		Amount:    amount,
		Currency:  u.currency,
		Reference: reference,
		Status:    model.PaymentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.payments.Save(ctx, repository.NoTX, p); err != nil {
		return nil, "", fmt.Errorf("save payment for booking %s: %w", booking.ID, err)
	}

	entry := &model.ActivityEntry{
		ID:        newULID(),
		BookingID: booking.ID,
		UserID:    booking.UserID,
		Kind:      model.ActivityCheckoutStarted,
		Method:    p.Method,
		Reference: reference,
		Amount:    amount,
		Source:    model.SourceAPI,
		CreatedAt: now,
	}
	if err := u.activity.Record(ctx, repository.NoTX, entry); err != nil {
		u.log.Error().Err(err).Str("booking_id", booking.ID).Msg("record checkout activity")
	}
	return p, authURL, nil
}
