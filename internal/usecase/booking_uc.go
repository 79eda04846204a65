package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/google/uuid"

	"umrah-booking-platform/internal/domain"
	"umrah-booking-platform/internal/domain/model"
	"umrah-booking-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ BookingUseCase = (*bookingUC)(nil)

type BookingUseCase interface {
	// Create books a package for the caller, optionally attributed to an
	// agent. The stored total is a snapshot; verification recomputes it.
	Create(ctx context.Context, caller Identity, packageID string, agentID *string, pilgrims int) (*model.Booking, error)
	Get(ctx context.Context, caller Identity, id string) (*model.Booking, error)
	ListMine(ctx context.Context, caller Identity) ([]*model.Booking, error)
	// Cancel applies the conditional pending -> cancelled transition. A
	// booking already confirmed by a verified payment is never cancelled.
	Cancel(ctx context.Context, caller Identity, id string) error
}

type bookingUC struct {
	bookings repository.BookingRepository
	packages repository.TravelPackageRepository
	agents   repository.AgentRepository
	activity repository.ActivityRepository
	log      *zerolog.Logger
}

func NewBookingUseCase(
	bookings repository.BookingRepository,
	packages repository.TravelPackageRepository,
	agents repository.AgentRepository,
	activity repository.ActivityRepository,
	logger *zerolog.Logger,
) *bookingUC {
	return &bookingUC{bookings: bookings, packages: packages, agents: agents, activity: activity, log: logger}
}

func (u *bookingUC) Create(ctx context.Context, caller Identity, packageID string, agentID *string, pilgrims int) (*model.Booking, error) {
	if caller.UserID == "" {
		return nil, domain.ErrAccessDenied
	}
	pkg, err := u.packages.FindByID(ctx, repository.NoTX, packageID)
	if err != nil {
		return nil, fmt.Errorf("package %s: %w", packageID, err)
	}
	if !pkg.Active {
		return nil, fmt.Errorf("package %s is inactive: %w", packageID, domain.ErrInvalidArgument)
	}
	var agent *model.Agent
	if agentID != nil {
		agent, err = u.agents.FindByID(ctx, repository.NoTX, *agentID)
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", *agentID, err)
		}
		if !agent.Active {
			return nil, fmt.Errorf("agent %s is inactive: %w", *agentID, domain.ErrInvalidArgument)
		}
	}

	b, err := model.NewBooking(uuid.NewString(), caller.UserID, packageID, agentID, pilgrims, model.ExpectedAmount(pkg, agent))
	if err != nil {
		return nil, err
	}
	if err := u.bookings.Save(ctx, repository.NoTX, b); err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}

	entry := &model.ActivityEntry{
		ID:        newULID(),
		BookingID: b.ID,
		UserID:    b.UserID,
		Kind:      model.ActivityBookingCreated,
		Amount:    b.Total,
		Source:    model.SourceAPI,
		CreatedAt: time.Now(),
	}
	if err := u.activity.Record(ctx, repository.NoTX, entry); err != nil {
		u.log.Error().Err(err).Str("booking_id", b.ID).Msg("record booking activity")
	}
	return b, nil
}

func (u *bookingUC) Get(ctx context.Context, caller Identity, id string) (*model.Booking, error) {
	b, err := u.bookings.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanActOn(b) {
		return nil, fmt.Errorf("booking %s: %w", id, domain.ErrAccessDenied)
	}
	return b, nil
}

func (u *bookingUC) ListMine(ctx context.Context, caller Identity) ([]*model.Booking, error) {
	if caller.UserID == "" {
		return nil, domain.ErrAccessDenied
	}
	return u.bookings.ListByUser(ctx, repository.NoTX, caller.UserID)
}

func (u *bookingUC) Cancel(ctx context.Context, caller Identity, id string) error {
	b, err := u.bookings.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return err
	}
	if !caller.CanActOn(b) {
		return fmt.Errorf("booking %s: %w", id, domain.ErrAccessDenied)
	}
	applied, err := u.bookings.CancelIfPending(ctx, repository.NoTX, id)
	if err != nil {
		return fmt.Errorf("cancel booking %s: %w", id, err)
	}
	if !applied {
		return fmt.Errorf("booking %s is %s: %w", id, b.Status, domain.ErrBookingNotPending)
	}

	entry := &model.ActivityEntry{
		ID:        newULID(),
		BookingID: b.ID,
		UserID:    b.UserID,
		Kind:      model.ActivityBookingCancelled,
		Source:    model.SourceAPI,
		CreatedAt: time.Now(),
	}
	if err := u.activity.Record(ctx, repository.NoTX, entry); err != nil {
		u.log.Error().Err(err).Str("booking_id", b.ID).Msg("record cancel activity")
	}
	return nil
}
