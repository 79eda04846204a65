package repository

import (
	"context"

	"umrah-booking-platform/internal/domain/model"
)

type BookingRepository interface {
	Save(ctx context.Context, tx Tx, b *model.Booking) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Booking, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Booking, error)

	// ConfirmIfPending transitions a booking to confirmed only if it is not
	// already in a terminal state. Returns whether this call applied the
	// transition; false with a nil error means another writer won the race.
	ConfirmIfPending(ctx context.Context, tx Tx, id string) (bool, error)

	// CancelIfPending transitions pending -> cancelled. A confirmed booking
	// is never cancelled through this path.
	CancelIfPending(ctx context.Context, tx Tx, id string) (bool, error)
}
