package repository

import (
	"context"

	"umrah-booking-platform/internal/domain/model"
)

type ActivityRepository interface {
	// Record appends an audit entry. Callers treat failures as log-only:
	// the entry is informational and never blocks the operation it records.
	Record(ctx context.Context, tx Tx, e *model.ActivityEntry) error
	ListByBooking(ctx context.Context, tx Tx, bookingID string, limit int) ([]*model.ActivityEntry, error)
}
