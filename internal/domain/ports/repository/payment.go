package repository

import (
	"context"
	"time"

	"umrah-booking-platform/internal/domain/model"
)

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Payment, error)
	FindByReference(ctx context.Context, tx Tx, reference string) (*model.Payment, error)

	// FindVerified returns the verified payment for a booking+method, or
	// domain.ErrNotFound. Used by the idempotency short-circuit that absorbs
	// a concurrent verification (webhook racing a user poll).
	FindVerified(ctx context.Context, tx Tx, bookingID, method string) (*model.Payment, error)

	// MarkVerifiedIfPending flips the pending row for booking+method to
	// verified, recording the gateway reference and settlement time. The
	// update is conditional on the current status so a row finalized by a
	// concurrent call is left untouched; returns whether a row changed.
	MarkVerifiedIfPending(ctx context.Context, tx Tx, bookingID, method, reference string, verifiedAt time.Time) (bool, error)

	// ListPendingOlderThan feeds the reconciler sweep.
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.Payment, error)

	// SumVerifiedByPeriod totals verified revenue for day|week|month|year.
	SumVerifiedByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
}
