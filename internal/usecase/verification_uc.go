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
var _ VerificationUseCase = (*verificationUC)(nil)

// VerifyResult is the caller-visible outcome of a verification. Status is
// "verified" for both a fresh confirmation and an idempotent replay.
type VerifyResult struct {
	Status    string `json:"status"`
	BookingID string `json:"bookingId"`
}

// TaskQueue dispatches fire-and-forget work (receipt notifications) with an
// error channel independent of the verification result.
type TaskQueue interface {
	Submit(task func(ctx context.Context) error) error
}

type VerificationUseCase interface {
	// VerifyAndConfirm authoritatively determines whether the transaction
	// behind reference settled, validates the settled amount against the
	// server-computed expectation, and transitions the booking and payment
	// to their confirmed terminal state exactly once. Errors are sentinel
	// wrapped: ErrGatewayDeclined, ErrMissingMetadata, ErrAccessDenied,
	// ErrAmountMismatch, ErrNotFound.
	VerifyAndConfirm(ctx context.Context, caller Identity, reference string, source model.ActivitySource) (*VerifyResult, error)
}

type verificationUC struct {
	bookings repository.BookingRepository
	payments repository.PaymentRepository
	packages repository.TravelPackageRepository
	agents   repository.AgentRepository
	activity repository.ActivityRepository
	users    repository.UserRepository
	gateway  adapter.PaymentGateway
	notifier adapter.ReceiptNotifier
	tasks    TaskQueue

	gatewayTimeout time.Duration
	tolerancePct   float64
	log            *zerolog.Logger
}

func NewVerificationUseCase(
	bookings repository.BookingRepository,
	payments repository.PaymentRepository,
	packages repository.TravelPackageRepository,
	agents repository.AgentRepository,
	activity repository.ActivityRepository,
	users repository.UserRepository,
	gateway adapter.PaymentGateway,
	notifier adapter.ReceiptNotifier,
	tasks TaskQueue,
	gatewayTimeout time.Duration,
	tolerancePct float64,
	logger *zerolog.Logger,
) *verificationUC {
	if gatewayTimeout <= 0 {
		gatewayTimeout = 8 * time.Second
	}
	if tolerancePct <= 0 {
		tolerancePct = 0.01
	}
	return &verificationUC{
		bookings:       bookings,
		payments:       payments,
		packages:       packages,
		agents:         agents,
		activity:       activity,
		users:          users,
		gateway:        gateway,
		notifier:       notifier,
		tasks:          tasks,
		gatewayTimeout: gatewayTimeout,
		tolerancePct:   tolerancePct,
		log:            logger,
	}
}

func (u *verificationUC) VerifyAndConfirm(ctx context.Context, caller Identity, reference string, source model.ActivitySource) (*VerifyResult, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: empty reference", domain.ErrInvalidArgument)
	}

	// 1. Ask the gateway. The lookup is bounded so a slow provider cannot
	// hold the handler open indefinitely.
	gctx, cancel := context.WithTimeout(ctx, u.gatewayTimeout)
	defer cancel()
	tx, err := u.gateway.LookupTransaction(gctx, reference)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup %s: %v", domain.ErrGatewayDeclined, reference, err)
	}
	if !tx.Settled() {
		return nil, fmt.Errorf("%w: transaction %s reported %q", domain.ErrGatewayDeclined, reference, tx.Status)
	}

	// 2. The booking id travels in gateway metadata set at checkout time.
	bookingID := tx.Metadata.BookingID
	if bookingID == "" {
		return nil, fmt.Errorf("%w: reference %s", domain.ErrMissingMetadata, reference)
	}
	booking, err := u.bookings.FindByID(ctx, repository.NoTX, bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking %s from gateway metadata: %w", bookingID, err)
	}

	// 3. Authorization, before any further read or any write.
	if !caller.CanActOn(booking) {
		u.log.Warn().
			Str("booking_id", bookingID).
			Str("caller_id", caller.UserID).
			Str("reference", reference).
			Msg("verification attempt by unauthorized caller")
		return nil, fmt.Errorf("booking %s: %w", bookingID, domain.ErrAccessDenied)
	}

	method := u.gateway.Name()

	// 4. Idempotency short-circuit A: a booking already confirmed absorbs
	// duplicate calls with no re-validation and no writes.
	if booking.IsConfirmed() {
		return &VerifyResult{Status: "verified", BookingID: booking.ID}, nil
	}

	// 5. Idempotency short-circuit B: a payment row finalized by a
	// concurrent call (webhook racing a poll) also means success; make sure
	// the booking catches up via the conditional confirm.
	if existing, err := u.payments.FindVerified(ctx, repository.NoTX, booking.ID, method); err == nil && existing.IsVerified() {
		if _, err := u.bookings.ConfirmIfPending(ctx, repository.NoTX, booking.ID); err != nil {
			return nil, fmt.Errorf("confirm booking %s after verified payment: %w", booking.ID, err)
		}
		return &VerifyResult{Status: "verified", BookingID: booking.ID}, nil
	}

	// 6. Recompute the expected amount from first principles.
	pkg, err := u.packages.FindByID(ctx, repository.NoTX, booking.PackageID)
	if err != nil {
		return nil, fmt.Errorf("package %s for booking %s: %w", booking.PackageID, booking.ID, err)
	}
	var agent *model.Agent
	if booking.AgentID != nil {
		agent, err = u.agents.FindByID(ctx, repository.NoTX, *booking.AgentID)
		if err != nil {
			return nil, fmt.Errorf("agent %s for booking %s: %w", *booking.AgentID, booking.ID, err)
		}
	}
	expected := model.ExpectedAmount(pkg, agent)

	// 7. Reject underpayment. Logged as a fraud signal, no state changes.
	if !model.AmountWithinTolerance(expected, tx.Amount, u.tolerancePct) {
		u.log.Warn().
			Str("reference", reference).
			Str("booking_id", booking.ID).
			Int64("expected", expected).
			Int64("actual", tx.Amount).
			Msg("settled amount below expected booking price")
		return nil, fmt.Errorf("booking %s: %w", booking.ID, domain.ErrAmountMismatch)
	}

	// 8. Conditional state transitions. Only the row still pending flips;
	// a row finalized by a race that slipped past step 5 stays untouched.
	applied, err := u.payments.MarkVerifiedIfPending(ctx, repository.NoTX, booking.ID, method, reference, tx.PaidAt)
	if err != nil {
		return nil, fmt.Errorf("mark payment verified for booking %s: %w", booking.ID, err)
	}
	confirmed, err := u.bookings.ConfirmIfPending(ctx, repository.NoTX, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("confirm booking %s: %w", booking.ID, err)
	}
	if !confirmed {
		// The conditional update matched no row. A concurrent confirm is
		// fine; anything else (a cancelled booking holding verified money)
		// is an integrity fault that support has to untangle.
		current, err := u.bookings.FindByID(ctx, repository.NoTX, booking.ID)
		if err != nil {
			return nil, fmt.Errorf("reload booking %s after confirm: %w", booking.ID, err)
		}
		if !current.IsConfirmed() {
			u.log.Error().
				Str("booking_id", booking.ID).
				Str("status", string(current.Status)).
				Str("reference", reference).
				Msg("payment verified but booking left pending state")
			return nil, fmt.Errorf("booking %s is %s with a verified payment: %w", booking.ID, current.Status, domain.ErrOperationFailed)
		}
	}

	if applied {
		u.recordActivity(ctx, booking, method, reference, tx.Amount, source)
		u.dispatchReceipt(ctx, booking, method, reference, tx.Amount, tx.Currency)
	}
	return &VerifyResult{Status: "verified", BookingID: booking.ID}, nil
}

// recordActivity appends the audit entry for a fresh confirmation.
// Informational: failures are logged, never propagated.
func (u *verificationUC) recordActivity(ctx context.Context, booking *model.Booking, method, reference string, amount int64, source model.ActivitySource) {
	entry := &model.ActivityEntry{
		ID:        newULID(),
		BookingID: booking.ID,
		UserID:    booking.UserID,
		Kind:      model.ActivityPaymentVerified,
		Method:    method,
		Reference: reference,
		Amount:    amount,
		Source:    source,
		CreatedAt: time.Now(),
	}
	if err := u.activity.Record(ctx, repository.NoTX, entry); err != nil {
		u.log.Error().Err(err).Str("booking_id", booking.ID).Msg("record payment activity")
	}
}

// dispatchReceipt hands the receipt to the task queue. The notification has
// its own error channel; nothing here can fail the verification.
func (u *verificationUC) dispatchReceipt(ctx context.Context, booking *model.Booking, method, reference string, amount int64, currency string) {
	owner, err := u.users.FindByID(ctx, repository.NoTX, booking.UserID)
	if err != nil {
		u.log.Error().Err(err).Str("booking_id", booking.ID).Msg("load booking owner for receipt")
		return
	}
	receipt := adapter.Receipt{
		BookingID: booking.ID,
		Email:     owner.Email,
		Reference: reference,
		Method:    method,
		Amount:    amount,
		Currency:  currency,
	}
	err = u.tasks.Submit(func(taskCtx context.Context) error {
		if err := u.notifier.SendReceipt(taskCtx, receipt); err != nil {
			u.log.Error().Err(err).Str("booking_id", receipt.BookingID).Msg("send receipt")
			return err
		}
		return nil
	})
	if err != nil {
		u.log.Error().Err(err).Str("booking_id", booking.ID).Msg("queue receipt notification")
	}
}
