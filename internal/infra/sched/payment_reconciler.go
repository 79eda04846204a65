package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"umrah-booking-platform/internal/domain"
	"umrah-booking-platform/internal/domain/model"
	"umrah-booking-platform/internal/domain/ports/repository"
	red "umrah-booking-platform/internal/infra/redis"
	"umrah-booking-platform/internal/usecase"
)

const leaderLockKey = "lock:payment_reconciler"

// PaymentReconciler periodically scans for stale pending payments and tries
// to finalize them through the verification flow. This covers the customer
// who paid but never returned to the callback page, and the process that
// crashed mid-confirm. A Redis lock keeps multiple instances from sweeping
// the same rows concurrently.
type PaymentReconciler struct {
	uc         usecase.VerificationUseCase
	payments   repository.PaymentRepository
	locker     red.Locker
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending payment must be to retry
	log        *zerolog.Logger
}

func NewPaymentReconciler(
	uc usecase.VerificationUseCase,
	payments repository.PaymentRepository,
	locker red.Locker,
	interval, staleAfter time.Duration,
	logger *zerolog.Logger,
) *PaymentReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	return &PaymentReconciler{
		uc:         uc,
		payments:   payments,
		locker:     locker,
		interval:   interval,
		staleAfter: staleAfter,
		log:        logger,
	}
}

func (w *PaymentReconciler) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentReconciler) tick(ctx context.Context) {
	token, err := w.locker.TryLock(ctx, leaderLockKey, w.interval)
	if err != nil {
		if !errors.Is(err, domain.ErrLockUnavailable) {
			w.log.Error().Err(err).Msg("reconciler: acquire leader lock")
		}
		return // another instance is sweeping
	}
	defer func() {
		if err := w.locker.Unlock(ctx, leaderLockKey, token); err != nil {
			w.log.Error().Err(err).Msg("reconciler: release leader lock")
		}
	}()

	cutoff := time.Now().Add(-w.staleAfter)
	pending, err := w.payments.ListPendingOlderThan(ctx, repository.NoTX, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("reconciler: list pending payments")
		return
	}
	for _, p := range pending {
		if p.Reference == "" {
			continue
		}
		_, err := w.uc.VerifyAndConfirm(ctx, usecase.InternalCaller, p.Reference, model.SourceReconciler)
		switch {
		case err == nil:
			w.log.Info().Str("payment_id", p.ID).Str("reference", p.Reference).Msg("reconciler: payment finalized")
		case errors.Is(err, domain.ErrGatewayDeclined):
			// Still unpaid at the gateway. Expected for most stale rows.
			w.log.Debug().Str("payment_id", p.ID).Str("reference", p.Reference).Msg("reconciler: still unsettled")
		default:
			w.log.Error().Err(err).Str("payment_id", p.ID).Str("reference", p.Reference).Msg("reconciler: verify failed")
		}
	}
}
