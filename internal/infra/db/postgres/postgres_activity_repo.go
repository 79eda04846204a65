package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"umrah-booking-platform/internal/domain"
	"umrah-booking-platform/internal/domain/model"
	"umrah-booking-platform/internal/domain/ports/repository"
)

var _ repository.ActivityRepository = (*activityRepo)(nil)

type activityRepo struct{ pool *pgxpool.Pool }

func NewActivityRepo(pool *pgxpool.Pool) *activityRepo {
	return &activityRepo{pool: pool}
}

func (r *activityRepo) Record(ctx context.Context, tx repository.Tx, e *model.ActivityEntry) error {
	const q = `
INSERT INTO booking_activity (
  id, booking_id, user_id, kind, method, reference, amount, source, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9
);`

	_, err := execSQL(ctx, r.pool, tx, q, e.ID, e.BookingID, e.UserID, e.Kind, e.Method, e.Reference, e.Amount, e.Source, e.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *activityRepo) ListByBooking(ctx context.Context, tx repository.Tx, bookingID string, limit int) ([]*model.ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT id, booking_id, user_id, kind, method, reference, amount, source, created_at FROM booking_activity WHERE booking_id=$1 ORDER BY created_at DESC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, bookingID, limit)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.ActivityEntry
	for rows.Next() {
		e := new(model.ActivityEntry)
		if err := rows.Scan(&e.ID, &e.BookingID, &e.UserID, &e.Kind, &e.Method, &e.Reference, &e.Amount, &e.Source, &e.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, e)
	}
	return out, nil
}
