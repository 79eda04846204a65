package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"umrah-booking-platform/internal/domain"
	"umrah-booking-platform/internal/domain/model"
	"umrah-booking-platform/internal/domain/ports/repository"
)

var _ repository.TravelPackageRepository = (*travelPackageRepo)(nil)

type travelPackageRepo struct{ pool *pgxpool.Pool }

func NewTravelPackageRepo(pool *pgxpool.Pool) *travelPackageRepo {
	return &travelPackageRepo{pool: pool}
}

const packageColumns = `id, name, season, price, agent_discount, quota, departure_at, active, created_at`

func (r *travelPackageRepo) Save(ctx context.Context, tx repository.Tx, p *model.TravelPackage) error {
	const q = `
INSERT INTO travel_packages (
  id, name, season, price, agent_discount, quota, departure_at, active, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9
) ON CONFLICT (id) DO UPDATE SET
  name=$2, season=$3, price=$4, agent_discount=$5, quota=$6, departure_at=$7, active=$8;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.Name, p.Season, p.Price, p.AgentDiscount, p.Quota, p.DepartureAt, p.Active, p.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *travelPackageRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.TravelPackage, error) {
	const q = `SELECT ` + packageColumns + ` FROM travel_packages WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	p := &model.TravelPackage{}
	if err := row.Scan(&p.ID, &p.Name, &p.Season, &p.Price, &p.AgentDiscount, &p.Quota, &p.DepartureAt, &p.Active, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *travelPackageRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.TravelPackage, error) {
	const q = `SELECT ` + packageColumns + ` FROM travel_packages WHERE active=TRUE ORDER BY departure_at ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.TravelPackage
	for rows.Next() {
		p := new(model.TravelPackage)
		if err := rows.Scan(&p.ID, &p.Name, &p.Season, &p.Price, &p.AgentDiscount, &p.Quota, &p.DepartureAt, &p.Active, &p.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	return out, nil
}
