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

var _ repository.AgentRepository = (*agentRepo)(nil)

type agentRepo struct{ pool *pgxpool.Pool }

func NewAgentRepo(pool *pgxpool.Pool) *agentRepo {
	return &agentRepo{pool: pool}
}

const agentColumns = `id, user_id, agency_name, commission_type, commission_rate, active, created_at`

func scanAgent(row pgx.Row) (*model.Agent, error) {
	a := &model.Agent{}
	if err := row.Scan(&a.ID, &a.UserID, &a.AgencyName, &a.CommissionType, &a.CommissionRate, &a.Active, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return a, nil
}

func (r *agentRepo) Save(ctx context.Context, tx repository.Tx, a *model.Agent) error {
	const q = `
INSERT INTO agents (
  id, user_id, agency_name, commission_type, commission_rate, active, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7
) ON CONFLICT (id) DO UPDATE SET
  user_id=$2, agency_name=$3, commission_type=$4, commission_rate=$5, active=$6;`

	_, err := execSQL(ctx, r.pool, tx, q, a.ID, a.UserID, a.AgencyName, a.CommissionType, a.CommissionRate, a.Active, a.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *agentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Agent, error) {
	const q = `SELECT ` + agentColumns + ` FROM agents WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanAgent(row)
}

func (r *agentRepo) FindByUserID(ctx context.Context, tx repository.Tx, userID string) (*model.Agent, error) {
	const q = `SELECT ` + agentColumns + ` FROM agents WHERE user_id=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	return scanAgent(row)
}
