package repository

import (
	"context"

	"umrah-booking-platform/internal/domain/model"
)

type AgentRepository interface {
	Save(ctx context.Context, tx Tx, a *model.Agent) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Agent, error)
	FindByUserID(ctx context.Context, tx Tx, userID string) (*model.Agent, error)
}
