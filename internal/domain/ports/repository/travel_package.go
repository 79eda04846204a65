package repository

import (
	"context"

	"umrah-booking-platform/internal/domain/model"
)

type TravelPackageRepository interface {
	Save(ctx context.Context, tx Tx, p *model.TravelPackage) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.TravelPackage, error)
	ListActive(ctx context.Context, tx Tx) ([]*model.TravelPackage, error)
}
