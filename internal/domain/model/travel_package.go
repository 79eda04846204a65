package model

import (
	"time"

	"umrah-booking-platform/internal/domain"
)

type PackageSeason string

const (
	SeasonUmrah PackageSeason = "umrah"
	SeasonHajj  PackageSeason = "hajj"
)

// TravelPackage is a catalog item: a departure with a base price and an
// optional flat discount applied when a booking is attributed to an agent
// that has no explicit commission rate. Read-only during verification.
type TravelPackage struct {
	ID            string
	Name          string
	Season        PackageSeason
	Price         int64 // minor currency units
	AgentDiscount int64 // flat fallback discount, minor units
	Quota         int
	DepartureAt   time.Time
	Active        bool
	CreatedAt     time.Time
}

// NewTravelPackage validates and constructs a package.
func NewTravelPackage(id, name string, season PackageSeason, price, agentDiscount int64, quota int, departureAt time.Time) (*TravelPackage, error) {
	if id == "" || name == "" || price <= 0 || agentDiscount < 0 || quota <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if season != SeasonUmrah && season != SeasonHajj {
		return nil, domain.ErrInvalidArgument
	}
	return &TravelPackage{
		ID:            id,
		Name:          name,
		Season:        season,
		Price:         price,
		AgentDiscount: agentDiscount,
		Quota:         quota,
		DepartureAt:   departureAt,
		Active:        true,
		CreatedAt:     time.Now(),
	}, nil
}

func (p *TravelPackage) IsZero() bool { return p == nil || p.ID == "" }
