package model

import (
	"time"

	"umrah-booking-platform/internal/domain"
)

type CommissionType string

const (
	CommissionPercentage CommissionType = "percentage"
	CommissionFixed      CommissionType = "fixed"
)

// Agent is a travel agent account with a commission model. The commission
// determines the expected payable amount when a booking carries an agent
// reference: percentage commissions multiply the package price down, fixed
// commissions subtract a flat amount.
type Agent struct {
	ID             string
	UserID         string
	AgencyName     string
	CommissionType CommissionType
	// CommissionRate is a percent for percentage-type agents (e.g. 10 means
	// 10%) and an amount in minor units for fixed-type agents. A zero rate
	// falls back to the package's flat agent discount.
	CommissionRate float64
	Active         bool
	CreatedAt      time.Time
}

func NewAgent(id, userID, agencyName string, ctype CommissionType, rate float64) (*Agent, error) {
	if id == "" || userID == "" || agencyName == "" || rate < 0 {
		return nil, domain.ErrInvalidArgument
	}
	if ctype != CommissionPercentage && ctype != CommissionFixed {
		return nil, domain.ErrInvalidArgument
	}
	if ctype == CommissionPercentage && rate > 100 {
		return nil, domain.ErrInvalidArgument
	}
	return &Agent{
		ID:             id,
		UserID:         userID,
		AgencyName:     agencyName,
		CommissionType: ctype,
		CommissionRate: rate,
		Active:         true,
		CreatedAt:      time.Now(),
	}, nil
}

func (a *Agent) IsZero() bool { return a == nil || a.ID == "" }
