package model

import (
	"time"

	"umrah-booking-platform/internal/domain"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a pilgrim's intent to purchase a package instance. The
// transition to confirmed is owned exclusively by the payment verification
// flow and is always applied as a conditional update, never from the client.
type Booking struct {
	ID        string
	UserID    string
	PackageID string
	AgentID   *string // set once at creation; determines discount eligibility
	Pilgrims  int
	// Total is a snapshot of the expected payable amount at creation time,
	// in minor units. Verification recomputes it from first principles and
	// never trusts this field.
	Total     int64
	Status    BookingStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewBooking(id, userID, packageID string, agentID *string, pilgrims int, total int64) (*Booking, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if userID == "" || packageID == "" || pilgrims <= 0 || total < 0 {
		return nil, domain.ErrInvalidArgument
	}
	if agentID != nil && *agentID == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Booking{
		ID:        id,
		UserID:    userID,
		PackageID: packageID,
		AgentID:   agentID,
		Pilgrims:  pilgrims,
		Total:     total,
		Status:    BookingStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (b *Booking) IsZero() bool      { return b == nil || b.ID == "" }
func (b *Booking) IsConfirmed() bool { return b != nil && b.Status == BookingStatusConfirmed }
func (b *Booking) IsPending() bool   { return b != nil && b.Status == BookingStatusPending }
