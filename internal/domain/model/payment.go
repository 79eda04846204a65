package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"  // created at checkout; awaiting verification
	PaymentStatusVerified PaymentStatus = "verified" // gateway confirmed settlement and amount matched
	PaymentStatusRejected PaymentStatus = "rejected" // gateway declined or amount mismatch
	PaymentStatusRefunded PaymentStatus = "refunded" // money returned after verification
)

// Payment records one payment attempt on a booking. At most one row per
// booking+method ever reaches verified; the transition is guarded by a
// conditional update on the pending status.
type Payment struct {
	ID         string // ULID, sortable by creation time
	BookingID  string
	UserID     string
	Method     string // gateway name, e.g. "paystack"
	Amount     int64  // minor units
	Currency   string
	Reference  string // opaque gateway reference issued at checkout
	Status     PaymentStatus
	VerifiedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p *Payment) IsZero() bool     { return p == nil || p.ID == "" }
func (p *Payment) IsVerified() bool { return p != nil && p.Status == PaymentStatusVerified }
