package model

import "time"

type ActivityKind string

const (
	ActivityBookingCreated   ActivityKind = "booking_created"
	ActivityBookingCancelled ActivityKind = "booking_cancelled"
	ActivityCheckoutStarted  ActivityKind = "checkout_started"
	ActivityPaymentVerified  ActivityKind = "payment_verified"
)

// ActivitySource names which trigger produced an entry. The verification
// flow can be reached from the API, the gateway webhook, or the reconciler.
type ActivitySource string

const (
	SourceAPI        ActivitySource = "api"
	SourceWebhook    ActivitySource = "webhook"
	SourceReconciler ActivitySource = "reconciler"
)

// ActivityEntry is an informational audit record. Writing one is best-effort
// and must never fail or roll back the operation it describes.
type ActivityEntry struct {
	ID        string // ULID
	BookingID string
	UserID    string
	Kind      ActivityKind
	Method    string
	Reference string
	Amount    int64
	Source    ActivitySource
	CreatedAt time.Time
}
