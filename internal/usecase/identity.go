package usecase

import "umrah-booking-platform/internal/domain/model"

// Identity is the explicit session object passed through every operation.
// There is no ambient auth state: handlers build one from the bearer token
// or the internal service credential and hand it down.
type Identity struct {
	UserID   string
	Role     model.Role
	Internal bool // trusted server-to-server caller (webhook, reconciler)
}

// InternalCaller is the identity used by the webhook handler and the
// reconciler, which authenticate via the shared service credential rather
// than a user session.
var InternalCaller = Identity{Internal: true}

// CanActOn is a pure function over the role set: the trusted internal
// caller, the booking owner, and administrators may act on a booking. Any
// other caller is rejected before verification work happens, so one user
// cannot probe or confirm another's booking.
func (id Identity) CanActOn(b *model.Booking) bool {
	if id.Internal || id.Role == model.RoleAdmin {
		return true
	}
	return id.UserID != "" && id.UserID == b.UserID
}
