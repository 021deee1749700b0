package bookings

import (
	"strings"
	"time"
)

const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Booking is a row of the bookings table joined with the booked item's
// name and owner, which the views and authorization checks need.
type Booking struct {
	ID          int64
	Start       time.Time
	End         time.Time
	ItemID      int64
	ItemName    string
	ItemOwnerID int64
	BookerID    int64
	Status      string
}

// itemRow is the projection of an item the booking flow needs.
type itemRow struct {
	ID        int64
	Name      string
	OwnerID   int64
	Available bool
}

// State is the list filter token.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState folds unknown tokens to ALL, like the list endpoints promise.
func ParseState(token string) State {
	switch State(strings.ToUpper(token)) {
	case StateCurrent:
		return StateCurrent
	case StatePast:
		return StatePast
	case StateFuture:
		return StateFuture
	case StateWaiting:
		return StateWaiting
	case StateRejected:
		return StateRejected
	default:
		return StateAll
	}
}
