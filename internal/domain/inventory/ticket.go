package inventory

import (
	"fmt"
	"time"
)

type TicketState string

const (
	StateAvailable TicketState = "available"
	StateReserved  TicketState = "reserved"
	StateSold      TicketState = "sold"
	StateReleased  TicketState = "released"
)

type Action string

const (
	ActionReserve Action = "reserve"
	ActionConfirm Action = "confirm"
	ActionRelease Action = "release"
	ActionExpire  Action = "expire"
)

// Ticket is one sellable ticket instance. HeldBy and ExpiresAt are set
// together while the ticket is reserved and cleared together otherwise.
type Ticket struct {
	ID        TicketID    `json:"ticket_id"`
	Type      string      `json:"ticket_type"`
	State     TicketState `json:"state"`
	HeldBy    OrderID     `json:"held_by,omitempty"`
	ExpiresAt time.Time   `json:"expires_at,omitempty"`
}

// InvalidTransitionError reports a (state, action) pair outside the
// transition table. Callers inspect From/Action, not the message.
type InvalidTransitionError struct {
	TicketID TicketID
	From     TicketState
	Action   Action
	Cause    error
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("ticket %s: invalid transition: %s -> %s", e.TicketID, e.From, e.Action)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *InvalidTransitionError) Unwrap() error {
	return e.Cause
}

// Transition returns the state a ticket moves to when action is applied.
// The table is closed: anything not listed is invalid. Guards that depend
// on data beyond the state itself (holder, expiry time) are enforced by
// the aggregate before it emits an event.
func Transition(from TicketState, action Action) (TicketState, bool) {
	switch {
	case from == StateAvailable && action == ActionReserve:
		return StateReserved, true
	case from == StateReserved && action == ActionConfirm:
		return StateSold, true
	case from == StateReserved && action == ActionRelease:
		return StateAvailable, true
	case from == StateReserved && action == ActionExpire:
		// Expired reservations return to the sellable pool.
		return StateAvailable, true
	default:
		return from, false
	}
}
