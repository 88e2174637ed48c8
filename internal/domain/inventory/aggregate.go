package inventory

import (
	"fmt"
	"sort"
	"time"
)

// TicketDef is a catalog entry: one ticket that exists for an event.
type TicketDef struct {
	ID   TicketID
	Type string
}

// Reservation describes a live hold on a ticket.
type Reservation struct {
	EventID    EventID   `json:"event_id"`
	TicketID   TicketID  `json:"ticket_id"`
	TicketType string    `json:"ticket_type"`
	OrderID    OrderID   `json:"order_id"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Inventory is the aggregate for one event's tickets. State is always the
// fold of the committed log over the all-available catalog; commands mutate
// state only through emitted events so that replay reproduces it exactly.
type Inventory struct {
	id      EventID
	version int
	tickets map[TicketID]*Ticket

	// ticket ids in ascending order, fixed at construction. Reserve scans
	// this slice so the pick is deterministic under replay.
	order []TicketID
}

// NewInventory builds the implicit version-0 aggregate: every catalog
// ticket available, nothing reserved.
func NewInventory(id EventID, defs []TicketDef) *Inventory {
	inv := &Inventory{
		id:      id,
		tickets: make(map[TicketID]*Ticket, len(defs)),
		order:   make([]TicketID, 0, len(defs)),
	}
	for _, def := range defs {
		if _, exists := inv.tickets[def.ID]; exists {
			continue
		}
		inv.tickets[def.ID] = &Ticket{ID: def.ID, Type: def.Type, State: StateAvailable}
		inv.order = append(inv.order, def.ID)
	}
	sort.Slice(inv.order, func(i, j int) bool { return inv.order[i] < inv.order[j] })
	return inv
}

func (inv *Inventory) ID() EventID {
	return inv.id
}

// Version is the version of the last committed event folded into this
// aggregate. A fresh aggregate is at version 0.
func (inv *Inventory) Version() int {
	return inv.version
}

// Ticket returns a copy of one ticket's current state.
func (inv *Inventory) Ticket(id TicketID) (Ticket, bool) {
	t, ok := inv.tickets[id]
	if !ok {
		return Ticket{}, false
	}
	return *t, true
}

// Tickets returns copies of all tickets in ascending id order.
func (inv *Inventory) Tickets() []Ticket {
	out := make([]Ticket, 0, len(inv.order))
	for _, id := range inv.order {
		out = append(out, *inv.tickets[id])
	}
	return out
}

// AvailableCount counts tickets of the given type currently available.
func (inv *Inventory) AvailableCount(ticketType string) int {
	n := 0
	for _, t := range inv.tickets {
		if t.Type == ticketType && t.State == StateAvailable {
			n++
		}
	}
	return n
}

// Reserve holds one available ticket of the requested type for orderID.
// The lowest ticket id wins the tie-break. Redelivery of an order that
// already holds a live reservation of this type returns that reservation
// with no new events.
func (inv *Inventory) Reserve(ticketType string, orderID OrderID, ttl time.Duration, now time.Time) (Reservation, []Event, error) {
	for _, id := range inv.order {
		t := inv.tickets[id]
		if t.State == StateReserved && t.HeldBy == orderID && t.Type == ticketType {
			return inv.reservationFor(t), nil, nil
		}
	}

	for _, id := range inv.order {
		t := inv.tickets[id]
		if t.Type != ticketType || t.State != StateAvailable {
			continue
		}
		ev := TicketReserved{
			TicketID:   t.ID,
			TicketType: t.Type,
			OrderID:    orderID,
			ExpiresAt:  now.Add(ttl),
		}
		inv.apply(ev)
		return inv.reservationFor(inv.tickets[id]), []Event{ev}, nil
	}

	return Reservation{}, nil, fmt.Errorf("event %s, ticket type %q: %w", inv.id, ticketType, ErrNoAvailableInventory)
}

// Confirm converts orderID's reservation of ticketID into a sale.
func (inv *Inventory) Confirm(ticketID TicketID, orderID OrderID) ([]Event, error) {
	t, ok := inv.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("confirm ticket %s: %w", ticketID, ErrReservationNotFound)
	}
	if _, can := Transition(t.State, ActionConfirm); !can {
		return nil, fmt.Errorf("confirm ticket %s in state %s: %w", ticketID, t.State, ErrReservationNotFound)
	}
	if t.HeldBy != orderID {
		return nil, fmt.Errorf("confirm ticket %s for order %s: %w", ticketID, orderID, ErrHolderMismatch)
	}

	ev := TicketSold{TicketID: ticketID, OrderID: orderID}
	inv.apply(ev)
	return []Event{ev}, nil
}

// Release returns a reserved ticket to the pool. Releasing a ticket that
// is already available is a no-op, not an error, so retried releases and
// reaper/caller races stay quiet.
func (inv *Inventory) Release(ticketID TicketID, reason string) ([]Event, error) {
	t, ok := inv.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("release ticket %s: %w", ticketID, ErrReservationNotFound)
	}
	if t.State == StateAvailable {
		return nil, nil
	}
	if _, can := Transition(t.State, ActionRelease); !can {
		return nil, &InvalidTransitionError{TicketID: ticketID, From: t.State, Action: ActionRelease}
	}

	ev := TicketReleased{TicketID: ticketID, OrderID: t.HeldBy, Reason: reason}
	inv.apply(ev)
	return []Event{ev}, nil
}

// Expire releases a reservation whose time-to-live has elapsed. Calling it
// early fails; the reaper is expected to pre-filter on expiry, this guard
// is defensive.
func (inv *Inventory) Expire(ticketID TicketID, now time.Time) ([]Event, error) {
	t, ok := inv.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("expire ticket %s: %w", ticketID, ErrReservationNotFound)
	}
	if _, can := Transition(t.State, ActionExpire); !can {
		return nil, fmt.Errorf("expire ticket %s in state %s: %w", ticketID, t.State, ErrReservationNotFound)
	}
	if now.Before(t.ExpiresAt) {
		return nil, fmt.Errorf("expire ticket %s at %s, expires %s: %w",
			ticketID, now.Format(time.RFC3339), t.ExpiresAt.Format(time.RFC3339), ErrReservationNotExpired)
	}

	ev := TicketExpired{TicketID: ticketID, OrderID: t.HeldBy, ExpiredAt: now}
	inv.apply(ev)
	return []Event{ev}, nil
}

// ApplyCommitted folds one committed event into the aggregate and advances
// the version. Used by the repository during replay.
func (inv *Inventory) ApplyCommitted(e Event) {
	inv.apply(e)
	inv.version++
}

func (inv *Inventory) apply(e Event) {
	switch ev := e.(type) {
	case TicketReserved:
		t := inv.ensureTicket(ev.TicketID, ev.TicketType)
		t.State = StateReserved
		t.HeldBy = ev.OrderID
		t.ExpiresAt = ev.ExpiresAt
	case TicketSold:
		t := inv.ensureTicket(ev.TicketID, "")
		t.State = StateSold
		t.HeldBy = ""
		t.ExpiresAt = time.Time{}
	case TicketReleased:
		t := inv.ensureTicket(ev.TicketID, "")
		t.State = StateAvailable
		t.HeldBy = ""
		t.ExpiresAt = time.Time{}
	case TicketExpired:
		t := inv.ensureTicket(ev.TicketID, "")
		t.State = StateAvailable
		t.HeldBy = ""
		t.ExpiresAt = time.Time{}
	}
}

// ensureTicket tolerates events for tickets missing from the catalog, so a
// shrunk catalog cannot make an old log unreplayable.
func (inv *Inventory) ensureTicket(id TicketID, ticketType string) *Ticket {
	if t, ok := inv.tickets[id]; ok {
		return t
	}
	t := &Ticket{ID: id, Type: ticketType, State: StateAvailable}
	inv.tickets[id] = t
	inv.order = append(inv.order, id)
	sort.Slice(inv.order, func(i, j int) bool { return inv.order[i] < inv.order[j] })
	return t
}

func (inv *Inventory) reservationFor(t *Ticket) Reservation {
	return Reservation{
		EventID:    inv.id,
		TicketID:   t.ID,
		TicketType: t.Type,
		OrderID:    t.HeldBy,
		ExpiresAt:  t.ExpiresAt,
	}
}
