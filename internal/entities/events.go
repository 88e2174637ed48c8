package entities

import "time"

// Event is the wire form of a fact published on the bus. Wire events are
// versioned independently of the aggregate's stored events so consumers
// can evolve on their own schedule.
type Event interface {
	IsInternal() bool
}

type TicketReserved_v1 struct {
	Header     EventHeader `json:"header"`
	EventID    string      `json:"event_id"`
	TicketID   string      `json:"ticket_id"`
	TicketType string      `json:"ticket_type"`
	OrderID    string      `json:"order_id"`
	ExpiresAt  time.Time   `json:"expires_at"`
}

func (TicketReserved_v1) IsInternal() bool { return false }

type TicketSold_v1 struct {
	Header   EventHeader `json:"header"`
	EventID  string      `json:"event_id"`
	TicketID string      `json:"ticket_id"`
	OrderID  string      `json:"order_id"`
}

func (TicketSold_v1) IsInternal() bool { return false }

type TicketReleased_v1 struct {
	Header   EventHeader `json:"header"`
	EventID  string      `json:"event_id"`
	TicketID string      `json:"ticket_id"`
	OrderID  string      `json:"order_id"`
	Reason   string      `json:"reason"`
}

func (TicketReleased_v1) IsInternal() bool { return false }

type TicketExpired_v1 struct {
	Header    EventHeader `json:"header"`
	EventID   string      `json:"event_id"`
	TicketID  string      `json:"ticket_id"`
	OrderID   string      `json:"order_id"`
	ExpiredAt time.Time   `json:"expired_at"`
}

func (TicketExpired_v1) IsInternal() bool { return false }
