package inventory

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is a fact recorded in an inventory aggregate's log. The set is
// closed: the aggregate's apply switch matches every kind exhaustively.
type Event interface {
	EventName() string
	isInventoryEvent()
}

type TicketReserved struct {
	TicketID   TicketID  `json:"ticket_id"`
	TicketType string    `json:"ticket_type"`
	OrderID    OrderID   `json:"order_id"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (TicketReserved) EventName() string { return "TicketReserved" }
func (TicketReserved) isInventoryEvent() {}

type TicketSold struct {
	TicketID TicketID `json:"ticket_id"`
	OrderID  OrderID  `json:"order_id"`
}

func (TicketSold) EventName() string { return "TicketSold" }
func (TicketSold) isInventoryEvent() {}

type TicketReleased struct {
	TicketID TicketID `json:"ticket_id"`
	OrderID  OrderID  `json:"order_id"`
	Reason   string   `json:"reason"`
}

func (TicketReleased) EventName() string { return "TicketReleased" }
func (TicketReleased) isInventoryEvent() {}

type TicketExpired struct {
	TicketID  TicketID  `json:"ticket_id"`
	OrderID   OrderID   `json:"order_id"`
	ExpiredAt time.Time `json:"expired_at"`
}

func (TicketExpired) EventName() string { return "TicketExpired" }
func (TicketExpired) isInventoryEvent() {}

func MarshalEvent(e Event) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", e.EventName(), err)
	}
	return payload, nil
}

// UnmarshalEvent decodes a stored event by name. An unknown name is a
// corrupted stream or a schema the binary does not know yet; replay stops.
func UnmarshalEvent(name string, payload []byte) (Event, error) {
	var (
		e   Event
		err error
	)
	switch name {
	case TicketReserved{}.EventName():
		var ev TicketReserved
		err = json.Unmarshal(payload, &ev)
		e = ev
	case TicketSold{}.EventName():
		var ev TicketSold
		err = json.Unmarshal(payload, &ev)
		e = ev
	case TicketReleased{}.EventName():
		var ev TicketReleased
		err = json.Unmarshal(payload, &ev)
		e = ev
	case TicketExpired{}.EventName():
		var ev TicketExpired
		err = json.Unmarshal(payload, &ev)
		e = ev
	default:
		return nil, fmt.Errorf("unknown inventory event %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return e, nil
}
