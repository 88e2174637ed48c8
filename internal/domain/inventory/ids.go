package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrBlankID is returned when an identifier is constructed from an empty
// or whitespace-only token.
var ErrBlankID = errors.New("identifier must not be blank")

// EventID identifies a single event's inventory aggregate.
type EventID string

func NewEventID(raw string) (EventID, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("event id: %w", ErrBlankID)
	}
	return EventID(raw), nil
}

func GenerateEventID() EventID {
	return EventID(uuid.NewString())
}

func (id EventID) String() string {
	return string(id)
}

// OrderID identifies a customer order holding or requesting a reservation.
type OrderID string

func NewOrderID(raw string) (OrderID, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("order id: %w", ErrBlankID)
	}
	return OrderID(raw), nil
}

func GenerateOrderID() OrderID {
	return OrderID(uuid.NewString())
}

func (id OrderID) String() string {
	return string(id)
}

// TicketID identifies one ticket instance within an event's inventory.
type TicketID string

func NewTicketID(raw string) (TicketID, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("ticket id: %w", ErrBlankID)
	}
	return TicketID(raw), nil
}

func GenerateTicketID() TicketID {
	return TicketID(uuid.NewString())
}

func (id TicketID) String() string {
	return string(id)
}
