package orders

import (
	"errors"
	"time"

	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
)

var ErrNotFound = errors.New("order not found")

type Status string

const (
	// StatusPending: accepted from the queue, reservation not settled yet.
	StatusPending Status = "pending"
	// StatusConfirmed: a ticket is reserved for this order, pending payment.
	StatusConfirmed Status = "confirmed"
	// StatusFailed: no inventory, or the reservation expired before payment.
	StatusFailed Status = "failed"
)

type Order struct {
	ID         inventory.OrderID  `json:"order_id"`
	EventID    inventory.EventID  `json:"event_id"`
	TicketType string             `json:"ticket_type"`
	Status     Status             `json:"status"`
	TicketID   inventory.TicketID `json:"ticket_id,omitempty"`
	FailReason string             `json:"fail_reason,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}
