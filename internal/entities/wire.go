package entities

import (
	"context"
	"fmt"

	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
	"github.com/DevJuliocesar/eventticket-sub002/internal/idempotency"
)

// WireEvent converts a committed domain event into its published wire
// form. The idempotency key combines the processing key from the context
// with the ticket id, so a redelivered command that ends up republishing
// produces the same key.
func WireEvent(ctx context.Context, eventID inventory.EventID, event inventory.Event) (Event, error) {
	switch e := event.(type) {
	case inventory.TicketReserved:
		return TicketReserved_v1{
			Header:     NewEventHeaderWithIdempotencyKey(idempotency.GetKey(ctx) + e.TicketID.String()),
			EventID:    eventID.String(),
			TicketID:   e.TicketID.String(),
			TicketType: e.TicketType,
			OrderID:    e.OrderID.String(),
			ExpiresAt:  e.ExpiresAt,
		}, nil
	case inventory.TicketSold:
		return TicketSold_v1{
			Header:   NewEventHeaderWithIdempotencyKey(idempotency.GetKey(ctx) + e.TicketID.String()),
			EventID:  eventID.String(),
			TicketID: e.TicketID.String(),
			OrderID:  e.OrderID.String(),
		}, nil
	case inventory.TicketReleased:
		return TicketReleased_v1{
			Header:   NewEventHeaderWithIdempotencyKey(idempotency.GetKey(ctx) + e.TicketID.String()),
			EventID:  eventID.String(),
			TicketID: e.TicketID.String(),
			OrderID:  e.OrderID.String(),
			Reason:   e.Reason,
		}, nil
	case inventory.TicketExpired:
		return TicketExpired_v1{
			Header:    NewEventHeaderWithIdempotencyKey(idempotency.GetKey(ctx) + e.TicketID.String()),
			EventID:   eventID.String(),
			TicketID:  e.TicketID.String(),
			OrderID:   e.OrderID.String(),
			ExpiredAt: e.ExpiredAt,
		}, nil
	default:
		return nil, fmt.Errorf("no wire form for domain event %T", event)
	}
}
