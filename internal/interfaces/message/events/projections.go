package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
	"github.com/DevJuliocesar/eventticket-sub002/internal/entities"
)

// ReservationIndexWriter maintains the expiry index the reaper scans.
type ReservationIndexWriter interface {
	Upsert(ctx context.Context, res inventory.Reservation) error
	Delete(ctx context.Context, ticketID inventory.TicketID) error
}

// OrderStatusWriter settles orders whose reservation expired.
type OrderStatusWriter interface {
	SetFailed(ctx context.Context, orderID inventory.OrderID, reason string) error
}

type Handler struct {
	reservations ReservationIndexWriter
	orders       OrderStatusWriter
}

func NewHandler(reservations ReservationIndexWriter, orders OrderStatusWriter) *Handler {
	return &Handler{
		reservations: reservations,
		orders:       orders,
	}
}

func (h *Handler) ReservationReservedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"reservation_index.on_ticket_reserved",
		func(ctx context.Context, event *entities.TicketReserved_v1) error {
			return h.reservations.Upsert(ctx, inventory.Reservation{
				EventID:    inventory.EventID(event.EventID),
				TicketID:   inventory.TicketID(event.TicketID),
				TicketType: event.TicketType,
				OrderID:    inventory.OrderID(event.OrderID),
				ExpiresAt:  event.ExpiresAt,
			})
		},
	)
}

func (h *Handler) ReservationSoldHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"reservation_index.on_ticket_sold",
		func(ctx context.Context, event *entities.TicketSold_v1) error {
			return h.reservations.Delete(ctx, inventory.TicketID(event.TicketID))
		},
	)
}

func (h *Handler) ReservationReleasedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"reservation_index.on_ticket_released",
		func(ctx context.Context, event *entities.TicketReleased_v1) error {
			return h.reservations.Delete(ctx, inventory.TicketID(event.TicketID))
		},
	)
}

func (h *Handler) ReservationExpiredHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"reservation_index.on_ticket_expired",
		func(ctx context.Context, event *entities.TicketExpired_v1) error {
			if err := h.reservations.Delete(ctx, inventory.TicketID(event.TicketID)); err != nil {
				return err
			}
			return h.orders.SetFailed(ctx, inventory.OrderID(event.OrderID), "reservation expired")
		},
	)
}
