package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/orders"
)

type OrdersRepository interface {
	Create(ctx context.Context, order orders.Order) error
	Get(ctx context.Context, orderID inventory.OrderID) (orders.Order, error)
	SetConfirmed(ctx context.Context, orderID inventory.OrderID, ticketID inventory.TicketID) error
	SetFailed(ctx context.Context, orderID inventory.OrderID, reason string) error
}

type Reserver interface {
	Reserve(ctx context.Context, eventID inventory.EventID, ticketType string, orderID inventory.OrderID) (inventory.Reservation, error)
}

// OrderIntakeService drives one order request from the queue to a settled
// order. Delivery is at-least-once, so every step tolerates redelivery: a
// settled order acknowledges without a new reservation, and a pending one
// re-runs Reserve, which is idempotent per order at the aggregate.
type OrderIntakeService struct {
	orders    OrdersRepository
	inventory Reserver
	logger    zerolog.Logger
}

func NewOrderIntakeService(
	ordersRepo OrdersRepository,
	inv Reserver,
	logger zerolog.Logger,
) *OrderIntakeService {
	return &OrderIntakeService{
		orders:    ordersRepo,
		inventory: inv,
		logger:    logger,
	}
}

// ProcessOrder returns nil when the message should be acknowledged,
// including business rejections that retrying cannot fix. Any other error
// means redeliver: the router retries it and eventually dead-letters.
func (s *OrderIntakeService) ProcessOrder(
	ctx context.Context,
	orderID inventory.OrderID,
	eventID inventory.EventID,
	ticketType string,
) error {
	existing, err := s.orders.Get(ctx, orderID)
	switch {
	case err == nil:
		if existing.Status != orders.StatusPending {
			s.logger.Info().
				Str("order_id", orderID.String()).
				Str("status", string(existing.Status)).
				Msg("order already settled, acknowledging redelivery")
			return nil
		}
	case errors.Is(err, orders.ErrNotFound):
		err = s.orders.Create(ctx, orders.Order{
			ID:         orderID,
			EventID:    eventID,
			TicketType: ticketType,
			Status:     orders.StatusPending,
		})
		if err != nil {
			return err
		}
	default:
		return err
	}

	reservation, err := s.inventory.Reserve(ctx, eventID, ticketType, orderID)
	switch {
	case err == nil:
		return s.orders.SetConfirmed(ctx, orderID, reservation.TicketID)
	case errors.Is(err, inventory.ErrNoAvailableInventory):
		// Correct rejection, not retryable. Settle the order and ack.
		if err := s.orders.SetFailed(ctx, orderID, "no available inventory"); err != nil {
			return err
		}
		s.logger.Info().
			Str("order_id", orderID.String()).
			Str("event_id", eventID.String()).
			Str("ticket_type", ticketType).
			Msg("order failed: no available inventory")
		return nil
	default:
		return err
	}
}
