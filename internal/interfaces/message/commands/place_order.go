package commands

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
	"github.com/DevJuliocesar/eventticket-sub002/internal/entities"
	"github.com/DevJuliocesar/eventticket-sub002/internal/idempotency"
	"github.com/DevJuliocesar/eventticket-sub002/internal/observability"
)

func (h *Handler) PlaceOrderHandler() cqrs.CommandHandler {
	return cqrs.NewCommandHandler(
		"place_order",
		func(ctx context.Context, command *entities.PlaceOrder) error {
			observability.FromContext(ctx).
				WithField("order_id", command.OrderID).
				Info("Processing order request")

			orderID, err := inventory.NewOrderID(command.OrderID)
			if err != nil {
				return fmt.Errorf("place order: %w", err)
			}
			eventID, err := inventory.NewEventID(command.EventID)
			if err != nil {
				return fmt.Errorf("place order %s: %w", command.OrderID, err)
			}

			ctx = idempotency.WithKey(ctx, command.OrderID)

			if err := h.intake.ProcessOrder(ctx, orderID, eventID, command.TicketType); err != nil {
				return fmt.Errorf("process order %s: %w", command.OrderID, err)
			}
			return nil
		},
	)
}
