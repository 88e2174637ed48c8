package commands

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
	"github.com/DevJuliocesar/eventticket-sub002/internal/entities"
)

// Publisher enqueues order requests for the intake pipeline.
type Publisher struct {
	bus *cqrs.CommandBus
}

func NewPublisher(bus *cqrs.CommandBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) PlaceOrder(
	ctx context.Context,
	orderID inventory.OrderID,
	eventID inventory.EventID,
	ticketType string,
) error {
	err := p.bus.Send(ctx, entities.PlaceOrder{
		OrderID:    orderID.String(),
		EventID:    eventID.String(),
		TicketType: ticketType,
	})
	if err != nil {
		return fmt.Errorf("failed to send place order command: %w", err)
	}
	return nil
}
