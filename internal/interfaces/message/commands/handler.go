package commands

import (
	"context"

	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
)

type OrderIntake interface {
	ProcessOrder(ctx context.Context, orderID inventory.OrderID, eventID inventory.EventID, ticketType string) error
}

type Handler struct {
	intake OrderIntake
}

func NewHandler(intake OrderIntake) *Handler {
	return &Handler{intake: intake}
}
