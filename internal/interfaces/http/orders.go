package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
)

type PlaceOrderRequest struct {
	OrderID    string `json:"order_id"`
	EventID    string `json:"event_id"`
	TicketType string `json:"ticket_type"`
}

type PlaceOrderResponse struct {
	OrderID string `json:"order_id"`
}

// PlaceOrderHandler accepts the order and enqueues it; the intake pipeline
// settles it asynchronously.
func (s *Server) PlaceOrderHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var request PlaceOrderRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	orderID := inventory.GenerateOrderID()
	if request.OrderID != "" {
		var err error
		orderID, err = inventory.NewOrderID(request.OrderID)
		if err != nil {
			return httpError(err)
		}
	}
	eventID, err := inventory.NewEventID(request.EventID)
	if err != nil {
		return httpError(err)
	}

	if err := s.orderPublisher.PlaceOrder(ctx, orderID, eventID, request.TicketType); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusAccepted, PlaceOrderResponse{OrderID: orderID.String()})
}

func (s *Server) GetOrderHandler(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := inventory.NewOrderID(c.Param("order_id"))
	if err != nil {
		return httpError(err)
	}

	order, err := s.ordersReader.Get(ctx, orderID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

type ConfirmOrderRequest struct {
	EventID  string `json:"event_id"`
	TicketID string `json:"ticket_id"`
}

// ConfirmOrderHandler converts the order's reservation into a sale, e.g.
// once payment settled.
func (s *Server) ConfirmOrderHandler(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := inventory.NewOrderID(c.Param("order_id"))
	if err != nil {
		return httpError(err)
	}

	var request ConfirmOrderRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	eventID, err := inventory.NewEventID(request.EventID)
	if err != nil {
		return httpError(err)
	}
	ticketID, err := inventory.NewTicketID(request.TicketID)
	if err != nil {
		return httpError(err)
	}

	if err := s.inventoryService.Confirm(ctx, eventID, ticketID, orderID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}
