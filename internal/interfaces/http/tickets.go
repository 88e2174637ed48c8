package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
)

type ReleaseTicketRequest struct {
	EventID string `json:"event_id"`
	Reason  string `json:"reason"`
}

func (s *Server) ReleaseTicketHandler(c echo.Context) error {
	ctx := c.Request().Context()

	ticketID, err := inventory.NewTicketID(c.Param("ticket_id"))
	if err != nil {
		return httpError(err)
	}

	var request ReleaseTicketRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	eventID, err := inventory.NewEventID(request.EventID)
	if err != nil {
		return httpError(err)
	}

	reason := request.Reason
	if reason == "" {
		reason = "released by operator"
	}

	if err := s.inventoryService.Release(ctx, eventID, ticketID, reason); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}
