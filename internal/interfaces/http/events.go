package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
)

type CreateEventRequest struct {
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Tickets []struct {
		TicketType string `json:"ticket_type"`
		Quantity   int    `json:"quantity"`
	} `json:"tickets"`
}

type CreateEventResponse struct {
	EventID string   `json:"event_id"`
	Tickets []string `json:"ticket_ids"`
}

func (s *Server) CreateEventHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var request CreateEventRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	eventID := inventory.GenerateEventID()
	if request.EventID != "" {
		var err error
		eventID, err = inventory.NewEventID(request.EventID)
		if err != nil {
			return httpError(err)
		}
	}

	var defs []inventory.TicketDef
	for _, t := range request.Tickets {
		for i := 0; i < t.Quantity; i++ {
			defs = append(defs, inventory.TicketDef{
				ID:   inventory.GenerateTicketID(),
				Type: t.TicketType,
			})
		}
	}

	if err := s.catalog.CreateEvent(ctx, eventID, request.Name, defs); err != nil {
		return httpError(err)
	}

	resp := CreateEventResponse{EventID: eventID.String()}
	for _, def := range defs {
		resp.Tickets = append(resp.Tickets, def.ID.String())
	}
	return c.JSON(http.StatusCreated, resp)
}

type TicketResponse struct {
	TicketID   string     `json:"ticket_id"`
	TicketType string     `json:"ticket_type"`
	State      string     `json:"state"`
	HeldBy     string     `json:"held_by,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

func (s *Server) GetEventTicketsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	eventID, err := inventory.NewEventID(c.Param("event_id"))
	if err != nil {
		return httpError(err)
	}

	inv, err := s.inventoryReader.Load(ctx, eventID)
	if err != nil {
		return httpError(err)
	}

	tickets := inv.Tickets()
	resp := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		tr := TicketResponse{
			TicketID:   t.ID.String(),
			TicketType: t.Type,
			State:      string(t.State),
			HeldBy:     t.HeldBy.String(),
		}
		if !t.ExpiresAt.IsZero() {
			expiresAt := t.ExpiresAt
			tr.ExpiresAt = &expiresAt
		}
		resp = append(resp, tr)
	}
	return c.JSON(http.StatusOK, resp)
}
