package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DevJuliocesar/eventticket-sub002/internal/application/services"
	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/orders"
	"github.com/DevJuliocesar/eventticket-sub002/internal/observability"
)

type InventoryService interface {
	Confirm(ctx context.Context, eventID inventory.EventID, ticketID inventory.TicketID, orderID inventory.OrderID) error
	Release(ctx context.Context, eventID inventory.EventID, ticketID inventory.TicketID, reason string) error
}

type InventoryReader interface {
	Load(ctx context.Context, eventID inventory.EventID) (*inventory.Inventory, error)
}

type Catalog interface {
	CreateEvent(ctx context.Context, eventID inventory.EventID, name string, tickets []inventory.TicketDef) error
}

type OrdersReader interface {
	Get(ctx context.Context, orderID inventory.OrderID) (orders.Order, error)
}

type OrderPublisher interface {
	PlaceOrder(ctx context.Context, orderID inventory.OrderID, eventID inventory.EventID, ticketType string) error
}

type Reaper interface {
	Trigger(ctx context.Context) <-chan services.Report
}

type Server struct {
	e    *echo.Echo
	addr string

	inventoryService InventoryService
	inventoryReader  InventoryReader
	catalog          Catalog
	ordersReader     OrdersReader
	orderPublisher   OrderPublisher
	reaper           Reaper
}

func NewServer(
	addr string,
	inventoryService InventoryService,
	inventoryReader InventoryReader,
	catalog Catalog,
	ordersReader OrdersReader,
	orderPublisher OrderPublisher,
	reaper Reaper,
	routerIsRunning func() bool,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		e:                e,
		addr:             addr,
		inventoryService: inventoryService,
		inventoryReader:  inventoryReader,
		catalog:          catalog,
		ordersReader:     ordersReader,
		orderPublisher:   orderPublisher,
		reaper:           reaper,
	}

	e.POST("/events", srv.CreateEventHandler)
	e.GET("/events/:event_id/tickets", srv.GetEventTicketsHandler)

	e.POST("/orders", srv.PlaceOrderHandler)
	e.GET("/orders/:order_id", srv.GetOrderHandler)
	e.POST("/orders/:order_id/confirm", srv.ConfirmOrderHandler)

	e.POST("/tickets/:ticket_id/release", srv.ReleaseTicketHandler)

	e.POST("/reaper/run", srv.RunReaperHandler)

	e.GET("/health", func(c echo.Context) error {
		if !routerIsRunning() {
			return c.String(http.StatusServiceUnavailable, "router is not running")
		}
		return c.String(http.StatusOK, "ok")
	})

	// logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			observability.FromContext(c.Request().Context()).
				WithField("path", c.Request().URL.Path).
				Info("Handling a request")

			err := next(c)

			if err != nil {
				observability.FromContext(c.Request().Context()).
					WithField("error", err).
					Error("Request handling error")
			}

			return err
		}
	})

	return srv
}

func (s *Server) Start() error {
	err := s.e.Start(s.addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// statusFor maps domain rejections to HTTP statuses; anything unmapped is
// an internal error.
func statusFor(err error) int {
	invalidTransition := &inventory.InvalidTransitionError{}
	switch {
	case errors.Is(err, inventory.ErrBlankID):
		return http.StatusBadRequest
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, inventory.ErrReservationNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrNoAvailableInventory),
		errors.Is(err, inventory.ErrHolderMismatch),
		errors.Is(err, inventory.ErrReservationNotExpired),
		errors.As(err, &invalidTransition):
		return http.StatusConflict
	case errors.Is(err, services.ErrConcurrencyConflict):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func httpError(err error) error {
	return echo.NewHTTPError(statusFor(err), err.Error())
}
