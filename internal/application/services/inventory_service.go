package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/DevJuliocesar/eventticket-sub002/internal/clock"
	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
	"github.com/DevJuliocesar/eventticket-sub002/internal/eventstore"
)

// ErrConcurrencyConflict is returned when the bounded optimistic retry
// loop keeps losing the append race. Transient: the caller may retry the
// whole command later.
var ErrConcurrencyConflict = errors.New("concurrency conflict")

const maxOptimisticAttempts = 3

type InventoryRepo interface {
	Load(ctx context.Context, eventID inventory.EventID) (*inventory.Inventory, error)
	Save(ctx context.Context, inv *inventory.Inventory, newEvents []inventory.Event) error
}

// InventoryService runs inventory commands with the load -> decide -> save
// discipline. No in-process locks: the event store's conditional append is
// the only serialization point, and losers reload and re-decide.
type InventoryService struct {
	repo   InventoryRepo
	clock  clock.Clock
	ttl    time.Duration
	logger zerolog.Logger
}

func NewInventoryService(
	repo InventoryRepo,
	clk clock.Clock,
	reservationTTL time.Duration,
	logger zerolog.Logger,
) *InventoryService {
	return &InventoryService{
		repo:   repo,
		clock:  clk,
		ttl:    reservationTTL,
		logger: logger,
	}
}

// Reserve holds one ticket of the requested type for the order.
func (s *InventoryService) Reserve(
	ctx context.Context,
	eventID inventory.EventID,
	ticketType string,
	orderID inventory.OrderID,
) (inventory.Reservation, error) {
	var reservation inventory.Reservation
	err := s.withOptimisticRetry(ctx, eventID, func(inv *inventory.Inventory) ([]inventory.Event, error) {
		res, events, err := inv.Reserve(ticketType, orderID, s.ttl, s.clock.Now())
		if err != nil {
			return nil, err
		}
		reservation = res
		return events, nil
	})
	if err != nil {
		return inventory.Reservation{}, err
	}
	return reservation, nil
}

// Confirm converts the order's reservation into a sale.
func (s *InventoryService) Confirm(
	ctx context.Context,
	eventID inventory.EventID,
	ticketID inventory.TicketID,
	orderID inventory.OrderID,
) error {
	return s.withOptimisticRetry(ctx, eventID, func(inv *inventory.Inventory) ([]inventory.Event, error) {
		return inv.Confirm(ticketID, orderID)
	})
}

// Release returns a reserved ticket to the pool.
func (s *InventoryService) Release(
	ctx context.Context,
	eventID inventory.EventID,
	ticketID inventory.TicketID,
	reason string,
) error {
	return s.withOptimisticRetry(ctx, eventID, func(inv *inventory.Inventory) ([]inventory.Event, error) {
		return inv.Release(ticketID, reason)
	})
}

// Expire releases a reservation whose time-to-live has elapsed.
func (s *InventoryService) Expire(
	ctx context.Context,
	eventID inventory.EventID,
	ticketID inventory.TicketID,
) error {
	return s.withOptimisticRetry(ctx, eventID, func(inv *inventory.Inventory) ([]inventory.Event, error) {
		return inv.Expire(ticketID, s.clock.Now())
	})
}

// withOptimisticRetry reloads and re-decides on version conflicts, up to
// maxOptimisticAttempts. Domain rejections return immediately: the command
// was evaluated against fresh state and refused, retrying cannot help.
func (s *InventoryService) withOptimisticRetry(
	ctx context.Context,
	eventID inventory.EventID,
	decide func(inv *inventory.Inventory) ([]inventory.Event, error),
) error {
	var lastErr error
	for attempt := 1; attempt <= maxOptimisticAttempts; attempt++ {
		inv, err := s.repo.Load(ctx, eventID)
		if err != nil {
			return err
		}

		events, err := decide(inv)
		if err != nil {
			return err
		}

		err = s.repo.Save(ctx, inv, events)
		if err == nil {
			return nil
		}
		if !errors.Is(err, eventstore.ErrVersionConflict) {
			return err
		}

		lastErr = err
		s.logger.Debug().
			Str("event_id", eventID.String()).
			Int("attempt", attempt).
			Msg("version conflict, reloading")
	}
	return fmt.Errorf("%w: %w", ErrConcurrencyConflict, lastErr)
}
