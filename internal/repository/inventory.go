package repository

import (
	"context"
	"fmt"

	"github.com/DevJuliocesar/eventticket-sub002/internal/clock"
	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
	"github.com/DevJuliocesar/eventticket-sub002/internal/entities"
	"github.com/DevJuliocesar/eventticket-sub002/internal/eventstore"
)

// Catalog lists the tickets that exist for an event.
type Catalog interface {
	ListTickets(ctx context.Context, eventID inventory.EventID) ([]inventory.TicketDef, error)
}

// EventPublisher receives the wire form of committed events. In production
// it is a transaction-scoped outbox publisher, so the append and the
// publish commit or roll back together.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// TxRunner runs a function inside a transaction. Satisfied by the
// go-transaction-manager Manager; NopTx serves setups without one.
type TxRunner interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTx runs the function directly, with no transaction.
type NopTx struct{}

func (NopTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// InventoryRepository reconstructs inventory aggregates by replaying their
// event log and persists new events with the optimistic-append discipline.
type InventoryRepository struct {
	store     eventstore.Store
	catalog   Catalog
	publisher EventPublisher
	tx        TxRunner
	clock     clock.Clock
}

func NewInventoryRepository(
	store eventstore.Store,
	catalog Catalog,
	publisher EventPublisher,
	tx TxRunner,
	clk clock.Clock,
) *InventoryRepository {
	if tx == nil {
		tx = NopTx{}
	}
	return &InventoryRepository{
		store:     store,
		catalog:   catalog,
		publisher: publisher,
		tx:        tx,
		clock:     clk,
	}
}

// Load builds the all-available aggregate from the catalog and folds the
// event log over it. A stream with no events yields a fresh aggregate at
// version 0; aggregate creation is implicit.
func (r *InventoryRepository) Load(ctx context.Context, eventID inventory.EventID) (*inventory.Inventory, error) {
	defs, err := r.catalog.ListTickets(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load inventory %s: %w", eventID, err)
	}

	inv := inventory.NewInventory(eventID, defs)

	records, err := r.store.ReadStream(ctx, eventID.String(), 1)
	if err != nil {
		return nil, fmt.Errorf("load inventory %s: %w", eventID, err)
	}
	for _, rec := range records {
		event, err := inventory.UnmarshalEvent(rec.EventName, rec.Payload)
		if err != nil {
			return nil, fmt.Errorf("load inventory %s at version %d: %w", eventID, rec.Version, err)
		}
		inv.ApplyCommitted(event)
	}
	return inv, nil
}

// Save appends newEvents after the aggregate's version and hands their
// wire form to the publisher, inside one transaction. A conflicting writer
// surfaces as eventstore.ErrVersionConflict; the caller reloads and
// retries.
func (r *InventoryRepository) Save(ctx context.Context, inv *inventory.Inventory, newEvents []inventory.Event) error {
	if len(newEvents) == 0 {
		return nil
	}

	records := make([]eventstore.Record, 0, len(newEvents))
	for _, event := range newEvents {
		payload, err := inventory.MarshalEvent(event)
		if err != nil {
			return fmt.Errorf("save inventory %s: %w", inv.ID(), err)
		}
		records = append(records, eventstore.Record{
			EventName:  event.EventName(),
			Payload:    payload,
			OccurredAt: r.clock.Now(),
		})
	}

	return r.tx.Do(ctx, func(ctx context.Context) error {
		if err := r.store.AppendToStream(ctx, inv.ID().String(), inv.Version(), records); err != nil {
			return fmt.Errorf("save inventory %s: %w", inv.ID(), err)
		}
		if r.publisher == nil {
			return nil
		}
		for _, event := range newEvents {
			wire, err := entities.WireEvent(ctx, inv.ID(), event)
			if err != nil {
				return fmt.Errorf("save inventory %s: %w", inv.ID(), err)
			}
			if err := r.publisher.Publish(ctx, wire); err != nil {
				return fmt.Errorf("save inventory %s: publish %s: %w", inv.ID(), event.EventName(), err)
			}
		}
		return nil
	})
}
