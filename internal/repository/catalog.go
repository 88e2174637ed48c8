package repository

import (
	"context"
	"fmt"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/jmoiron/sqlx"

	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
)

// CatalogRepo stores which tickets exist for an event. The catalog is the
// version-0 shape of an aggregate; the event log is folded on top of it.
type CatalogRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewCatalogRepo(db *sqlx.DB, getter *trmsqlx.CtxGetter) *CatalogRepo {
	return &CatalogRepo{db: db, getter: getter}
}

func (r *CatalogRepo) CreateEvent(ctx context.Context, eventID inventory.EventID, name string, tickets []inventory.TicketDef) error {
	tr := r.getter.DefaultTrOrDB(ctx, r.db)

	_, err := tr.ExecContext(ctx, `
		INSERT INTO events (event_id, name)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		eventID.String(), name,
	)
	if err != nil {
		return fmt.Errorf("failed to create event %s: %w", eventID, err)
	}

	for _, ticket := range tickets {
		_, err = tr.ExecContext(ctx, `
			INSERT INTO event_tickets (ticket_id, event_id, ticket_type)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING`,
			ticket.ID.String(), eventID.String(), ticket.Type,
		)
		if err != nil {
			return fmt.Errorf("failed to add ticket %s to event %s: %w", ticket.ID, eventID, err)
		}
	}
	return nil
}

func (r *CatalogRepo) ListTickets(ctx context.Context, eventID inventory.EventID) ([]inventory.TicketDef, error) {
	tr := r.getter.DefaultTrOrDB(ctx, r.db)

	rows := []struct {
		TicketID   string `db:"ticket_id"`
		TicketType string `db:"ticket_type"`
	}{}
	err := sqlx.SelectContext(ctx, tr, &rows, `
		SELECT ticket_id, ticket_type
		FROM event_tickets
		WHERE event_id = $1
		ORDER BY ticket_id`,
		eventID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets for event %s: %w", eventID, err)
	}

	defs := make([]inventory.TicketDef, 0, len(rows))
	for _, row := range rows {
		defs = append(defs, inventory.TicketDef{
			ID:   inventory.TicketID(row.TicketID),
			Type: row.TicketType,
		})
	}
	return defs, nil
}
