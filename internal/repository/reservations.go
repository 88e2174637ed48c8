package repository

import (
	"context"
	"fmt"
	"time"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/jmoiron/sqlx"

	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
)

// ReservationsRepo is the reservation expiry index: a read model kept in
// step with the event log by the projection handlers. The reaper scans it
// instead of replaying every aggregate; the log stays the source of truth
// and a stale row here only costs a skipped expire attempt.
type ReservationsRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewReservationsRepo(db *sqlx.DB, getter *trmsqlx.CtxGetter) *ReservationsRepo {
	return &ReservationsRepo{db: db, getter: getter}
}

func (r *ReservationsRepo) Upsert(ctx context.Context, res inventory.Reservation) error {
	tr := r.getter.DefaultTrOrDB(ctx, r.db)

	_, err := tr.ExecContext(ctx, `
		INSERT INTO reservations (ticket_id, event_id, ticket_type, order_id, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ticket_id) DO UPDATE
		SET order_id = EXCLUDED.order_id, expires_at = EXCLUDED.expires_at`,
		res.TicketID.String(), res.EventID.String(), res.TicketType, res.OrderID.String(), res.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert reservation for ticket %s: %w", res.TicketID, err)
	}
	return nil
}

func (r *ReservationsRepo) Delete(ctx context.Context, ticketID inventory.TicketID) error {
	tr := r.getter.DefaultTrOrDB(ctx, r.db)

	_, err := tr.ExecContext(ctx, `DELETE FROM reservations WHERE ticket_id = $1`, ticketID.String())
	if err != nil {
		return fmt.Errorf("failed to delete reservation for ticket %s: %w", ticketID, err)
	}
	return nil
}

func (r *ReservationsRepo) ListExpiring(ctx context.Context, before time.Time, limit int) ([]inventory.Reservation, error) {
	tr := r.getter.DefaultTrOrDB(ctx, r.db)

	rows := []struct {
		TicketID   string    `db:"ticket_id"`
		EventID    string    `db:"event_id"`
		TicketType string    `db:"ticket_type"`
		OrderID    string    `db:"order_id"`
		ExpiresAt  time.Time `db:"expires_at"`
	}{}
	err := sqlx.SelectContext(ctx, tr, &rows, `
		SELECT ticket_id, event_id, ticket_type, order_id, expires_at
		FROM reservations
		WHERE expires_at <= $1
		ORDER BY expires_at
		LIMIT $2`,
		before, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring reservations: %w", err)
	}

	out := make([]inventory.Reservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, inventory.Reservation{
			EventID:    inventory.EventID(row.EventID),
			TicketID:   inventory.TicketID(row.TicketID),
			TicketType: row.TicketType,
			OrderID:    inventory.OrderID(row.OrderID),
			ExpiresAt:  row.ExpiresAt,
		})
	}
	return out, nil
}
