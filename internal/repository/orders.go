package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/jmoiron/sqlx"

	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/orders"
)

type OrdersRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewOrdersRepo(db *sqlx.DB, getter *trmsqlx.CtxGetter) *OrdersRepo {
	return &OrdersRepo{db: db, getter: getter}
}

// Create inserts the order if it does not exist yet. Redelivered order
// requests hit the conflict branch and leave the row untouched.
func (r *OrdersRepo) Create(ctx context.Context, order orders.Order) error {
	tr := r.getter.DefaultTrOrDB(ctx, r.db)

	_, err := tr.ExecContext(ctx, `
		INSERT INTO orders (order_id, event_id, ticket_type, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING`,
		order.ID.String(), order.EventID.String(), order.TicketType, string(order.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.ID, err)
	}
	return nil
}

func (r *OrdersRepo) Get(ctx context.Context, orderID inventory.OrderID) (orders.Order, error) {
	tr := r.getter.DefaultTrOrDB(ctx, r.db)

	var row struct {
		OrderID    string         `db:"order_id"`
		EventID    string         `db:"event_id"`
		TicketType string         `db:"ticket_type"`
		Status     string         `db:"status"`
		TicketID   sql.NullString `db:"ticket_id"`
		FailReason sql.NullString `db:"fail_reason"`
		CreatedAt  sql.NullTime   `db:"created_at"`
		UpdatedAt  sql.NullTime   `db:"updated_at"`
	}
	err := sqlx.GetContext(ctx, tr, &row, `
		SELECT order_id, event_id, ticket_type, status, ticket_id, fail_reason, created_at, updated_at
		FROM orders
		WHERE order_id = $1`,
		orderID.String(),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return orders.Order{}, fmt.Errorf("order %s: %w", orderID, orders.ErrNotFound)
	}
	if err != nil {
		return orders.Order{}, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}

	return orders.Order{
		ID:         inventory.OrderID(row.OrderID),
		EventID:    inventory.EventID(row.EventID),
		TicketType: row.TicketType,
		Status:     orders.Status(row.Status),
		TicketID:   inventory.TicketID(row.TicketID.String),
		FailReason: row.FailReason.String,
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}, nil
}

func (r *OrdersRepo) SetConfirmed(ctx context.Context, orderID inventory.OrderID, ticketID inventory.TicketID) error {
	tr := r.getter.DefaultTrOrDB(ctx, r.db)

	_, err := tr.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, ticket_id = $3, fail_reason = NULL, updated_at = now()
		WHERE order_id = $1`,
		orderID.String(), string(orders.StatusConfirmed), ticketID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to confirm order %s: %w", orderID, err)
	}
	return nil
}

func (r *OrdersRepo) SetFailed(ctx context.Context, orderID inventory.OrderID, reason string) error {
	tr := r.getter.DefaultTrOrDB(ctx, r.db)

	_, err := tr.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, fail_reason = $3, updated_at = now()
		WHERE order_id = $1`,
		orderID.String(), string(orders.StatusFailed), reason,
	)
	if err != nil {
		return fmt.Errorf("failed to fail order %s: %w", orderID, err)
	}
	return nil
}
