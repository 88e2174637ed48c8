package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
)

var (
	testNow = time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	testTTL = 15 * time.Minute
)

func newTestInventory(t *testing.T) *inventory.Inventory {
	t.Helper()
	eventID, err := inventory.NewEventID("event-1")
	require.NoError(t, err)
	return inventory.NewInventory(eventID, []inventory.TicketDef{
		{ID: "ticket-3", Type: "standard"},
		{ID: "ticket-1", Type: "standard"},
		{ID: "ticket-2", Type: "standard"},
		{ID: "ticket-4", Type: "vip"},
	})
}

func TestNewInventory(t *testing.T) {
	inv := newTestInventory(t)

	assert.Equal(t, inventory.EventID("event-1"), inv.ID())
	assert.Equal(t, 0, inv.Version())
	assert.Equal(t, 3, inv.AvailableCount("standard"))
	assert.Equal(t, 1, inv.AvailableCount("vip"))

	tickets := inv.Tickets()
	require.Len(t, tickets, 4)
	for _, ticket := range tickets {
		assert.Equal(t, inventory.StateAvailable, ticket.State)
		assert.Empty(t, ticket.HeldBy)
		assert.True(t, ticket.ExpiresAt.IsZero())
	}
	// ascending id order regardless of catalog order
	assert.Equal(t, inventory.TicketID("ticket-1"), tickets[0].ID)
	assert.Equal(t, inventory.TicketID("ticket-4"), tickets[3].ID)
}

func TestNewInventory_DeduplicatesCatalog(t *testing.T) {
	inv := inventory.NewInventory("event-1", []inventory.TicketDef{
		{ID: "ticket-1", Type: "standard"},
		{ID: "ticket-1", Type: "vip"},
	})

	tickets := inv.Tickets()
	require.Len(t, tickets, 1)
	assert.Equal(t, "standard", tickets[0].Type)
}

func TestReserve(t *testing.T) {
	t.Run("picks lowest available ticket id", func(t *testing.T) {
		inv := newTestInventory(t)

		res, events, err := inv.Reserve("standard", "order-1", testTTL, testNow)
		require.NoError(t, err)
		require.Len(t, events, 1)

		assert.Equal(t, inventory.TicketID("ticket-1"), res.TicketID)
		assert.Equal(t, inventory.OrderID("order-1"), res.OrderID)
		assert.Equal(t, testNow.Add(testTTL), res.ExpiresAt)

		reserved, ok := events[0].(inventory.TicketReserved)
		require.True(t, ok)
		assert.Equal(t, inventory.TicketID("ticket-1"), reserved.TicketID)
		assert.Equal(t, testNow.Add(testTTL), reserved.ExpiresAt)

		ticket, ok := inv.Ticket("ticket-1")
		require.True(t, ok)
		assert.Equal(t, inventory.StateReserved, ticket.State)
		assert.Equal(t, inventory.OrderID("order-1"), ticket.HeldBy)
	})

	t.Run("skips reserved tickets", func(t *testing.T) {
		inv := newTestInventory(t)

		_, _, err := inv.Reserve("standard", "order-1", testTTL, testNow)
		require.NoError(t, err)

		res, events, err := inv.Reserve("standard", "order-2", testTTL, testNow)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, inventory.TicketID("ticket-2"), res.TicketID)
	})

	t.Run("matches ticket type", func(t *testing.T) {
		inv := newTestInventory(t)

		res, _, err := inv.Reserve("vip", "order-1", testTTL, testNow)
		require.NoError(t, err)
		assert.Equal(t, inventory.TicketID("ticket-4"), res.TicketID)
	})

	t.Run("fails when type is sold out", func(t *testing.T) {
		inv := newTestInventory(t)

		_, _, err := inv.Reserve("vip", "order-1", testTTL, testNow)
		require.NoError(t, err)

		_, _, err = inv.Reserve("vip", "order-2", testTTL, testNow)
		assert.ErrorIs(t, err, inventory.ErrNoAvailableInventory)
	})

	t.Run("fails for unknown ticket type", func(t *testing.T) {
		inv := newTestInventory(t)

		_, _, err := inv.Reserve("backstage", "order-1", testTTL, testNow)
		assert.ErrorIs(t, err, inventory.ErrNoAvailableInventory)
	})

	t.Run("redelivery for the same order returns existing reservation", func(t *testing.T) {
		inv := newTestInventory(t)

		first, events, err := inv.Reserve("standard", "order-1", testTTL, testNow)
		require.NoError(t, err)
		require.Len(t, events, 1)

		second, events, err := inv.Reserve("standard", "order-1", testTTL, testNow.Add(time.Minute))
		require.NoError(t, err)
		assert.Empty(t, events, "redelivery must not emit new events")
		assert.Equal(t, first, second)
		assert.Equal(t, 2, inv.AvailableCount("standard"))
	})
}

func TestConfirm(t *testing.T) {
	t.Run("converts reservation into sale", func(t *testing.T) {
		inv := newTestInventory(t)

		res, _, err := inv.Reserve("standard", "order-1", testTTL, testNow)
		require.NoError(t, err)

		events, err := inv.Confirm(res.TicketID, "order-1")
		require.NoError(t, err)
		require.Len(t, events, 1)

		sold, ok := events[0].(inventory.TicketSold)
		require.True(t, ok)
		assert.Equal(t, res.TicketID, sold.TicketID)

		ticket, _ := inv.Ticket(res.TicketID)
		assert.Equal(t, inventory.StateSold, ticket.State)
		assert.Empty(t, ticket.HeldBy)
		assert.True(t, ticket.ExpiresAt.IsZero())
	})

	t.Run("fails for unknown ticket", func(t *testing.T) {
		inv := newTestInventory(t)

		_, err := inv.Confirm("no-such-ticket", "order-1")
		assert.ErrorIs(t, err, inventory.ErrReservationNotFound)
	})

	t.Run("fails for available ticket", func(t *testing.T) {
		inv := newTestInventory(t)

		_, err := inv.Confirm("ticket-1", "order-1")
		assert.ErrorIs(t, err, inventory.ErrReservationNotFound)
	})

	t.Run("fails when held by another order", func(t *testing.T) {
		inv := newTestInventory(t)

		res, _, err := inv.Reserve("standard", "order-1", testTTL, testNow)
		require.NoError(t, err)

		_, err = inv.Confirm(res.TicketID, "order-2")
		assert.ErrorIs(t, err, inventory.ErrHolderMismatch)

		ticket, _ := inv.Ticket(res.TicketID)
		assert.Equal(t, inventory.StateReserved, ticket.State)
		assert.Equal(t, inventory.OrderID("order-1"), ticket.HeldBy)
	})

	t.Run("sold is terminal", func(t *testing.T) {
		inv := newTestInventory(t)

		res, _, err := inv.Reserve("standard", "order-1", testTTL, testNow)
		require.NoError(t, err)
		_, err = inv.Confirm(res.TicketID, "order-1")
		require.NoError(t, err)

		_, err = inv.Confirm(res.TicketID, "order-1")
		assert.ErrorIs(t, err, inventory.ErrReservationNotFound)
	})
}

func TestRelease(t *testing.T) {
	t.Run("returns reserved ticket to the pool", func(t *testing.T) {
		inv := newTestInventory(t)

		res, _, err := inv.Reserve("standard", "order-1", testTTL, testNow)
		require.NoError(t, err)

		events, err := inv.Release(res.TicketID, "customer cancelled")
		require.NoError(t, err)
		require.Len(t, events, 1)

		released, ok := events[0].(inventory.TicketReleased)
		require.True(t, ok)
		assert.Equal(t, inventory.OrderID("order-1"), released.OrderID)
		assert.Equal(t, "customer cancelled", released.Reason)

		assert.Equal(t, 3, inv.AvailableCount("standard"))
	})

	t.Run("no-op when ticket already available", func(t *testing.T) {
		inv := newTestInventory(t)

		events, err := inv.Release("ticket-1", "retry")
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("fails for unknown ticket", func(t *testing.T) {
		inv := newTestInventory(t)

		_, err := inv.Release("no-such-ticket", "whatever")
		assert.ErrorIs(t, err, inventory.ErrReservationNotFound)
	})

	t.Run("fails for sold ticket", func(t *testing.T) {
		inv := newTestInventory(t)

		res, _, err := inv.Reserve("standard", "order-1", testTTL, testNow)
		require.NoError(t, err)
		_, err = inv.Confirm(res.TicketID, "order-1")
		require.NoError(t, err)

		_, err = inv.Release(res.TicketID, "too late")
		var invalid *inventory.InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, inventory.StateSold, invalid.From)
		assert.Equal(t, inventory.ActionRelease, invalid.Action)
	})
}

func TestExpire(t *testing.T) {
	t.Run("releases reservation past its expiry", func(t *testing.T) {
		inv := newTestInventory(t)

		res, _, err := inv.Reserve("standard", "order-1", testTTL, testNow)
		require.NoError(t, err)

		events, err := inv.Expire(res.TicketID, res.ExpiresAt)
		require.NoError(t, err)
		require.Len(t, events, 1)

		expired, ok := events[0].(inventory.TicketExpired)
		require.True(t, ok)
		assert.Equal(t, inventory.OrderID("order-1"), expired.OrderID)
		assert.Equal(t, res.ExpiresAt, expired.ExpiredAt)

		ticket, _ := inv.Ticket(res.TicketID)
		assert.Equal(t, inventory.StateAvailable, ticket.State)
		assert.Empty(t, ticket.HeldBy)
	})

	t.Run("fails before the reservation expires", func(t *testing.T) {
		inv := newTestInventory(t)

		res, _, err := inv.Reserve("standard", "order-1", testTTL, testNow)
		require.NoError(t, err)

		_, err = inv.Expire(res.TicketID, res.ExpiresAt.Add(-time.Second))
		assert.ErrorIs(t, err, inventory.ErrReservationNotExpired)

		ticket, _ := inv.Ticket(res.TicketID)
		assert.Equal(t, inventory.StateReserved, ticket.State)
	})

	t.Run("fails for a ticket that is not reserved", func(t *testing.T) {
		inv := newTestInventory(t)

		_, err := inv.Expire("ticket-1", testNow)
		assert.ErrorIs(t, err, inventory.ErrReservationNotFound)
	})

	t.Run("fails for unknown ticket", func(t *testing.T) {
		inv := newTestInventory(t)

		_, err := inv.Expire("no-such-ticket", testNow)
		assert.ErrorIs(t, err, inventory.ErrReservationNotFound)
	})
}

func TestReplayDeterminism(t *testing.T) {
	defs := []inventory.TicketDef{
		{ID: "ticket-1", Type: "standard"},
		{ID: "ticket-2", Type: "standard"},
		{ID: "ticket-3", Type: "vip"},
	}

	// Run a realistic command history and capture the emitted events.
	source := inventory.NewInventory("event-1", defs)
	var log []inventory.Event

	res1, events, err := source.Reserve("standard", "order-1", testTTL, testNow)
	require.NoError(t, err)
	log = append(log, events...)

	res2, events, err := source.Reserve("standard", "order-2", testTTL, testNow)
	require.NoError(t, err)
	log = append(log, events...)

	events, err = source.Confirm(res1.TicketID, "order-1")
	require.NoError(t, err)
	log = append(log, events...)

	events, err = source.Expire(res2.TicketID, res2.ExpiresAt)
	require.NoError(t, err)
	log = append(log, events...)

	res3, events, err := source.Reserve("vip", "order-3", testTTL, testNow)
	require.NoError(t, err)
	log = append(log, events...)

	events, err = source.Release(res3.TicketID, "cancelled")
	require.NoError(t, err)
	log = append(log, events...)

	// Fold the captured log over a fresh aggregate.
	replayed := inventory.NewInventory("event-1", defs)
	for _, e := range log {
		replayed.ApplyCommitted(e)
	}

	assert.Equal(t, len(log), replayed.Version())
	assert.Equal(t, source.Tickets(), replayed.Tickets())

	// Replaying again reproduces the same state.
	again := inventory.NewInventory("event-1", defs)
	for _, e := range log {
		again.ApplyCommitted(e)
	}
	assert.Equal(t, replayed.Tickets(), again.Tickets())
}

func TestApplyCommitted_AdvancesVersion(t *testing.T) {
	inv := inventory.NewInventory("event-1", []inventory.TicketDef{{ID: "ticket-1", Type: "standard"}})
	require.Equal(t, 0, inv.Version())

	inv.ApplyCommitted(inventory.TicketReserved{
		TicketID:   "ticket-1",
		TicketType: "standard",
		OrderID:    "order-1",
		ExpiresAt:  testNow.Add(testTTL),
	})
	assert.Equal(t, 1, inv.Version())

	inv.ApplyCommitted(inventory.TicketSold{TicketID: "ticket-1", OrderID: "order-1"})
	assert.Equal(t, 2, inv.Version())
}

func TestApplyCommitted_ToleratesUnknownTicket(t *testing.T) {
	// A log can reference tickets a shrunk catalog no longer lists.
	inv := inventory.NewInventory("event-1", []inventory.TicketDef{{ID: "ticket-1", Type: "standard"}})

	inv.ApplyCommitted(inventory.TicketReserved{
		TicketID:   "ticket-9",
		TicketType: "standard",
		OrderID:    "order-1",
		ExpiresAt:  testNow.Add(testTTL),
	})

	ticket, ok := inv.Ticket("ticket-9")
	require.True(t, ok)
	assert.Equal(t, inventory.StateReserved, ticket.State)
	assert.Equal(t, 1, inv.Version())
}
