package entities

// PlaceOrder is the inbound order request consumed from the queue.
// Delivery is at-least-once; OrderID is the idempotency handle.
type PlaceOrder struct {
	OrderID    string `json:"order_id"`
	EventID    string `json:"event_id"`
	TicketType string `json:"ticket_type"`
}
