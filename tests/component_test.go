//go:build component

package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createEventRequest struct {
	EventID string              `json:"event_id"`
	Name    string              `json:"name"`
	Tickets []ticketTypeRequest `json:"tickets"`
}

type ticketTypeRequest struct {
	TicketType string `json:"ticket_type"`
	Quantity   int    `json:"quantity"`
}

type createEventResponse struct {
	EventID string   `json:"event_id"`
	Tickets []string `json:"ticket_ids"`
}

type placeOrderRequest struct {
	OrderID    string `json:"order_id"`
	EventID    string `json:"event_id"`
	TicketType string `json:"ticket_type"`
}

type orderResponse struct {
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	TicketID   string `json:"ticket_id"`
	FailReason string `json:"fail_reason"`
}

type ticketResponse struct {
	TicketID   string `json:"ticket_id"`
	TicketType string `json:"ticket_type"`
	State      string `json:"state"`
	HeldBy     string `json:"held_by"`
}

func (s *ComponentTestSuite) postJSON(path string, body any, out any) int {
	payload, err := json.Marshal(body)
	require.NoError(s.T(), err)

	resp, err := s.httpClient.Post(s.baseURL+path, "application/json", bytes.NewReader(payload))
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *ComponentTestSuite) getJSON(path string, out any) int {
	resp, err := s.httpClient.Get(s.baseURL + path)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *ComponentTestSuite) createEvent(quantity int) createEventResponse {
	var created createEventResponse
	status := s.postJSON("/events", createEventRequest{
		EventID: uuid.NewString(),
		Name:    "component test event",
		Tickets: []ticketTypeRequest{{TicketType: "standard", Quantity: quantity}},
	}, &created)
	require.Equal(s.T(), http.StatusCreated, status)
	require.Len(s.T(), created.Tickets, quantity)
	return created
}

func (s *ComponentTestSuite) waitForOrderStatus(orderID, want string, timeout time.Duration) orderResponse {
	deadline := time.Now().Add(timeout)
	var last orderResponse
	for time.Now().Before(deadline) {
		if s.getJSON("/orders/"+orderID, &last) == http.StatusOK && last.Status == want {
			return last
		}
		time.Sleep(200 * time.Millisecond)
	}
	s.T().Fatalf("order %s did not reach status %q in time, last: %+v", orderID, want, last)
	return last
}

func (s *ComponentTestSuite) eventTickets(eventID string) []ticketResponse {
	var tickets []ticketResponse
	status := s.getJSON(fmt.Sprintf("/events/%s/tickets", eventID), &tickets)
	require.Equal(s.T(), http.StatusOK, status)
	return tickets
}

func (s *ComponentTestSuite) TestOrderLifecycle() {
	created := s.createEvent(2)
	orderID := uuid.NewString()

	status := s.postJSON("/orders", placeOrderRequest{
		OrderID:    orderID,
		EventID:    created.EventID,
		TicketType: "standard",
	}, nil)
	require.Equal(s.T(), http.StatusAccepted, status)

	order := s.waitForOrderStatus(orderID, "confirmed", 15*time.Second)
	require.NotEmpty(s.T(), order.TicketID)

	tickets := s.eventTickets(created.EventID)
	var reserved int
	for _, ticket := range tickets {
		if ticket.State == "reserved" {
			reserved++
			assert.Equal(s.T(), orderID, ticket.HeldBy)
			assert.Equal(s.T(), order.TicketID, ticket.TicketID)
		}
	}
	assert.Equal(s.T(), 1, reserved)

	// settle payment before the reservation expires
	status = s.postJSON("/orders/"+orderID+"/confirm", map[string]string{
		"event_id":  created.EventID,
		"ticket_id": order.TicketID,
	}, nil)
	require.Equal(s.T(), http.StatusOK, status)

	tickets = s.eventTickets(created.EventID)
	var sold int
	for _, ticket := range tickets {
		if ticket.State == "sold" {
			sold++
		}
	}
	assert.Equal(s.T(), 1, sold)
}

func (s *ComponentTestSuite) TestDuplicateOrderRequestReservesOnce() {
	created := s.createEvent(2)
	orderID := uuid.NewString()

	request := placeOrderRequest{
		OrderID:    orderID,
		EventID:    created.EventID,
		TicketType: "standard",
	}
	require.Equal(s.T(), http.StatusAccepted, s.postJSON("/orders", request, nil))
	require.Equal(s.T(), http.StatusAccepted, s.postJSON("/orders", request, nil))

	s.waitForOrderStatus(orderID, "confirmed", 15*time.Second)

	// the duplicate must not hold a second ticket
	time.Sleep(2 * time.Second)
	var reserved int
	for _, ticket := range s.eventTickets(created.EventID) {
		if ticket.State == "reserved" {
			reserved++
		}
	}
	assert.Equal(s.T(), 1, reserved)
}

func (s *ComponentTestSuite) TestReservationExpiryFailsOrder() {
	created := s.createEvent(1)
	orderID := uuid.NewString()

	status := s.postJSON("/orders", placeOrderRequest{
		OrderID:    orderID,
		EventID:    created.EventID,
		TicketType: "standard",
	}, nil)
	require.Equal(s.T(), http.StatusAccepted, status)

	s.waitForOrderStatus(orderID, "confirmed", 15*time.Second)

	// ttl is 3s and the reaper ticks every 200ms; the reservation expires,
	// the projection fails the order, and the ticket returns to the pool
	order := s.waitForOrderStatus(orderID, "failed", 20*time.Second)
	assert.Equal(s.T(), "reservation expired", order.FailReason)

	deadline := time.Now().Add(10 * time.Second)
	for {
		tickets := s.eventTickets(created.EventID)
		if len(tickets) == 1 && tickets[0].State == "available" {
			break
		}
		if time.Now().After(deadline) {
			s.T().Fatalf("ticket did not return to available, got %+v", tickets)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func (s *ComponentTestSuite) TestSoldOutOrderFails() {
	created := s.createEvent(1)

	winner := uuid.NewString()
	require.Equal(s.T(), http.StatusAccepted, s.postJSON("/orders", placeOrderRequest{
		OrderID:    winner,
		EventID:    created.EventID,
		TicketType: "standard",
	}, nil))
	order := s.waitForOrderStatus(winner, "confirmed", 15*time.Second)

	// sell it so the reaper cannot free it mid-test
	require.Equal(s.T(), http.StatusOK, s.postJSON("/orders/"+winner+"/confirm", map[string]string{
		"event_id":  created.EventID,
		"ticket_id": order.TicketID,
	}, nil))

	loser := uuid.NewString()
	require.Equal(s.T(), http.StatusAccepted, s.postJSON("/orders", placeOrderRequest{
		OrderID:    loser,
		EventID:    created.EventID,
		TicketType: "standard",
	}, nil))

	failed := s.waitForOrderStatus(loser, "failed", 15*time.Second)
	assert.Equal(s.T(), "no available inventory", failed.FailReason)
}

func (s *ComponentTestSuite) TestReaperTriggerEndpoint() {
	resp, err := s.httpClient.Post(s.baseURL+"/reaper/run", "application/json", nil)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var report struct {
		Released int    `json:"released"`
		Skipped  int    `json:"skipped"`
		Error    string `json:"error"`
	}
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&report))
	assert.Empty(s.T(), report.Error)
}
