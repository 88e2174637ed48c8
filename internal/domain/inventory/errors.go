package inventory

import "errors"

var (
	// ErrNoAvailableInventory rejects a reservation when no ticket of the
	// requested type is available. Not retryable.
	ErrNoAvailableInventory = errors.New("no available inventory")

	// ErrReservationNotFound rejects confirm/release/expire when the ticket
	// is unknown or not currently reserved.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrHolderMismatch rejects a confirm by an order that does not hold
	// the reservation.
	ErrHolderMismatch = errors.New("reservation held by another order")

	// ErrReservationNotExpired rejects an expire before the reservation's
	// time-to-live has elapsed. The reaper pre-filters on expiry, so hitting
	// this means the index and the log disagree, or clocks drifted.
	ErrReservationNotExpired = errors.New("reservation not expired yet")
)
