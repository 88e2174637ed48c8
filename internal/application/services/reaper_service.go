package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/DevJuliocesar/eventticket-sub002/internal/clock"
	"github.com/DevJuliocesar/eventticket-sub002/internal/domain/inventory"
)

// ReservationIndex lists reservations whose expiry has passed.
type ReservationIndex interface {
	ListExpiring(ctx context.Context, before time.Time, limit int) ([]inventory.Reservation, error)
}

type TicketExpirer interface {
	Expire(ctx context.Context, eventID inventory.EventID, ticketID inventory.TicketID) error
}

// Report is the outcome of one reaper tick. Err aggregates per-item
// failures; progress on other items is still counted.
type Report struct {
	Released int
	Skipped  int
	Err      error
}

// ReaperService sweeps expired reservations back into available
// inventory. Stateless between ticks: an interrupted sweep leaves the
// remaining candidates for the next one, and overlapping ticks are safe
// because every expire goes through the optimistic append.
type ReaperService struct {
	index     ReservationIndex
	inventory TicketExpirer
	clock     clock.Clock
	batchSize int
	logger    zerolog.Logger
}

func NewReaperService(
	index ReservationIndex,
	inv TicketExpirer,
	clk clock.Clock,
	batchSize int,
	logger zerolog.Logger,
) *ReaperService {
	return &ReaperService{
		index:     index,
		inventory: inv,
		clock:     clk,
		batchSize: batchSize,
		logger:    logger,
	}
}

// RunOnce scans for reservations past their expiry and releases them.
// One failing release does not abort the scan; its error lands in the
// report instead. A tick with zero candidates is a success with count 0.
func (s *ReaperService) RunOnce(ctx context.Context) Report {
	now := s.clock.Now()

	candidates, err := s.index.ListExpiring(ctx, now, s.batchSize)
	if err != nil {
		return Report{Err: fmt.Errorf("list expiring reservations: %w", err)}
	}

	var (
		report Report
		errs   *multierror.Error
	)
	for _, candidate := range candidates {
		err := s.inventory.Expire(ctx, candidate.EventID, candidate.TicketID)
		switch {
		case err == nil:
			report.Released++
		case errors.Is(err, inventory.ErrReservationNotFound), errors.Is(err, inventory.ErrReservationNotExpired):
			// Stale index row, or a confirm/release won the race. The
			// projection catches the index up; nothing to do here.
			report.Skipped++
		default:
			errs = multierror.Append(errs, fmt.Errorf("ticket %s: %w", candidate.TicketID, err))
		}
	}
	report.Err = errs.ErrorOrNil()
	return report
}

// Trigger starts a sweep and returns immediately. The report arrives on
// the returned channel; discarding it is harmless, the next tick picks up
// whatever this one left behind.
func (s *ReaperService) Trigger(ctx context.Context) <-chan Report {
	ch := make(chan Report, 1)
	go func() {
		ch <- s.RunOnce(ctx)
	}()
	return ch
}

// Run sweeps on a fixed interval until the context is cancelled. Errors
// are logged, never raised: the loop must outlive any single bad tick.
func (s *ReaperService) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			report := s.RunOnce(ctx)
			if report.Err != nil {
				s.logger.Error().
					Err(report.Err).
					Int("released", report.Released).
					Int("skipped", report.Skipped).
					Msg("reaper tick finished with errors")
				continue
			}
			if report.Released > 0 || report.Skipped > 0 {
				s.logger.Info().
					Int("released", report.Released).
					Int("skipped", report.Skipped).
					Msg("reaper tick finished")
			}
		}
	}
}
