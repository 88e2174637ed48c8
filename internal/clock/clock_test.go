package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/DevJuliocesar/eventticket-sub002/internal/clock"
)

func TestFixed(t *testing.T) {
	start := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(start)

	assert.Equal(t, start, clk.Now())
	assert.Equal(t, start, clk.Now(), "fixed clock does not move on its own")

	clk.Advance(15 * time.Minute)
	assert.Equal(t, start.Add(15*time.Minute), clk.Now())
}

func TestSystemReturnsUTC(t *testing.T) {
	now := clock.NewSystem().Now()
	assert.Equal(t, time.UTC, now.Location())
}
