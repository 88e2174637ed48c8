// Package eventstore is the append-only, versioned event log capability.
// The conditional append is the single serialization point for all
// concurrent writers of one aggregate.
package eventstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrVersionConflict is returned when another writer already committed at
// one of the requested versions. Callers reload and retry against fresh
// state.
var ErrVersionConflict = errors.New("stream version conflict")

// Record is one stored event. Version is assigned by the store on append:
// a batch appended against expectedVersion V occupies V+1..V+N.
type Record struct {
	StreamID   string          `db:"stream_id"`
	Version    int             `db:"version"`
	EventName  string          `db:"event_name"`
	Payload    json.RawMessage `db:"payload"`
	OccurredAt time.Time       `db:"occurred_at"`
}

type Store interface {
	// AppendToStream atomically appends records after expectedVersion.
	// Fails with ErrVersionConflict if the stream has moved past it.
	AppendToStream(ctx context.Context, streamID string, expectedVersion int, records []Record) error

	// ReadStream returns records with version >= fromVersion in version
	// order. A missing stream reads as empty, not as an error.
	ReadStream(ctx context.Context, streamID string, fromVersion int) ([]Record, error)
}
