package eventstore

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps streams in process memory. Used by unit tests and
// local runs without postgres; the conditional-append contract is the
// same as the durable implementation.
type MemoryStore struct {
	mu      sync.Mutex
	streams map[string][]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{streams: make(map[string][]Record)}
}

func (s *MemoryStore) AppendToStream(_ context.Context, streamID string, expectedVersion int, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.streams[streamID]
	if len(stream) != expectedVersion {
		return fmt.Errorf("stream %s at version %d, expected %d: %w",
			streamID, len(stream), expectedVersion, ErrVersionConflict)
	}

	for i, rec := range records {
		rec.StreamID = streamID
		rec.Version = expectedVersion + i + 1
		if rec.OccurredAt.IsZero() {
			rec.OccurredAt = time.Now().UTC()
		}
		stream = append(stream, rec)
	}
	s.streams[streamID] = stream
	return nil
}

func (s *MemoryStore) ReadStream(_ context.Context, streamID string, fromVersion int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Record
	for _, rec := range s.streams[streamID] {
		if rec.Version >= fromVersion {
			out = append(out, rec)
		}
	}
	return out, nil
}
