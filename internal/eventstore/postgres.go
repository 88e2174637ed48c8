package eventstore

import (
	"context"
	"errors"
	"fmt"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresStore persists streams in the inventory_events table. The
// primary key (stream_id, version) makes the append conditional: a racing
// writer that already took a version fails the insert with a unique
// violation, which surfaces as ErrVersionConflict.
//
// Queries go through the transaction-manager getter, so an append joins
// the ambient transaction when the caller opened one (the repository does,
// to commit the append and the outbox publish atomically).
type PostgresStore struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewPostgresStore(db *sqlx.DB, getter *trmsqlx.CtxGetter) *PostgresStore {
	return &PostgresStore{db: db, getter: getter}
}

func (s *PostgresStore) AppendToStream(ctx context.Context, streamID string, expectedVersion int, records []Record) error {
	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	for i, rec := range records {
		version := expectedVersion + i + 1
		_, err := tr.ExecContext(ctx, `
			INSERT INTO inventory_events (stream_id, version, event_name, payload, occurred_at)
			VALUES ($1, $2, $3, $4, $5)`,
			streamID, version, rec.EventName, rec.Payload, rec.OccurredAt,
		)
		if err != nil {
			pgErr := &pq.Error{}
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("stream %s version %d taken: %w", streamID, version, ErrVersionConflict)
			}
			return fmt.Errorf("append to stream %s: %w", streamID, err)
		}
	}
	return nil
}

func (s *PostgresStore) ReadStream(ctx context.Context, streamID string, fromVersion int) ([]Record, error) {
	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	var records []Record
	err := sqlx.SelectContext(ctx, tr, &records, `
		SELECT stream_id, version, event_name, payload, occurred_at
		FROM inventory_events
		WHERE stream_id = $1 AND version >= $2
		ORDER BY version`,
		streamID, fromVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("read stream %s: %w", streamID, err)
	}
	return records, nil
}
