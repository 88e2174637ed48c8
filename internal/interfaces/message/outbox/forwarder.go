package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillSQL "github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
)

// Forwarder ships committed outbox rows from postgres to the redis
// stream. Rows land in the outbox inside the same transaction as the
// event-log append; from there delivery is at-least-once.
type Forwarder struct {
	fwd *forwarder.Forwarder
}

func NewForwarder(
	db *sqlx.DB,
	redisPublisher message.Publisher,
	logger watermill.LoggerAdapter,
) (*Forwarder, error) {
	subscriber, err := watermillSQL.NewSubscriber(
		db,
		watermillSQL.SubscriberConfig{
			SchemaAdapter:  watermillSQL.DefaultPostgreSQLSchema{},
			OffsetsAdapter: watermillSQL.DefaultPostgreSQLOffsetsAdapter{},
			PollInterval:   100 * time.Millisecond,
			ResendInterval: 100 * time.Millisecond,
			RetryInterval:  100 * time.Millisecond,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox subscriber: %w", err)
	}

	// Creates the outbox table on first use.
	if err := subscriber.SubscribeInitialize(Topic); err != nil {
		return nil, fmt.Errorf("failed to initialize outbox topic: %w", err)
	}

	fwd, err := forwarder.NewForwarder(subscriber, redisPublisher, logger, forwarder.Config{
		ForwarderTopic: Topic,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox forwarder: %w", err)
	}

	return &Forwarder{fwd: fwd}, nil
}

// Run blocks until the context is cancelled.
func (f *Forwarder) Run(ctx context.Context) error {
	return f.fwd.Run(ctx)
}

// Running unblocks once the forwarder is consuming the outbox.
func (f *Forwarder) Running() chan struct{} {
	return f.fwd.Running()
}
