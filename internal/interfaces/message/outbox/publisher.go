package outbox

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	watermillSQL "github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/jmoiron/sqlx"

	"github.com/DevJuliocesar/eventticket-sub002/internal/interfaces/message/events"
)

// Topic is the outbox table's forwarder topic. The forwarder ships
// messages from here to the redis stream after their transaction commits.
const Topic = "events_to_forward"

// NewPublisher writes messages to the outbox table using the given
// transaction, wrapped for the forwarder.
func NewPublisher(
	tx watermillSQL.ContextExecutor,
	logger watermill.LoggerAdapter,
) (message.Publisher, error) {
	publisher, err := watermillSQL.NewPublisher(
		tx,
		watermillSQL.PublisherConfig{
			SchemaAdapter: watermillSQL.DefaultPostgreSQLSchema{},
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox publisher: %w", err)
	}

	return forwarder.NewPublisher(publisher, forwarder.PublisherConfig{
		ForwarderTopic: Topic,
	}), nil
}

// TxEventPublisher publishes wire events into the outbox inside the
// ambient transaction, so the event-log append and the publish are one
// atomic commit.
type TxEventPublisher struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
	logger watermill.LoggerAdapter
}

func NewTxEventPublisher(
	db *sqlx.DB,
	getter *trmsqlx.CtxGetter,
	logger watermill.LoggerAdapter,
) *TxEventPublisher {
	return &TxEventPublisher{
		db:     db,
		getter: getter,
		logger: logger,
	}
}

func (p *TxEventPublisher) Publish(ctx context.Context, event any) error {
	tr := p.getter.DefaultTrOrDB(ctx, p.db)

	publisher, err := NewPublisher(tr, p.logger)
	if err != nil {
		return err
	}

	eventBus, err := events.NewEventBus(publisher, p.logger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}

	return eventBus.Publish(ctx, event)
}
