package message

import (
	"context"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/DevJuliocesar/eventticket-sub002/internal/interfaces/message/commands"
	"github.com/DevJuliocesar/eventticket-sub002/internal/interfaces/message/events"
)

// DeadLetterTopic receives messages that exhausted their retries. Nothing
// consumes it automatically; it exists for manual triage.
const DeadLetterTopic = "dead_letter"

type RouterConfig struct {
	MaxRetries int
}

func NewRouter(
	watermillLogger watermill.LoggerAdapter,
	deadLetterPublisher message.Publisher,
	cfg RouterConfig,

	eventHandler *events.Handler,
	commandsHandler *commands.Handler,

	eventProcessorConfig cqrs.EventProcessorConfig,
	commandProcessorConfig cqrs.CommandProcessorConfig,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, err
	}

	if err := initMiddlewares(router, watermillLogger, deadLetterPublisher, cfg); err != nil {
		return nil, err
	}

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, eventProcessorConfig)
	if err != nil {
		return nil, err
	}
	err = eventProcessor.AddHandlers(
		eventHandler.ReservationReservedHandler(),
		eventHandler.ReservationSoldHandler(),
		eventHandler.ReservationReleasedHandler(),
		eventHandler.ReservationExpiredHandler(),
	)
	if err != nil {
		return nil, err
	}

	commandsProcessor, err := cqrs.NewCommandProcessorWithConfig(router, commandProcessorConfig)
	if err != nil {
		return nil, err
	}
	err = commandsProcessor.AddHandlers(
		commandsHandler.PlaceOrderHandler(),
	)
	if err != nil {
		return nil, err
	}

	return router, nil
}

func initMiddlewares(
	router *message.Router,
	watermillLogger watermill.LoggerAdapter,
	deadLetterPublisher message.Publisher,
	cfg RouterConfig,
) error {
	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(events.CorrelationIDMiddleware)
	router.AddMiddleware(events.LoggingMiddleware)

	// Messages that keep failing after the retries below are shipped to
	// the dead-letter topic instead of blocking the stream forever.
	poisonQueue, err := middleware.PoisonQueueWithFilter(
		deadLetterPublisher,
		DeadLetterTopic,
		func(err error) bool {
			return !errors.Is(err, context.Canceled)
		},
	)
	if err != nil {
		return err
	}
	router.AddMiddleware(poisonQueue)

	router.AddMiddleware(middleware.Retry{
		MaxRetries:      cfg.MaxRetries,
		InitialInterval: time.Millisecond * 100,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          watermillLogger,
	}.Middleware)

	// skip marshalling errors before retrying
	router.AddMiddleware(events.SkipMarshallingErrorsMiddleware)

	return nil
}
