package message

import (
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/DevJuliocesar/eventticket-sub002/internal/observability"
)

// CorrelationPublisherDecorator stamps outgoing messages with the
// correlation id of the context they were published from.
type CorrelationPublisherDecorator struct {
	message.Publisher
}

func (c CorrelationPublisherDecorator) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.Metadata.Get("correlation_id") == "" {
			msg.Metadata.Set("correlation_id", observability.CorrelationIDFromContext(msg.Context()))
		}
	}
	return c.Publisher.Publish(topic, messages...)
}
