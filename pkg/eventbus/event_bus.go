// Package eventbus publishes and consumes design lifecycle events over a
// watermill pub/sub channel.
package eventbus

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/workflowwiz/wizard/pkg/events"
)

// EventHandler processes a decoded design lifecycle event.
type EventHandler func(ctx context.Context, event events.Event) error

// EventBus carries design lifecycle notifications between processes.
type EventBus interface {
	Publish(ctx context.Context, event events.Event) error
	Subscribe(ctx context.Context, handler EventHandler) error
	Close() error
}

// WatermillEventBus is the EventBus implementation over any watermill
// publisher/subscriber pair (in-memory gochannel or Kafka).
type WatermillEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
}

func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber) *WatermillEventBus {
	return &WatermillEventBus{
		publisher:  pub,
		subscriber: sub,
	}
}

func (eb *WatermillEventBus) Publish(_ context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewULID(), payload)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	return eb.publisher.Publish(events.Topic, msg)
}

// Subscribe consumes the design topic, decoding messages by their event
// type metadata. Unknown event types are acknowledged and skipped.
func (eb *WatermillEventBus) Subscribe(ctx context.Context, handler EventHandler) error {
	messages, err := eb.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			event := decode(events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey)))
			if event == nil {
				msg.Ack()

				continue
			}

			if err := json.Unmarshal(msg.Payload, event); err != nil {
				msg.Nack()

				continue
			}

			if err := handler(ctx, toEvent(event)); err != nil {
				msg.Nack()

				continue
			}

			msg.Ack()
		}
	}()

	return nil
}

func (eb *WatermillEventBus) Close() error {
	if err := eb.publisher.Close(); err != nil {
		return err
	}

	return eb.subscriber.Close()
}

func decode(eventType events.EventType) any {
	switch eventType {
	case events.IntentExtractedEvent:
		return &events.IntentExtracted{}
	case events.WorkflowPlannedEvent:
		return &events.WorkflowPlanned{}
	case events.WorkflowRejectedEvent:
		return &events.WorkflowRejected{}
	case events.WorkflowAcceptedEvent:
		return &events.WorkflowAccepted{}
	case events.WorkflowUnresolvableEvent:
		return &events.WorkflowUnresolvable{}
	case events.WorkflowExportedEvent:
		return &events.WorkflowExported{}
	default:
		return nil
	}
}

func toEvent(decoded any) events.Event {
	if event, ok := decoded.(events.Event); ok {
		return event
	}

	return nil
}
