package eventbus

import (
	"context"

	"github.com/voltway/weaver/pkg/events"
)

// EventHandler consumes one decoded platform event.
type EventHandler func(ctx context.Context, event any) error

// EventPublisher publishes run lifecycle events beyond the process boundary.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event events.Event) error
}

// EventSubscriber consumes run lifecycle events from the platform bus.
type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

// EventBus is the platform-level bus (Kafka in production, go channels in
// development and tests). It is a side observer: run correctness never
// depends on it.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
