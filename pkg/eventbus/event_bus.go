// Package eventbus provides event-driven communication infrastructure for
// execution observers: API servers, schedulers and external consumers.
package eventbus

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/events"
)

type EventPublisher interface {
	Publish(ctx context.Context, key string, event events.Event) error
}

type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
