// Package events broadcasts device state changes to observers such as the
// log, the metrics gauges and the mirror LED. Delivery is asynchronous:
// publishers never wait for subscribers.
package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case StateChangedEvent:
		event.Publish(b.dispatcher, e)
	case CommandFailedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function. The handler type
// selects the event type. Returns an unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e StateChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(StateChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CommandFailedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		// Unknown handler types receive nothing
		return func() {}
	}
}
