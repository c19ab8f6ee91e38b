package realtime

import (
	"context"
	"log/slog"
)

// Bus carries change events between server instances.
type Bus interface {
	Publish(ctx context.Context, event ChangeEvent) error
	StartForwarder(ctx context.Context, onEvent func(event ChangeEvent)) error
	Close() error
}

// Dispatcher routes store change notifications to the local hub, through the
// bus when one is configured so every instance sees them.
type Dispatcher struct {
	hub *Hub
	bus Bus
	log *slog.Logger
}

func NewDispatcher(hub *Hub, bus Bus, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		hub: hub,
		bus: bus,
		log: log.With("component", "realtime_dispatcher"),
	}
}

func (dispatcher *Dispatcher) Hub() *Hub {
	return dispatcher.hub
}

func (dispatcher *Dispatcher) Start(ctx context.Context) error {
	if dispatcher.bus == nil {
		return nil
	}
	return dispatcher.bus.StartForwarder(ctx, dispatcher.hub.Broadcast)
}

func (dispatcher *Dispatcher) Publish(ctx context.Context, event ChangeEvent) {
	if dispatcher.bus == nil {
		dispatcher.hub.Broadcast(event)
		return
	}
	if err := dispatcher.bus.Publish(ctx, event); err != nil {
		dispatcher.log.Warn("bus publish failed, delivering locally", "channel", event.Channel, "error", err)
		dispatcher.hub.Broadcast(event)
	}
}

func (dispatcher *Dispatcher) Close() error {
	if dispatcher.bus == nil {
		return nil
	}
	return dispatcher.bus.Close()
}
