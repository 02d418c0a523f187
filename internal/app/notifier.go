package app

import (
	"context"
	"time"

	"github.com/serenehq/serene-backend/internal/pkg/logger"
	"github.com/serenehq/serene-backend/internal/realtime"
	"github.com/serenehq/serene-backend/internal/realtime/bus"
)

// eventNotifier routes service events to connected clients. With a bus, events
// go through redis and come back via the forwarder, so every instance's hub
// sees them exactly once. Without one, they go straight to the local hub.
type eventNotifier struct {
	log *logger.Logger
	hub *realtime.Hub
	bus bus.Bus
}

func newEventNotifier(log *logger.Logger, hub *realtime.Hub, eventBus bus.Bus) *eventNotifier {
	return &eventNotifier{log: log.With("service", "EventNotifier"), hub: hub, bus: eventBus}
}

func (n *eventNotifier) Broadcast(msg realtime.Message) {
	if n.bus != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := n.bus.Publish(ctx, msg); err != nil {
			n.log.Warn("Bus publish failed, falling back to local hub", "event", msg.Event, "error", err)
			n.hub.Broadcast(msg)
		}
		return
	}
	n.hub.Broadcast(msg)
}
