package bus

import (
	"context"

	"github.com/serenehq/serene-backend/internal/realtime"
)

// Bus mirrors hub messages across instances. Single-instance deployments run
// without one.
type Bus interface {
	Publish(ctx context.Context, msg realtime.Message) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error
	Close() error
}
