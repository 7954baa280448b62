package bus

import (
	"context"

	"github.com/yungbote/neurobridge-dashboard/internal/realtime"
)

// Bus relays SSE messages between replicas so a mutation settled on one replica
// reaches streams held by another.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
