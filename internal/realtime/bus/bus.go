package bus

import (
	"context"

	"github.com/leaseledger/leaseledger-backend/internal/realtime"
)

// Bus fans agreement events out across instances: every instance publishes
// its post-commit events and forwards everything it receives into its local
// hub.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
