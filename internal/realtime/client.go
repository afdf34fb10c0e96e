package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/leaseledger/leaseledger-backend/internal/pkg/logger"
)

type SSEClient struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Channels map[string]bool
	Outbound chan SSEMessage
	done     chan struct{}
	// closeOnce guards done/Outbound: a stream being replaced is closed by
	// the replacing request and again by its own handler on unwind.
	closeOnce sync.Once
	Logger    *logger.Logger
}
