package realtime

import (
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
)

type SSEClient struct {
	ID       uuid.UUID
	UserID   string
	Channels map[string]bool
	Outbound chan SSEMessage
	done     chan struct{}
	Logger   *logger.Logger
}
