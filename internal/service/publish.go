package service

import (
	"context"

	"github.com/sr2706/parakram-backend/internal/events"
	"github.com/sr2706/parakram-backend/pkg/logger"
	"go.uber.org/zap"
)

// publish sends an event after the change is stored. Failures are logged only.
func publish(ctx context.Context, p events.Publisher, event events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(context.WithoutCancel(ctx), event); err != nil {
		logger.FromContext(ctx).Warn("failed to publish event",
			zap.String("event_type", event.Type),
			zap.String("event_id", event.ID.String()),
			zap.Error(err))
	}
}
