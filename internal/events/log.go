package events

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher writes events to the logger when no broker is configured.
type LogPublisher struct {
	l      *zap.Logger
	prefix string
}

func NewLogPublisher(l *zap.Logger, prefix string) *LogPublisher {
	return &LogPublisher{l: l, prefix: prefix}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.l.Info("domain event",
		zap.String("subject", Subject(p.prefix, event.Type)),
		zap.String("event_id", event.ID.String()),
		zap.Time("occurred_at", event.OccurredAt),
		zap.Any("payload", event.Payload))
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
