package events

import (
	"context"

	"go.uber.org/zap"

	domainevents "ideaflow-backend/domain/events"
)

// LogPublisher emits domain events to the structured log. Events are
// observational here; nothing downstream consumes them yet, so the log is
// both the audit trail and the integration point a real broker would take
// over.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a log-backed event publisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.Named("events")}
}

// Publish emits a single event
func (p *LogPublisher) Publish(_ context.Context, event domainevents.DomainEvent) error {
	p.logger.Info("domain event",
		zap.String("type", event.GetEventType()),
		zap.String("aggregateID", event.GetAggregateID()),
		zap.Time("occurredAt", event.GetTimestamp()),
	)
	return nil
}

// PublishBatch emits multiple events
func (p *LogPublisher) PublishBatch(ctx context.Context, events []domainevents.DomainEvent) error {
	for _, event := range events {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
