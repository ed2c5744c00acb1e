package shared

import (
	"context"

	"github.com/rentwise/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PublishEvents drains the pending domain events of each aggregate and publishes them.
// Events are always cleared; a nil publisher drops them. Publish failures are logged
// because the state change they describe is already stored.
func PublishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggs ...shared.AggregateRoot) {
	var events []shared.DomainEvent
	for _, agg := range aggs {
		events = append(events, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}
