package event

import (
	"context"

	"github.com/rentwise/backend/internal/domain/leasing"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// ApplicationAuditHandler writes every application status change to the log
type ApplicationAuditHandler struct {
	logger *zap.Logger
}

// NewApplicationAuditHandler creates an ApplicationAuditHandler
func NewApplicationAuditHandler(logger *zap.Logger) *ApplicationAuditHandler {
	return &ApplicationAuditHandler{logger: logger.Named("application_audit")}
}

// EventTypes implements shared.EventHandler
func (h *ApplicationAuditHandler) EventTypes() []string {
	return []string{leasing.EventTypeApplicationStatusChanged}
}

// Handle implements shared.EventHandler
func (h *ApplicationAuditHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	changed, ok := evt.(*leasing.ApplicationStatusChangedEvent)
	if !ok {
		return nil
	}
	h.logger.Info("application status changed",
		zap.String("agency_id", changed.AgencyID().String()),
		zap.String("application_id", changed.AggregateID().String()),
		zap.String("listing_id", changed.ListingID.String()),
		zap.String("actor_id", changed.ActorID.String()),
		zap.String("action", string(changed.Action)),
		zap.String("from", string(changed.From)),
		zap.String("to", string(changed.To)),
		zap.Int("step", changed.Step),
		zap.String("effect", string(changed.Effect)),
	)
	return nil
}

// ApplicationMetricsHandler counts application status transitions
type ApplicationMetricsHandler struct {
	metrics *metrics.Metrics
}

// NewApplicationMetricsHandler creates an ApplicationMetricsHandler
func NewApplicationMetricsHandler(m *metrics.Metrics) *ApplicationMetricsHandler {
	return &ApplicationMetricsHandler{metrics: m}
}

// EventTypes implements shared.EventHandler
func (h *ApplicationMetricsHandler) EventTypes() []string {
	return []string{leasing.EventTypeApplicationStatusChanged}
}

// Handle implements shared.EventHandler
func (h *ApplicationMetricsHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	if changed, ok := evt.(*leasing.ApplicationStatusChangedEvent); ok {
		h.metrics.ApplicationTransition(string(changed.From), string(changed.To))
	}
	return nil
}

// RegisterHandlers subscribes the standard handlers to bus
func RegisterHandlers(bus shared.EventSubscriber, logger *zap.Logger, m *metrics.Metrics) {
	bus.Subscribe(NewApplicationAuditHandler(logger))
	bus.Subscribe(NewApplicationMetricsHandler(m))
}
