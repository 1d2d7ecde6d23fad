package event

import (
	"context"
	"sync/atomic"

	"github.com/pharmstock/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyMetrics tracks duplicate suppression statistics
type IdempotencyMetrics struct {
	Processed  atomic.Int64
	Duplicates atomic.Int64
	Failed     atomic.Int64
}

// IdempotencyStats is a snapshot of idempotency metrics
type IdempotencyStats struct {
	Processed  int64 `json:"processed"`
	Duplicates int64 `json:"duplicates"`
	Failed     int64 `json:"failed"`
}

// Stats returns a snapshot of the current counters
func (m *IdempotencyMetrics) Stats() IdempotencyStats {
	return IdempotencyStats{
		Processed:  m.Processed.Load(),
		Duplicates: m.Duplicates.Load(),
		Failed:     m.Failed.Load(),
	}
}

// IdempotentHandler wraps an EventHandler with an event ID dedupe check so a
// redelivered event is acknowledged without running the handler again.
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	config  shared.IdempotencyConfig
	logger  *zap.Logger
	metrics *IdempotencyMetrics
}

// IdempotentHandlerOption configures an IdempotentHandler
type IdempotentHandlerOption func(*IdempotentHandler)

// WithIdempotencyConfig overrides the default idempotency configuration
func WithIdempotencyConfig(config shared.IdempotencyConfig) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.config = config
	}
}

// WithIdempotencyMetrics shares a metrics instance across handlers
func WithIdempotencyMetrics(metrics *IdempotencyMetrics) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.metrics = metrics
	}
}

// NewIdempotentHandler wraps the handler with idempotency checking
func NewIdempotentHandler(
	handler shared.EventHandler,
	store shared.IdempotencyStore,
	logger *zap.Logger,
	opts ...IdempotentHandlerOption,
) *IdempotentHandler {
	h := &IdempotentHandler{
		handler: handler,
		store:   store,
		config:  shared.DefaultIdempotencyConfig(),
		logger:  logger,
		metrics: &IdempotencyMetrics{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes returns the wrapped handler's subscriptions
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle runs the wrapped handler unless the event ID was already seen.
// A store failure is logged and the event processed anyway: the settlement
// layer has its own per-order dedupe, so a duplicate is cheaper than a
// dropped delivery. When the wrapped handler fails the claim is released,
// so the outbox retry of the same event runs the handler again rather than
// acking a job that never completed.
func (h *IdempotentHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.handler.Handle(ctx, evt)
	}

	eventID := evt.EventID().String()
	claimed := false
	isNew, err := h.store.MarkProcessed(ctx, eventID, h.config.TTL)
	switch {
	case err != nil:
		h.logger.Warn("idempotency check failed, processing anyway",
			zap.String("event_id", eventID),
			zap.String("event_type", evt.EventType()),
			zap.Error(err),
		)
	case !isNew:
		h.metrics.Duplicates.Add(1)
		h.logger.Debug("duplicate event skipped",
			zap.String("event_id", eventID),
			zap.String("event_type", evt.EventType()),
		)
		return nil
	default:
		claimed = true
	}

	if err := h.handler.Handle(ctx, evt); err != nil {
		h.metrics.Failed.Add(1)
		// Release the dedupe key so the outbox retry of this event is
		// processed instead of being skipped as a duplicate.
		if claimed {
			if unmarkErr := h.store.Unmark(ctx, eventID); unmarkErr != nil {
				h.logger.Error("failed to release idempotency key, retries blocked until TTL",
					zap.String("event_id", eventID),
					zap.String("event_type", evt.EventType()),
					zap.Error(unmarkErr),
				)
			}
		}
		return err
	}

	h.metrics.Processed.Add(1)
	return nil
}

// Metrics returns the handler's metrics
func (h *IdempotentHandler) Metrics() *IdempotencyMetrics {
	return h.metrics
}

// Ensure IdempotentHandler implements EventHandler
var _ shared.EventHandler = (*IdempotentHandler)(nil)
