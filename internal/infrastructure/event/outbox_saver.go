package event

import (
	"context"
	"fmt"

	"github.com/pharmstock/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOutboxEventSaver writes domain events into the outbox table inside the
// caller's transaction, making event emission atomic with the aggregate write.
type GormOutboxEventSaver struct {
	serializer *EventSerializer
}

// NewGormOutboxEventSaver creates a new outbox event saver
func NewGormOutboxEventSaver(serializer *EventSerializer) *GormOutboxEventSaver {
	return &GormOutboxEventSaver{serializer: serializer}
}

// SaveEvents serializes the events and inserts outbox rows using the given
// transaction. txProvider must be a *gorm.DB obtained inside a transaction.
func (s *GormOutboxEventSaver) SaveEvents(ctx context.Context, txProvider interface{}, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, ok := txProvider.(*gorm.DB)
	if !ok {
		return fmt.Errorf("txProvider must be a *gorm.DB, got %T", txProvider)
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, evt := range events {
		payload, err := s.serializer.Serialize(evt)
		if err != nil {
			return fmt.Errorf("serialize %s: %w", evt.EventType(), err)
		}
		entries = append(entries, shared.NewOutboxEntry(evt, payload))
	}

	return NewGormOutboxRepository(tx).Save(ctx, entries...)
}

// Ensure GormOutboxEventSaver implements OutboxEventSaver
var _ shared.OutboxEventSaver = (*GormOutboxEventSaver)(nil)
