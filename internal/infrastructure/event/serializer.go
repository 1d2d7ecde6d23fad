package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/trade"
)

// EventSerializer converts domain events to and from their outbox payloads.
// Deserialization needs a registered concrete type per event type string.
type EventSerializer struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewEventSerializer creates a serializer with every domain event type
// registered
func NewEventSerializer() *EventSerializer {
	s := &EventSerializer{types: make(map[string]reflect.Type)}
	s.registerDomainEvents()
	return s
}

// Register binds an event type string to the concrete event struct used when
// reading that type back from the outbox
func (s *EventSerializer) Register(eventType string, prototype shared.DomainEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	s.types[eventType] = t
}

// Serialize renders a domain event as its JSON outbox payload
func (s *EventSerializer) Serialize(evt shared.DomainEvent) ([]byte, error) {
	return json.Marshal(evt)
}

// Deserialize reads an outbox payload back into its concrete event type
func (s *EventSerializer) Deserialize(eventType string, payload []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	t, ok := s.types[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	ptr := reflect.New(t).Interface()
	if err := json.Unmarshal(payload, ptr); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", eventType, err)
	}

	evt, ok := ptr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("type registered for %s does not implement DomainEvent", eventType)
	}
	return evt, nil
}

// IsRegistered reports whether an event type can be deserialized
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.types[eventType]
	return ok
}

// registerDomainEvents registers every event the domain layer emits
func (s *EventSerializer) registerDomainEvents() {
	s.Register(inventory.EventTypeStockBatchCreated, &inventory.StockBatchCreatedEvent{})
	s.Register(inventory.EventTypeStockIncreased, &inventory.StockIncreasedEvent{})
	s.Register(inventory.EventTypeStockDecreased, &inventory.StockDecreasedEvent{})
	s.Register(inventory.EventTypeStockDepleted, &inventory.StockDepletedEvent{})
	s.Register(trade.EventTypePurchaseOrderCreated, &trade.PurchaseOrderCreatedEvent{})
	s.Register(trade.EventTypePurchaseOrderCompleted, &trade.PurchaseOrderCompletedEvent{})
	s.Register(trade.EventTypePurchaseOrderCancelled, &trade.PurchaseOrderCancelledEvent{})
	s.Register(trade.EventTypeSaleOrderCreated, &trade.SaleOrderCreatedEvent{})
	s.Register(trade.EventTypeSaleOrderCompleted, &trade.SaleOrderCompletedEvent{})
	s.Register(trade.EventTypeSaleOrderCancelled, &trade.SaleOrderCancelledEvent{})
}
