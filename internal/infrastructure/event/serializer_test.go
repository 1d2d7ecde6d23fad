package event

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSerializer_RegistersAllDomainEvents(t *testing.T) {
	s := NewEventSerializer()

	for _, eventType := range []string{
		inventory.EventTypeStockBatchCreated,
		inventory.EventTypeStockIncreased,
		inventory.EventTypeStockDecreased,
		inventory.EventTypeStockDepleted,
		trade.EventTypePurchaseOrderCreated,
		trade.EventTypePurchaseOrderCompleted,
		trade.EventTypePurchaseOrderCancelled,
		trade.EventTypeSaleOrderCreated,
		trade.EventTypeSaleOrderCompleted,
		trade.EventTypeSaleOrderCancelled,
	} {
		assert.True(t, s.IsRegistered(eventType), "missing registration for %s", eventType)
	}
}

func TestEventSerializer_RoundTrip(t *testing.T) {
	s := NewEventSerializer()

	order, err := trade.NewPurchaseOrder(uuid.New(), "PINV-1001", time.Now())
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), "BN-001", time.Now().AddDate(1, 0, 0), 10, inventory.Pricing{
		PurchasePrice: decimal.NewFromInt(100),
		SalePrice:     decimal.NewFromInt(150),
		MRP:           decimal.NewFromInt(180),
		TaxPercent:    decimal.NewFromInt(12),
	})
	require.NoError(t, err)
	require.NoError(t, order.TransitionTo(trade.OrderStatusCompleted))

	var original *trade.PurchaseOrderCompletedEvent
	for _, evt := range order.GetDomainEvents() {
		if completed, ok := evt.(*trade.PurchaseOrderCompletedEvent); ok {
			original = completed
		}
	}
	require.NotNil(t, original)

	payload, err := s.Serialize(original)
	require.NoError(t, err)

	decoded, err := s.Deserialize(trade.EventTypePurchaseOrderCompleted, payload)
	require.NoError(t, err)

	restored, ok := decoded.(*trade.PurchaseOrderCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, original.EventID(), restored.EventID())
	assert.Equal(t, original.OrderID, restored.OrderID)
	require.Len(t, restored.Items, 1)
	assert.Equal(t, original.Items[0].ItemID, restored.Items[0].ItemID)
	assert.Equal(t, int64(10), restored.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(100).Equal(restored.Items[0].PurchasePrice))
}

func TestEventSerializer_UnknownType(t *testing.T) {
	s := NewEventSerializer()

	_, err := s.Deserialize("no.such.event", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestEventSerializer_InvalidPayload(t *testing.T) {
	s := NewEventSerializer()

	_, err := s.Deserialize(trade.EventTypeSaleOrderCompleted, []byte(`{not json`))
	assert.Error(t, err)
}
