package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPricing() Pricing {
	return Pricing{
		PurchasePrice: decimal.NewFromInt(100),
		SalePrice:     decimal.NewFromInt(150),
		MRP:           decimal.NewFromInt(180),
		TaxPercent:    decimal.NewFromInt(12),
		HSNCode:       "300490",
	}
}

func newTestBatch(t *testing.T, quantity int64) *StockBatch {
	t.Helper()
	batch, err := NewStockBatch(uuid.New(), "BN-001", time.Now().AddDate(1, 0, 0), quantity, testPricing())
	require.NoError(t, err)
	return batch
}

func TestNewStockBatch(t *testing.T) {
	t.Run("creates batch with derived total value", func(t *testing.T) {
		batch := newTestBatch(t, 10)

		assert.Equal(t, int64(10), batch.Quantity)
		// 10 * 100 * 1.12 = 1120.00
		assert.True(t, decimal.NewFromInt(1120).Equal(batch.TotalValue),
			"total value = %s", batch.TotalValue)
	})

	t.Run("applies default tax when none given", func(t *testing.T) {
		pricing := testPricing()
		pricing.TaxPercent = decimal.Zero

		batch, err := NewStockBatch(uuid.New(), "BN-002", time.Now().AddDate(1, 0, 0), 5, pricing)
		require.NoError(t, err)
		assert.True(t, DefaultTaxPercent.Equal(batch.TaxPercent))
	})

	t.Run("emits created event", func(t *testing.T) {
		batch := newTestBatch(t, 10)

		events := batch.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockBatchCreated, events[0].EventType())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		expiry := time.Now().AddDate(1, 0, 0)

		_, err := NewStockBatch(uuid.Nil, "BN", expiry, 1, testPricing())
		assert.Error(t, err)

		_, err = NewStockBatch(uuid.New(), "", expiry, 1, testPricing())
		assert.Error(t, err)

		_, err = NewStockBatch(uuid.New(), "BN", time.Time{}, 1, testPricing())
		assert.Error(t, err)

		_, err = NewStockBatch(uuid.New(), "BN", expiry, -1, testPricing())
		assert.Error(t, err)

		bad := testPricing()
		bad.PurchasePrice = decimal.NewFromInt(-1)
		_, err = NewStockBatch(uuid.New(), "BN", expiry, 1, bad)
		assert.Error(t, err)
	})

	t.Run("zero quantity is allowed", func(t *testing.T) {
		batch := newTestBatch(t, 0)
		assert.True(t, batch.IsDepleted())
		assert.True(t, decimal.Zero.Equal(batch.TotalValue))
	})
}

func TestStockBatch_Increase(t *testing.T) {
	t.Run("adds quantity and recalculates", func(t *testing.T) {
		batch := newTestBatch(t, 10)
		batch.ClearDomainEvents()

		err := batch.Increase(40, nil)
		require.NoError(t, err)

		assert.Equal(t, int64(50), batch.Quantity)
		// 50 * 100 * 1.12 = 5600.00
		assert.True(t, decimal.NewFromInt(5600).Equal(batch.TotalValue))

		events := batch.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockIncreased, events[0].EventType())
	})

	t.Run("overwrites expiry when supplied", func(t *testing.T) {
		batch := newTestBatch(t, 10)
		newExpiry := time.Now().AddDate(2, 0, 0)

		err := batch.Increase(5, &newExpiry)
		require.NoError(t, err)
		assert.True(t, batch.ExpiryDate.Equal(newExpiry))
	})

	t.Run("rejects non-positive delta", func(t *testing.T) {
		batch := newTestBatch(t, 10)

		assert.Error(t, batch.Increase(0, nil))
		assert.Error(t, batch.Increase(-5, nil))
		assert.Equal(t, int64(10), batch.Quantity)
	})

	t.Run("bumps version", func(t *testing.T) {
		batch := newTestBatch(t, 10)
		before := batch.GetVersion()

		require.NoError(t, batch.Increase(1, nil))
		assert.Equal(t, before+1, batch.GetVersion())
	})
}

func TestStockBatch_Decrease(t *testing.T) {
	t.Run("subtracts quantity and recalculates", func(t *testing.T) {
		batch := newTestBatch(t, 50)
		batch.ClearDomainEvents()

		err := batch.Decrease(10)
		require.NoError(t, err)

		assert.Equal(t, int64(40), batch.Quantity)
		// 40 * 100 * 1.12 = 4480.00
		assert.True(t, decimal.NewFromInt(4480).Equal(batch.TotalValue))

		events := batch.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockDecreased, events[0].EventType())
	})

	t.Run("rejects delta beyond available quantity", func(t *testing.T) {
		batch := newTestBatch(t, 10)

		err := batch.Decrease(11)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(10), batch.Quantity)
	})

	t.Run("depleting to zero emits depletion event", func(t *testing.T) {
		batch := newTestBatch(t, 10)
		batch.ClearDomainEvents()

		err := batch.Decrease(10)
		require.NoError(t, err)
		assert.True(t, batch.IsDepleted())

		events := batch.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeStockDecreased, events[0].EventType())
		assert.Equal(t, EventTypeStockDepleted, events[1].EventType())
	})

	t.Run("rejects non-positive delta", func(t *testing.T) {
		batch := newTestBatch(t, 10)

		assert.Error(t, batch.Decrease(0))
		assert.Error(t, batch.Decrease(-1))
	})
}

func TestStockBatch_SaleTotal(t *testing.T) {
	batch := newTestBatch(t, 100)

	// 10 * 150 * 1.12 = 1680.00
	assert.True(t, decimal.NewFromInt(1680).Equal(batch.SaleTotal(10)))
}

func TestStockBatch_Expiry(t *testing.T) {
	t.Run("expired batch", func(t *testing.T) {
		batch, err := NewStockBatch(uuid.New(), "BN-OLD", time.Now().Add(-time.Hour), 5, testPricing())
		require.NoError(t, err)
		assert.True(t, batch.IsExpired())
	})

	t.Run("will expire within window", func(t *testing.T) {
		batch, err := NewStockBatch(uuid.New(), "BN-SOON", time.Now().Add(24*time.Hour), 5, testPricing())
		require.NoError(t, err)
		assert.True(t, batch.WillExpireWithin(48*time.Hour))
		assert.False(t, batch.WillExpireWithin(time.Hour))
	})
}

func TestStockBatch_CanFulfill(t *testing.T) {
	batch := newTestBatch(t, 10)

	assert.True(t, batch.CanFulfill(10))
	assert.True(t, batch.CanFulfill(1))
	assert.False(t, batch.CanFulfill(11))
}
