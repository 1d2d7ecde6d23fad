package settlement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	t.Run("starts processing", func(t *testing.T) {
		record, err := NewRecord(OrderKindPurchase, uuid.New(), uuid.New(), 3)
		require.NoError(t, err)

		assert.Equal(t, RecordStatusProcessing, record.Status)
		assert.Equal(t, 3, record.ItemsTotal)
		assert.False(t, record.IsFinished())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewRecord(OrderKind("REFUND"), uuid.New(), uuid.New(), 1)
		assert.Error(t, err)

		_, err = NewRecord(OrderKindSale, uuid.Nil, uuid.New(), 1)
		assert.Error(t, err)
	})
}

func TestRecord_Finish(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		applied  int
		failed   int
		expected RecordStatus
	}{
		{"all applied", 3, 3, 0, RecordStatusCompleted},
		{"no items", 0, 0, 0, RecordStatusCompleted},
		{"all failed", 3, 0, 3, RecordStatusFailed},
		{"partial failure", 3, 2, 1, RecordStatusCompletedWithErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := NewRecord(OrderKindSale, uuid.New(), uuid.New(), tt.total)
			require.NoError(t, err)

			for i := 0; i < tt.applied; i++ {
				record.RecordItemApplied()
			}
			for i := 0; i < tt.failed; i++ {
				record.RecordItemFailed("batch not found")
			}

			record.Finish()

			assert.Equal(t, tt.expected, record.Status)
			assert.True(t, record.IsFinished())
			require.NotNil(t, record.FinishedAt)
			assert.Equal(t, tt.failed > 0, record.HasDiscrepancy())
		})
	}
}

func TestRecord_RecordItemFailed_KeepsLatestError(t *testing.T) {
	record, err := NewRecord(OrderKindPurchase, uuid.New(), uuid.New(), 2)
	require.NoError(t, err)

	record.RecordItemFailed("first failure")
	record.RecordItemFailed("second failure")

	assert.Equal(t, 2, record.ItemsFailed)
	assert.Equal(t, "second failure", record.LastError)
}
