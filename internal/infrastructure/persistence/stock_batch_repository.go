package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockBatchRepository implements StockBatchRepository using GORM
type GormStockBatchRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormStockBatchRepository creates a new GormStockBatchRepository
func NewGormStockBatchRepository(db *gorm.DB) *GormStockBatchRepository {
	return &GormStockBatchRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormStockBatchRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a stock batch by its ID
func (r *GormStockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	var batch inventory.StockBatch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByKey finds a batch by its (product, batch number) natural key
func (r *GormStockBatchRepository) FindByKey(ctx context.Context, key inventory.BatchKey) (*inventory.StockBatch, error) {
	var batch inventory.StockBatch
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND batch_number = ?", key.ProductID, key.BatchNumber).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindAll lists stock batches with pagination
func (r *GormStockBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockBatch, error) {
	var batches []inventory.StockBatch
	query := r.db.WithContext(ctx).Model(&inventory.StockBatch{})
	if productID, ok := filter.Filters["product_id"]; ok {
		query = query.Where("product_id = ?", productID)
	}
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Count returns the number of stock batches matching the filter
func (r *GormStockBatchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.StockBatch{})
	if productID, ok := filter.Filters["product_id"]; ok {
		query = query.Where("product_id = ?", productID)
	}
	err := query.Count(&count).Error
	return count, err
}

// Save creates or updates a stock batch and drains its domain events into the
// outbox within the same transaction
func (r *GormStockBatchRepository) Save(ctx context.Context, batch *inventory.StockBatch) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(batch).Error; err != nil {
			return err
		}
		if r.outboxSaver != nil {
			if events := batch.GetDomainEvents(); len(events) > 0 {
				if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if isDuplicateKey(err) {
			return shared.ErrDuplicateKey
		}
		return err
	}
	batch.ClearDomainEvents()
	return nil
}

// Delete removes a stock batch. Deletion is restricted while sale order line
// items still reference the batch.
func (r *GormStockBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var referencing int64
		if err := tx.Model(&trade.SaleOrderItem{}).
			Where("stock_batch_id = ?", id).
			Count(&referencing).Error; err != nil {
			return err
		}
		if referencing > 0 {
			return shared.ErrBatchReferenced
		}

		result := tx.Delete(&inventory.StockBatch{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// IncreaseByKey atomically adds delta to the batch with the given key,
// creating the batch if absent. The row lock taken by the update serializes
// concurrent increments on the same key; creation races are resolved by the
// (product_id, batch_number) unique constraint and a retry against the row
// the winner inserted.
func (r *GormStockBatchRepository) IncreaseByKey(ctx context.Context, key inventory.BatchKey, delta int64, expiryDate *time.Time, pricing inventory.Pricing) (*inventory.StockBatch, bool, error) {
	if delta <= 0 {
		return nil, false, shared.NewDomainError("INVALID_QUANTITY", "Increase delta must be positive")
	}

	updated, err := r.adjustByKey(ctx, key, delta, expiryDate)
	if err == nil {
		return updated, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	batch, err := inventory.NewStockBatch(key.ProductID, key.BatchNumber, derefExpiry(expiryDate), delta, pricing)
	if err != nil {
		return nil, false, err
	}
	if err := r.Save(ctx, batch); err != nil {
		if errors.Is(err, shared.ErrDuplicateKey) {
			// Lost the creation race; the row exists now, adjust it instead
			updated, err := r.adjustByKey(ctx, key, delta, expiryDate)
			return updated, false, err
		}
		return nil, false, err
	}
	return batch, true, nil
}

// DecreaseByID atomically subtracts delta from the identified batch
func (r *GormStockBatchRepository) DecreaseByID(ctx context.Context, batchID uuid.UUID, delta int64) (*inventory.StockBatch, error) {
	if delta <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Decrease delta must be positive")
	}

	var batch inventory.StockBatch
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&inventory.StockBatch{}).
			Where("id = ? AND quantity >= ?", batchID, delta).
			Updates(map[string]interface{}{
				"quantity":    gorm.Expr("quantity - ?", delta),
				"total_value": gorm.Expr("round((quantity - ?) * purchase_price * (1 + tax_percent / 100), 2)", delta),
				"version":     gorm.Expr("version + 1"),
				"updated_at":  time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&inventory.StockBatch{}).Where("id = ?", batchID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return shared.ErrNotFound
			}
			return shared.ErrInsufficientStock
		}
		return tx.First(&batch, "id = ?", batchID).Error
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// adjustByKey applies a positive delta to an existing batch under a row lock
func (r *GormStockBatchRepository) adjustByKey(ctx context.Context, key inventory.BatchKey, delta int64, expiryDate *time.Time) (*inventory.StockBatch, error) {
	var batch inventory.StockBatch
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ? AND batch_number = ?", key.ProductID, key.BatchNumber).
			First(&batch).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := batch.Increase(delta, expiryDate); err != nil {
			return err
		}
		batch.ClearDomainEvents()
		return tx.Save(&batch).Error
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// FindBelowQuantity lists batches at or below the given quantity threshold
func (r *GormStockBatchRepository) FindBelowQuantity(ctx context.Context, threshold int64, filter shared.Filter) ([]inventory.StockBatch, error) {
	var batches []inventory.StockBatch
	if err := r.db.WithContext(ctx).
		Where("quantity <= ?", threshold).
		Order("quantity ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// CountReferencingSaleItems counts sale order line items referencing the batch
func (r *GormStockBatchRepository) CountReferencingSaleItems(ctx context.Context, batchID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&trade.SaleOrderItem{}).
		Where("stock_batch_id = ?", batchID).
		Count(&count).Error
	return count, err
}

func derefExpiry(expiry *time.Time) time.Time {
	if expiry != nil {
		return *expiry
	}
	return time.Time{}
}

// Ensure interface compliance
var _ inventory.StockBatchRepository = (*GormStockBatchRepository)(nil)
