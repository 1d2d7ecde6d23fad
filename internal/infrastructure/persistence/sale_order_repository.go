package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormSaleOrderRepository implements SaleOrderRepository using GORM
type GormSaleOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormSaleOrderRepository creates a new GormSaleOrderRepository
func NewGormSaleOrderRepository(db *gorm.DB) *GormSaleOrderRepository {
	return &GormSaleOrderRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormSaleOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a sale order, line items included
func (r *GormSaleOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SaleOrder, error) {
	var order trade.SaleOrder
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByInvoiceNumber finds a sale order by its invoice number
func (r *GormSaleOrderRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*trade.SaleOrder, error) {
	var order trade.SaleOrder
	if err := r.db.WithContext(ctx).Preload("Items").
		First(&order, "invoice_number = ?", invoiceNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll lists sale orders with pagination
func (r *GormSaleOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SaleOrder, error) {
	var orders []trade.SaleOrder
	query := r.db.WithContext(ctx).Model(&trade.SaleOrder{}).Preload("Items")
	query = applySaleOrderFilters(query, filter)
	if err := query.
		Order("order_date DESC, created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus lists sale orders in the given status
func (r *GormSaleOrderRepository) FindByStatus(ctx context.Context, status trade.OrderStatus, filter shared.Filter) ([]trade.SaleOrder, error) {
	var orders []trade.SaleOrder
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("status = ?", status).
		Order("order_date DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByCustomer lists sale orders for the given customer
func (r *GormSaleOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]trade.SaleOrder, error) {
	var orders []trade.SaleOrder
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("customer_id = ?", customerID).
		Order("order_date DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count returns the number of sale orders matching the filter
func (r *GormSaleOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&trade.SaleOrder{})
	query = applySaleOrderFilters(query, filter)
	err := query.Count(&count).Error
	return count, err
}

// Save persists the order, its line items, and any pending domain events in a
// single transaction. Line items removed from the aggregate are deleted.
func (r *GormSaleOrderRepository) Save(ctx context.Context, order *trade.SaleOrder) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(order.Items))
		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			if err := tx.Save(item).Error; err != nil {
				return err
			}
			keep = append(keep, item.ID)
		}
		stale := tx.Where("order_id = ?", order.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&trade.SaleOrderItem{}).Error; err != nil {
			return err
		}

		if r.outboxSaver != nil {
			if events := order.GetDomainEvents(); len(events) > 0 {
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
	order.ClearDomainEvents()
	return nil
}

// Delete removes a sale order and, via the cascade, its line items
func (r *GormSaleOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&trade.SaleOrder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GenerateInvoiceNumber produces the next SALE-<year>-<NNNN> number for the
// current year by scanning the highest sequence already issued. Two callers
// can read the same maximum; the unique constraint on invoice_number rejects
// the loser, who retries with a fresh number.
func (r *GormSaleOrderRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("SALE-%d-", year)

	// Ordering by length first keeps the scan correct once a year's
	// sequence grows past 9999: "SALE-2026-10000" sorts before
	// "SALE-2026-9999" lexicographically but is the real maximum.
	var last string
	err := r.db.WithContext(ctx).
		Model(&trade.SaleOrder{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Order("length(invoice_number) DESC, invoice_number DESC").
		Limit(1).
		Pluck("invoice_number", &last).Error
	if err != nil {
		return "", err
	}

	next := 1
	if last != "" {
		var seq int
		if _, err := fmt.Sscanf(last, "SALE-%d-%d", &year, &seq); err == nil {
			next = seq + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, next), nil
}

// ExistsByInvoiceNumber reports whether an invoice number is already taken
func (r *GormSaleOrderRepository) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&trade.SaleOrder{}).
		Where("invoice_number = ?", invoiceNumber).
		Count(&count).Error
	return count > 0, err
}

func applySaleOrderFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if filter.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Ensure interface compliance
var _ trade.SaleOrderRepository = (*GormSaleOrderRepository)(nil)
