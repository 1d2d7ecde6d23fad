package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/settlement"
	"github.com/pharmstock/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSettlementRecordRepository implements settlement.RecordRepository using GORM
type GormSettlementRecordRepository struct {
	db *gorm.DB
}

// NewGormSettlementRecordRepository creates a new GormSettlementRecordRepository
func NewGormSettlementRecordRepository(db *gorm.DB) *GormSettlementRecordRepository {
	return &GormSettlementRecordRepository{db: db}
}

// Create inserts a new settlement record. A (kind, order) collision means the
// order was already settled and surfaces as shared.ErrDuplicateKey.
func (r *GormSettlementRecordRepository) Create(ctx context.Context, record *settlement.Record) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrDuplicateKey
		}
		return err
	}
	return nil
}

// Update persists progress and final status of a record
func (r *GormSettlementRecordRepository) Update(ctx context.Context, record *settlement.Record) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// FindByOrder finds the settlement record for an order, if one exists
func (r *GormSettlementRecordRepository) FindByOrder(ctx context.Context, kind settlement.OrderKind, orderID uuid.UUID) (*settlement.Record, error) {
	var record settlement.Record
	if err := r.db.WithContext(ctx).
		Where("order_kind = ? AND order_id = ?", kind, orderID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindUnreconciled lists finished records that still carry failed items
func (r *GormSettlementRecordRepository) FindUnreconciled(ctx context.Context, filter shared.Filter) ([]settlement.Record, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&settlement.Record{}).
		Where("items_failed > 0")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []settlement.Record
	if err := query.
		Order("started_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Ensure interface compliance
var _ settlement.RecordRepository = (*GormSettlementRecordRepository)(nil)
