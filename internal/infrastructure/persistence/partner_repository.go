package persistence

import (
	"github.com/pharmstock/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	gormCrudRepository[partner.Supplier]
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{gormCrudRepository[partner.Supplier]{db: db}}
}

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	gormCrudRepository[partner.Customer]
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{gormCrudRepository[partner.Customer]{db: db}}
}

// Ensure interface compliance
var (
	_ partner.SupplierRepository = (*GormSupplierRepository)(nil)
	_ partner.CustomerRepository = (*GormCustomerRepository)(nil)
)
