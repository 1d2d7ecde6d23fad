package persistence

import (
	"github.com/pharmstock/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	gormCrudRepository[catalog.Company]
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{gormCrudRepository[catalog.Company]{db: db}}
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	gormCrudRepository[catalog.Product]
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{gormCrudRepository[catalog.Product]{db: db}}
}

// Ensure interface compliance
var (
	_ catalog.CompanyRepository = (*GormCompanyRepository)(nil)
	_ catalog.ProductRepository = (*GormProductRepository)(nil)
)
