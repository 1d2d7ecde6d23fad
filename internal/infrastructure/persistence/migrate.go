package persistence

import (
	"github.com/pharmstock/backend/internal/domain/catalog"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/partner"
	"github.com/pharmstock/backend/internal/domain/settings"
	"github.com/pharmstock/backend/internal/domain/settlement"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for all persistent models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Company{},
		&catalog.Product{},
		&partner.Supplier{},
		&partner.Customer{},
		&inventory.StockBatch{},
		&trade.PurchaseOrder{},
		&trade.PurchaseOrderItem{},
		&trade.SaleOrder{},
		&trade.SaleOrderItem{},
		&settlement.Record{},
		&settings.CompanySettings{},
		&shared.OutboxEntry{},
	)
}
