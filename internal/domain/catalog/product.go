package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// Product represents a drug/medicine sold by the pharmacy.
// Stock is tracked per batch, not on the product itself.
type Product struct {
	shared.BaseEntity
	Name      string     `gorm:"size:255;not null;uniqueIndex"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name string, companyID *uuid.UUID) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		CompanyID:  companyID,
	}, nil
}

// Rename changes the product name
func (p *Product) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return nil
}

// AssignCompany links the product to a company, nil detaches it
func (p *Product) AssignCompany(companyID *uuid.UUID) {
	p.CompanyID = companyID
	p.UpdatedAt = time.Now()
}
