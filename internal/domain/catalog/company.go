package catalog

import (
	"time"

	"github.com/pharmstock/backend/internal/domain/shared"
)

// Company represents a pharmaceutical manufacturer or marketer
type Company struct {
	shared.BaseEntity
	Name string `gorm:"size:100;not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Company) TableName() string {
	return "companies"
}

// NewCompany creates a new company
func NewCompany(name string) (*Company, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 100 characters")
	}

	return &Company{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// Rename changes the company name
func (c *Company) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	return nil
}
