package partner

import (
	"time"

	"github.com/pharmstock/backend/internal/domain/shared"
)

// Customer represents a buyer the pharmacy sells to (retailer, hospital, clinic)
type Customer struct {
	shared.BaseEntity
	Name string `gorm:"size:255;not null;uniqueIndex"`
	ContactInfo
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(name string, contact ContactInfo) (*Customer, error) {
	if err := validateContact(name, contact); err != nil {
		return nil, err
	}
	return &Customer{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		ContactInfo: contact,
	}, nil
}

// Update replaces the customer's name and contact details
func (c *Customer) Update(name string, contact ContactInfo) error {
	if err := validateContact(name, contact); err != nil {
		return err
	}
	c.Name = name
	c.ContactInfo = contact
	c.UpdatedAt = time.Now()
	return nil
}
