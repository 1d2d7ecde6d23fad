package partner

import (
	"strings"
	"time"

	"github.com/pharmstock/backend/internal/domain/shared"
)

// ContactInfo holds the contact fields shared by suppliers and customers
type ContactInfo struct {
	ContactPerson     string `gorm:"size:255"`
	PhoneNumber       string `gorm:"size:20"`
	Email             string `gorm:"size:255;not null;uniqueIndex"`
	Address           string `gorm:"type:text"`
	DrugLicenseNumber string `gorm:"size:100"`
	GSTNumber         string `gorm:"size:15"`
}

func validateContact(name string, contact ContactInfo) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 255 characters")
	}
	if contact.Email == "" || !strings.Contains(contact.Email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	return nil
}

// Supplier represents a pharmaceutical distributor the pharmacy buys from
type Supplier struct {
	shared.BaseEntity
	Name string `gorm:"size:255;not null;uniqueIndex"`
	ContactInfo
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(name string, contact ContactInfo) (*Supplier, error) {
	if err := validateContact(name, contact); err != nil {
		return nil, err
	}
	return &Supplier{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		ContactInfo: contact,
	}, nil
}

// Update replaces the supplier's name and contact details
func (s *Supplier) Update(name string, contact ContactInfo) error {
	if err := validateContact(name, contact); err != nil {
		return err
	}
	s.Name = name
	s.ContactInfo = contact
	s.UpdatedAt = time.Now()
	return nil
}
