package settings

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// SettingsID is the fixed identity of the single company settings row.
// Get-or-create against this primary key replaces a process-level singleton.
var SettingsID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// CompanySettings is the pharmacy's own profile used on invoices and for
// low-stock reporting. Exactly one row exists.
type CompanySettings struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name              string    `gorm:"size:255;not null"`
	Address           string    `gorm:"type:text"`
	PhoneNumber       string    `gorm:"size:20"`
	Email             string    `gorm:"size:255"`
	GSTNumber         string    `gorm:"size:15"`
	DrugLicenseNumber string    `gorm:"size:100"`
	LowStockThreshold int64     `gorm:"not null;default:10"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName returns the table name for GORM
func (CompanySettings) TableName() string {
	return "company_settings"
}

// DefaultSettings returns the row created on first access
func DefaultSettings() *CompanySettings {
	now := time.Now()
	return &CompanySettings{
		ID:                SettingsID,
		Name:              "Pharmacy",
		LowStockThreshold: 10,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Update replaces the editable fields
func (s *CompanySettings) Update(name, address, phone, email, gst, drugLicense string, lowStockThreshold int64) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if lowStockThreshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}

	s.Name = name
	s.Address = address
	s.PhoneNumber = phone
	s.Email = email
	s.GSTNumber = gst
	s.DrugLicenseNumber = drugLicense
	s.LowStockThreshold = lowStockThreshold
	s.UpdatedAt = time.Now()
	return nil
}
