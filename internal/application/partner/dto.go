package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/partner"
)

// UpsertPartnerRequest creates or updates a supplier or customer
type UpsertPartnerRequest struct {
	Name              string `json:"name" binding:"required,min=1,max=255"`
	ContactPerson     string `json:"contact_person" binding:"max=255"`
	PhoneNumber       string `json:"phone_number" binding:"max=20"`
	Email             string `json:"email" binding:"required,email,max=255"`
	Address           string `json:"address"`
	DrugLicenseNumber string `json:"drug_license_number" binding:"max=100"`
	GSTNumber         string `json:"gst_number" binding:"max=15"`
}

// Contact converts the request's contact fields to the domain value
func (r UpsertPartnerRequest) Contact() partner.ContactInfo {
	return partner.ContactInfo{
		ContactPerson:     r.ContactPerson,
		PhoneNumber:       r.PhoneNumber,
		Email:             r.Email,
		Address:           r.Address,
		DrugLicenseNumber: r.DrugLicenseNumber,
		GSTNumber:         r.GSTNumber,
	}
}

// PartnerResponse is the API shape of a supplier or customer
type PartnerResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	ContactPerson     string    `json:"contact_person,omitempty"`
	PhoneNumber       string    `json:"phone_number,omitempty"`
	Email             string    `json:"email"`
	Address           string    `json:"address,omitempty"`
	DrugLicenseNumber string    `json:"drug_license_number,omitempty"`
	GSTNumber         string    `json:"gst_number,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToSupplierResponse converts a domain supplier to its API shape
func ToSupplierResponse(s *partner.Supplier) PartnerResponse {
	return toPartnerResponse(s.ID, s.Name, s.ContactInfo, s.CreatedAt, s.UpdatedAt)
}

// ToCustomerResponse converts a domain customer to its API shape
func ToCustomerResponse(c *partner.Customer) PartnerResponse {
	return toPartnerResponse(c.ID, c.Name, c.ContactInfo, c.CreatedAt, c.UpdatedAt)
}

func toPartnerResponse(id uuid.UUID, name string, contact partner.ContactInfo, createdAt, updatedAt time.Time) PartnerResponse {
	return PartnerResponse{
		ID:                id,
		Name:              name,
		ContactPerson:     contact.ContactPerson,
		PhoneNumber:       contact.PhoneNumber,
		Email:             contact.Email,
		Address:           contact.Address,
		DrugLicenseNumber: contact.DrugLicenseNumber,
		GSTNumber:         contact.GSTNumber,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}
}
