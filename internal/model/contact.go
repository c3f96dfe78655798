package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactType enum constants
const (
	ContactTypeCustomer = "CUSTOMER"
	ContactTypeVendor   = "VENDOR"
	ContactTypeBoth     = "BOTH"
)

// Contact represents a customer, a vendor, or both
type Contact struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	Type          string         `gorm:"type:varchar(20);not null;index" json:"type"` // CUSTOMER, VENDOR, BOTH
	CompanyName   string         `gorm:"type:varchar(255)" json:"company_name"`
	TaxCode       string         `gorm:"type:varchar(50)" json:"tax_code"`
	Email         string         `gorm:"type:varchar(255)" json:"email"`
	Phone         string         `gorm:"type:varchar(50)" json:"phone"`
	Address       string         `gorm:"type:text" json:"address"`
	PaymentTermID *uuid.UUID     `gorm:"type:uuid" json:"payment_term_id"` // default term for invoices
	PaymentTerm   *PaymentTerm   `gorm:"foreignKey:PaymentTermID" json:"payment_term,omitempty"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c Contact) IsCustomer() bool {
	return c.Type == ContactTypeCustomer || c.Type == ContactTypeBoth
}

func (c Contact) IsVendor() bool {
	return c.Type == ContactTypeVendor || c.Type == ContactTypeBoth
}
