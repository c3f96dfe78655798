package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentType enum constants
const (
	DocTypeCustomerInvoice = "CUSTOMER_INVOICE"
	DocTypeVendorBill      = "VENDOR_BILL"
)

// InvoiceStatus enum constants
const (
	InvoiceStatusUnpaid  = "UNPAID"
	InvoiceStatusPartial = "PARTIAL"
	InvoiceStatusPaid    = "PAID"
)

// Invoice is a customer invoice or a vendor bill issued from a confirmed order.
// Amounts are a snapshot of the order at issue time; AmountPaid is always
// re-derived from the sum of the document's payments.
type Invoice struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DocumentNumber string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"document_number"`
	DocumentType   string          `gorm:"type:varchar(20);not null;index" json:"document_type"` // CUSTOMER_INVOICE, VENDOR_BILL
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`     // one invoice per order
	Order          *Order          `gorm:"foreignKey:OrderID" json:"-"`
	PartyID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"party_id"`
	PaymentTermID  *uuid.UUID      `gorm:"type:uuid" json:"payment_term_id"`
	InvoiceDate    time.Time       `gorm:"type:date;not null" json:"invoice_date"`
	DueDate        time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"tax_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"discount_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	AmountPaid     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"amount_paid"`
	AmountDue      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount_due"`
	Status         string          `gorm:"type:varchar(20);not null;default:'UNPAID';index" json:"status"`
	Payments       []Payment       `gorm:"-" json:"payments,omitempty"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ApplyPaidAmount sets AmountPaid and re-derives AmountDue and Status.
func (i *Invoice) ApplyPaidAmount(paid decimal.Decimal) {
	i.AmountPaid = paid
	i.AmountDue = i.TotalAmount.Sub(paid)
	i.Status = DeriveInvoiceStatus(i.TotalAmount, paid)
}

// DeriveInvoiceStatus: PAID when nothing is due, UNPAID when nothing was
// paid, PARTIAL otherwise. A zero-total document is PAID.
func DeriveInvoiceStatus(total, paid decimal.Decimal) string {
	switch {
	case total.Sub(paid).LessThanOrEqual(decimal.Zero):
		return InvoiceStatusPaid
	case paid.IsZero():
		return InvoiceStatusUnpaid
	default:
		return InvoiceStatusPartial
	}
}

// PaymentDirection is the cash direction a document is settled with.
func (i Invoice) PaymentDirection() string {
	if i.DocumentType == DocTypeVendorBill {
		return DirectionOutbound
	}
	return DirectionInbound
}

// PartnerType is the contact role a document is issued to.
func (i Invoice) PartnerType() string {
	if i.DocumentType == DocTypeVendorBill {
		return PartnerTypeVendor
	}
	return PartnerTypeCustomer
}
