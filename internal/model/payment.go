package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod enum constants
const (
	MethodCash         = "CASH"
	MethodBankTransfer = "BANK_TRANSFER"
	MethodCard         = "CARD"
	MethodCheque       = "CHEQUE"
	MethodOnline       = "ONLINE"
)

// Direction enum constants
const (
	DirectionInbound  = "INBOUND"
	DirectionOutbound = "OUTBOUND"
)

// PartnerType enum constants
const (
	PartnerTypeCustomer = "CUSTOMER"
	PartnerTypeVendor   = "VENDOR"
)

// Payment is money received against a customer invoice or paid against a
// vendor bill. Exactly one of CustomerInvoiceID and VendorBillID is set.
type Payment struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Method            string          `gorm:"type:varchar(20);not null" json:"method"`
	Direction         string          `gorm:"type:varchar(10);not null" json:"direction"`
	PartnerType       string          `gorm:"type:varchar(10);not null" json:"partner_type"`
	PaymentDate       time.Time       `gorm:"type:date;not null" json:"payment_date"`
	CustomerInvoiceID *uuid.UUID      `gorm:"type:uuid;index" json:"customer_invoice_id"`
	VendorBillID      *uuid.UUID      `gorm:"type:uuid;index" json:"vendor_bill_id"`
	Note              string          `gorm:"type:text" json:"note"`
	CreatedBy         *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
}

// DocumentID returns the id of the invoice or bill the payment settles.
func (p Payment) DocumentID() uuid.UUID {
	if p.CustomerInvoiceID != nil {
		return *p.CustomerInvoiceID
	}
	if p.VendorBillID != nil {
		return *p.VendorBillID
	}
	return uuid.Nil
}

func IsValidPaymentMethod(method string) bool {
	switch method {
	case MethodCash, MethodBankTransfer, MethodCard, MethodCheque, MethodOnline:
		return true
	}
	return false
}
