package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderType Enum Simulation
const (
	OrderTypeSale     = "SALE"
	OrderTypePurchase = "PURCHASE"
)

// OrderStatus constants
const (
	OrderStatusDraft     = "DRAFT"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusPaid      = "PAID"
)

// Channel constants: where a sale order was placed
const (
	ChannelSales   = "SALES"
	ChannelWebsite = "WEBSITE"
)

// Order is a sale order (to a customer) or a purchase order (from a vendor).
// Lines and totals are editable only while the order is DRAFT.
type Order struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber    string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_number"`
	Type           string          `gorm:"type:varchar(20);not null;index" json:"type"` // SALE, PURCHASE
	Channel        string          `gorm:"type:varchar(20);not null;default:'SALES'" json:"channel"`
	Status         string          `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	PartyID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"party_id"`
	Party          *Contact        `gorm:"foreignKey:PartyID" json:"party,omitempty"`
	Lines          []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"subtotal"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"tax_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"discount_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_amount"` // subtotal + tax - discount
	CouponID       *uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"coupon_id"`
	CouponCode     *string         `gorm:"type:varchar(50)" json:"coupon_code"`
	Note           string          `gorm:"type:text" json:"note"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	ConfirmedAt    *time.Time      `json:"confirmed_at"`
	CancelledAt    *time.Time      `json:"cancelled_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// OrderLine represents a line item within an Order
type OrderLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	Position   int             `gorm:"type:int;not null" json:"position"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product    *Product        `gorm:"foreignKey:ProductID" json:"-"`
	Quantity   int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	TaxPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_percent"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	TaxAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"tax_amount"`
}

func (o Order) IsDraft() bool {
	return o.Status == OrderStatusDraft
}

// InvoiceDocumentType returns the document an order is invoiced with.
func (o Order) InvoiceDocumentType() string {
	if o.Type == OrderTypePurchase {
		return DocTypeVendorBill
	}
	return DocTypeCustomerInvoice
}
