package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a sellable item and its on-hand stock
type Product struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU          string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	CurrentStock int             `gorm:"type:int;default:0;not null" json:"current_stock"`
	Price        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	TaxPercent   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_percent"` // default for new order lines
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TransactionType Enum Simulation
const (
	TxTypeIn  = "IN"
	TxTypeOut = "OUT"
)

// InventoryTransaction is the stock ledger: one row per stock movement
type InventoryTransaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	OrderID         *uuid.UUID `gorm:"type:uuid;index" json:"order_id"`                   // Nullable for manual adjustments
	TransactionType string     `gorm:"type:varchar(10);not null" json:"transaction_type"` // IN, OUT
	QuantityChanged int        `gorm:"type:int;not null" json:"quantity_changed"`
	StockAfter      int        `gorm:"type:int;not null" json:"stock_after"`
	Reason          string     `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt       time.Time  `json:"created_at"`
}
