package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AvailableOn enum constants: which channel an offer may be redeemed on
const (
	AvailableOnSales   = "SALES"
	AvailableOnWebsite = "WEBSITE"
)

// CouponStatus enum constants
const (
	CouponStatusUnused = "UNUSED"
	CouponStatusUsed   = "USED"
)

// DiscountOffer is a percentage discount with a validity window
type DiscountOffer struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name               string          `gorm:"type:varchar(255);not null" json:"name"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discount_percentage"`
	StartDate          time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate            time.Time       `gorm:"type:date;not null" json:"end_date"`
	AvailableOn        string          `gorm:"type:varchar(20);not null" json:"available_on"` // SALES, WEBSITE
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ActiveOn reports whether day falls inside the offer window (inclusive).
func (o DiscountOffer) ActiveOn(day time.Time) bool {
	d := DateOf(day)
	return !d.Before(DateOf(o.StartDate)) && !d.After(DateOf(o.EndDate))
}

// Coupon is a single-use code for a DiscountOffer. It moves UNUSED -> USED
// exactly once, at which point OrderID records the order it was redeemed on.
type Coupon struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code            string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Status          string         `gorm:"type:varchar(10);not null;default:'UNUSED';index" json:"status"`
	ExpirationDate  *time.Time     `gorm:"type:date" json:"expiration_date"`
	OfferID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"offer_id"`
	Offer           *DiscountOffer `gorm:"foreignKey:OfferID" json:"offer,omitempty"`
	BoundCustomerID *uuid.UUID     `gorm:"type:uuid;index" json:"bound_customer_id"` // nil = anonymous
	OrderID         *uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"order_id"`
	UsedAt          *time.Time     `json:"used_at"`
	CreatedAt       time.Time      `json:"created_at"`
}

// ExpiredOn reports whether the coupon's expiration date is before day.
func (c Coupon) ExpiredOn(day time.Time) bool {
	return c.ExpirationDate != nil && DateOf(*c.ExpirationDate).Before(DateOf(day))
}

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
