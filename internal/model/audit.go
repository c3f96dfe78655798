package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateProduct  = "CREATE_PRODUCT"
	ActionUpdateProduct  = "UPDATE_PRODUCT"
	ActionDeleteProduct  = "DELETE_PRODUCT"
	ActionAdjustStock    = "ADJUST_STOCK"
	ActionCreateContact  = "CREATE_CONTACT"
	ActionUpdateContact  = "UPDATE_CONTACT"
	ActionDeleteContact  = "DELETE_CONTACT"
	ActionCreateOrder    = "CREATE_ORDER"
	ActionUpdateOrder    = "UPDATE_ORDER_LINES"
	ActionConfirmOrder   = "CONFIRM_ORDER"
	ActionCancelOrder    = "CANCEL_ORDER"
	ActionApplyCoupon    = "APPLY_COUPON"
	ActionCreateInvoice  = "CREATE_INVOICE"
	ActionRecordPayment  = "RECORD_PAYMENT"
	ActionDeletePayment  = "DELETE_PAYMENT"
	ActionCreateOffer    = "CREATE_DISCOUNT_OFFER"
	ActionGenerateCoupon = "GENERATE_COUPONS"
	ActionCreateTerm     = "CREATE_PAYMENT_TERM"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable for storefront/system actions
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
