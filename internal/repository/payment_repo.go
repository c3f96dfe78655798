package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]model.Payment, error)
	// SumByDocument totals every payment recorded against an invoice or bill.
	SumByDocument(ctx context.Context, documentID uuid.UUID) (decimal.Decimal, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return translateError(GetDB(ctx, r.db).Create(payment).Error)
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	if err := GetDB(ctx, r.db).First(&payment, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &payment, nil
}

func (r *paymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Payment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *paymentRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	if err := GetDB(ctx, r.db).
		Where("customer_invoice_id = ? OR vendor_bill_id = ?", documentID, documentID).
		Order("payment_date, created_at").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) SumByDocument(ctx context.Context, documentID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := GetDB(ctx, r.db).Model(&model.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("customer_invoice_id = ? OR vendor_bill_id = ?", documentID, documentID).
		Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}
