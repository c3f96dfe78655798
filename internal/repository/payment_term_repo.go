package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentTermRepository interface {
	Create(ctx context.Context, term *model.PaymentTerm) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PaymentTerm, error)
	List(ctx context.Context) ([]model.PaymentTerm, error)
}

type paymentTermRepository struct {
	db *gorm.DB
}

func NewPaymentTermRepository(db *gorm.DB) PaymentTermRepository {
	return &paymentTermRepository{db: db}
}

func (r *paymentTermRepository) Create(ctx context.Context, term *model.PaymentTerm) error {
	return translateError(GetDB(ctx, r.db).Create(term).Error)
}

func (r *paymentTermRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PaymentTerm, error) {
	var term model.PaymentTerm
	if err := GetDB(ctx, r.db).First(&term, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &term, nil
}

func (r *paymentTermRepository) List(ctx context.Context) ([]model.PaymentTerm, error) {
	var terms []model.PaymentTerm
	if err := GetDB(ctx, r.db).Order("name").Find(&terms).Error; err != nil {
		return nil, err
	}
	return terms, nil
}
