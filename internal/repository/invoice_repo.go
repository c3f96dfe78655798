package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	// FindByIDForUpdate locks the invoice row for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Invoice, error)
	Update(ctx context.Context, invoice *model.Invoice) error
	List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error)
}

type InvoiceListFilter struct {
	DocumentType   string // CUSTOMER_INVOICE, VENDOR_BILL or empty for all
	Status         string // UNPAID, PARTIAL, PAID or empty for all
	DocumentNumber string // partial match on document_number
	PartyID        *uuid.UUID
	Page           int
	Limit          int
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return translateError(GetDB(ctx, r.db).Omit(clause.Associations).Create(invoice).Error)
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).First(&invoice, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&invoice, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).First(&invoice, "order_id = ?", orderID).Error; err != nil {
		return nil, translateError(err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	return translateError(GetDB(ctx, r.db).Omit(clause.Associations).Save(invoice).Error)
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	scope := func(q *gorm.DB) *gorm.DB {
		if filter.DocumentType != "" {
			q = q.Where("document_type = ?", filter.DocumentType)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.DocumentNumber != "" {
			q = q.Where("document_number ILIKE ?", "%"+filter.DocumentNumber+"%")
		}
		if filter.PartyID != nil {
			q = q.Where("party_id = ?", *filter.PartyID)
		}
		return q
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Invoice{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Scopes(scope).Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}
