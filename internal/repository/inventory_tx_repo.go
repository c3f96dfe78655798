package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryTxRepository interface {
	Create(ctx context.Context, tx *model.InventoryTransaction) error
	ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.InventoryTransaction, int64, error)
}

type inventoryTxRepository struct {
	db *gorm.DB
}

func NewInventoryTxRepository(db *gorm.DB) InventoryTxRepository {
	return &inventoryTxRepository{db: db}
}

func (r *inventoryTxRepository) Create(ctx context.Context, tx *model.InventoryTransaction) error {
	return translateError(GetDB(ctx, r.db).Create(tx).Error)
}

func (r *inventoryTxRepository) ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.InventoryTransaction, int64, error) {
	var rows []model.InventoryTransaction
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.InventoryTransaction{}).Where("product_id = ?", productID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("product_id = ?", productID).Order("created_at desc").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
