package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscountOfferRepository interface {
	Create(ctx context.Context, offer *model.DiscountOffer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DiscountOffer, error)
	List(ctx context.Context, page, limit int) ([]model.DiscountOffer, int64, error)
}

type discountOfferRepository struct {
	db *gorm.DB
}

func NewDiscountOfferRepository(db *gorm.DB) DiscountOfferRepository {
	return &discountOfferRepository{db: db}
}

func (r *discountOfferRepository) Create(ctx context.Context, offer *model.DiscountOffer) error {
	return translateError(GetDB(ctx, r.db).Create(offer).Error)
}

func (r *discountOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DiscountOffer, error) {
	var offer model.DiscountOffer
	if err := GetDB(ctx, r.db).First(&offer, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &offer, nil
}

func (r *discountOfferRepository) List(ctx context.Context, page, limit int) ([]model.DiscountOffer, int64, error) {
	var offers []model.DiscountOffer
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.DiscountOffer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("start_date desc").Offset(offset).Limit(limit).Find(&offers).Error; err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}
