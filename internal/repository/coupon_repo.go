package repository

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CouponRepository interface {
	CreateBatch(ctx context.Context, coupons []model.Coupon) error
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	// MarkUsed flips an UNUSED coupon to USED for the given order. It returns
	// ErrStaleState when the coupon was no longer UNUSED.
	MarkUsed(ctx context.Context, id, orderID uuid.UUID, usedAt time.Time) error
	List(ctx context.Context, filter CouponListFilter) ([]model.Coupon, int64, error)
}

type CouponListFilter struct {
	OfferID *uuid.UUID
	Status  string
	Page    int
	Limit   int
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) CreateBatch(ctx context.Context, coupons []model.Coupon) error {
	if len(coupons) == 0 {
		return nil
	}
	return translateError(GetDB(ctx, r.db).Omit(clause.Associations).CreateInBatches(&coupons, 200).Error)
}

func (r *couponRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := GetDB(ctx, r.db).Preload("Offer").First(&coupon, "code = ?", code).Error; err != nil {
		return nil, translateError(err)
	}
	return &coupon, nil
}

func (r *couponRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := GetDB(ctx, r.db).Preload("Offer").First(&coupon, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &coupon, nil
}

func (r *couponRepository) MarkUsed(ctx context.Context, id, orderID uuid.UUID, usedAt time.Time) error {
	res := GetDB(ctx, r.db).Model(&model.Coupon{}).
		Where("id = ? AND status = ?", id, model.CouponStatusUnused).
		Updates(map[string]interface{}{
			"status":   model.CouponStatusUsed,
			"order_id": orderID,
			"used_at":  usedAt,
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *couponRepository) List(ctx context.Context, filter CouponListFilter) ([]model.Coupon, int64, error) {
	var coupons []model.Coupon
	var total int64

	scope := func(q *gorm.DB) *gorm.DB {
		if filter.OfferID != nil {
			q = q.Where("offer_id = ?", *filter.OfferID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		return q
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Coupon{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Scopes(scope).Preload("Offer").Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&coupons).Error; err != nil {
		return nil, 0, err
	}

	return coupons, total, nil
}
