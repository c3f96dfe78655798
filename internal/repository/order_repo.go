package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	// Create inserts the order together with its lines.
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// FindByIDForUpdate locks the order row for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// Update saves header fields only; lines are written with ReplaceLines.
	Update(ctx context.Context, order *model.Order) error
	ReplaceLines(ctx context.Context, orderID uuid.UUID, lines []model.OrderLine) error
	List(ctx context.Context, filter OrderListFilter) ([]model.Order, int64, error)
}

type OrderListFilter struct {
	Type    string
	Status  string
	PartyID *uuid.UUID
	Page    int
	Limit   int
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return translateError(GetDB(ctx, r.db).Omit("Party").Create(order).Error)
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Party").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

func (r *orderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	db := GetDB(ctx, r.db)
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	if err := db.Where("order_id = ?", id).Order("position").Find(&order.Lines).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	return translateError(GetDB(ctx, r.db).Omit(clause.Associations).Save(order).Error)
}

func (r *orderRepository) ReplaceLines(ctx context.Context, orderID uuid.UUID, lines []model.OrderLine) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("order_id = ?", orderID).Delete(&model.OrderLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].OrderID = orderID
	}
	return db.Omit("Product").Create(&lines).Error
}

func (r *orderRepository) List(ctx context.Context, filter OrderListFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	scope := func(q *gorm.DB) *gorm.DB {
		if filter.Type != "" {
			q = q.Where("type = ?", filter.Type)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.PartyID != nil {
			q = q.Where("party_id = ?", *filter.PartyID)
		}
		return q
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Order{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Scopes(scope).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Party").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}
