package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	Update(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Contact, error)
	List(ctx context.Context, contactType, search string, page, limit int) ([]model.Contact, int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return translateError(GetDB(ctx, r.db).Create(contact).Error)
}

func (r *contactRepository) Update(ctx context.Context, contact *model.Contact) error {
	return translateError(GetDB(ctx, r.db).Omit("PaymentTerm").Save(contact).Error)
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	var contact model.Contact
	if err := GetDB(ctx, r.db).Preload("PaymentTerm").First(&contact, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &contact, nil
}

func (r *contactRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Contact, error) {
	var contacts []model.Contact
	if len(ids) == 0 {
		return contacts, nil
	}
	if err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *contactRepository) List(ctx context.Context, contactType, search string, page, limit int) ([]model.Contact, int64, error) {
	var contacts []model.Contact
	var total int64

	scope := func(q *gorm.DB) *gorm.DB {
		if contactType != "" {
			q = q.Where("type = ?", contactType)
		}
		if search != "" {
			q = q.Where("name ILIKE ? OR company_name ILIKE ? OR phone ILIKE ? OR email ILIKE ?",
				"%"+search+"%", "%"+search+"%", "%"+search+"%", "%"+search+"%")
		}
		return q
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Contact{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Scopes(scope).Preload("PaymentTerm").Order("created_at DESC").Offset(offset).Limit(limit).Find(&contacts).Error; err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}
