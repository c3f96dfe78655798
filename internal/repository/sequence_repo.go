package repository

import (
	"context"

	"storefront/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceRepository hands out monotonically increasing values per key.
type SequenceRepository interface {
	Next(ctx context.Context, key string) (int64, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next upserts the counter row and returns the incremented value. The row
// lock taken by the upsert serializes concurrent callers on the same key.
func (r *sequenceRepository) Next(ctx context.Context, key string) (int64, error) {
	seq := model.DocumentSequence{Key: key, LastValue: 1}
	err := GetDB(ctx, r.db).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_value": gorm.Expr("document_sequences.last_value + 1"),
				"updated_at": gorm.Expr("NOW()"),
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "last_value"}}},
	).Create(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq.LastValue, nil
}
