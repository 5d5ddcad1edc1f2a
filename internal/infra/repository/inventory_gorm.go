package repository

import (
	"context"

	"sneakerhub/internal/domain/model"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db       *gorm.DB
	variants gormGateway[model.CatalogVariant]
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db, variants: newGateway[model.CatalogVariant](db)}
}

// 在庫を差分で増減（足りないなら ErrRejected）
func (r *InventoryGormRepository) ApplyDelta(ctx context.Context, variantID int64, delta int64) (model.CatalogVariant, error) {
	return r.variants.Increment(ctx, variantID, "quantity", delta, true)
}

// 調整履歴作成
func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	if err := r.db.WithContext(ctx).Create(&adj).Error; err != nil {
		return classifyError(err)
	}
	return nil
}

func (r *InventoryGormRepository) ListAdjustments(ctx context.Context, variantID int64, offset int, limit int) ([]model.InventoryAdjustment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var adjs []model.InventoryAdjustment
	err := r.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&adjs).Error
	if err != nil {
		return nil, err
	}
	return adjs, nil
}
