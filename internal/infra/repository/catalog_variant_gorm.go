package repository

import (
	"context"

	"sneakerhub/internal/domain/model"

	"gorm.io/gorm"
)

type CatalogVariantGormRepository struct {
	gw gormGateway[model.CatalogVariant]
}

func NewCatalogVariantGormRepository(db *gorm.DB) *CatalogVariantGormRepository {
	return &CatalogVariantGormRepository{gw: newGateway[model.CatalogVariant](db)}
}

func (r *CatalogVariantGormRepository) Create(ctx context.Context, v *model.CatalogVariant) error {
	return r.gw.Create(ctx, v)
}

func (r *CatalogVariantGormRepository) FindByID(ctx context.Context, id int64, withModel bool) (model.CatalogVariant, error) {
	opts := FindOptions{}
	if withModel {
		opts.Preloads = []string{"Model"}
	}
	return r.gw.FindByID(ctx, id, opts)
}

// 価格計算用に親モデルも一緒に読む
func (r *CatalogVariantGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.CatalogVariant, error) {
	if len(ids) == 0 {
		return []model.CatalogVariant{}, nil
	}
	return r.gw.FindAll(ctx, FindOptions{Preloads: []string{"Model"}, Order: "id asc"}, func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN ?", ids)
	})
}

// 注文明細から参照されていれば外部キー違反になる
func (r *CatalogVariantGormRepository) Delete(ctx context.Context, id int64) error {
	return r.gw.Delete(ctx, id)
}
