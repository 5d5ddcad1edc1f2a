package repository

import (
	"context"

	"sneakerhub/internal/domain/model"
)

type CatalogVariantRepository interface {
	Create(ctx context.Context, v *model.CatalogVariant) error
	FindByID(ctx context.Context, id int64, withModel bool) (model.CatalogVariant, error)

	//親モデル込みでまとめて取得。見つからないIDは結果に入らない
	FindByIDs(ctx context.Context, ids []int64) ([]model.CatalogVariant, error)
	Delete(ctx context.Context, id int64) error
}
