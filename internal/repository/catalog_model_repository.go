package repository

import (
	"context"

	"sneakerhub/internal/domain/model"
)

// 一覧検索
type CatalogModelQuery struct {
	Name            string
	Brand           string
	Type            string
	MinPrice        *int64
	MaxPrice        *int64
	Sizes           []float64
	Search          string
	InStock         *bool
	IncludeVariants bool
	Sort            string
	Offset          int
	Limit           int
}

type CatalogModelRepository interface {
	Create(ctx context.Context, m *model.CatalogModel) error
	FindByID(ctx context.Context, id int64, withVariants bool) (model.CatalogModel, error)
	Update(ctx context.Context, id int64, fields map[string]any) (model.CatalogModel, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q CatalogModelQuery) ([]model.CatalogModel, int64, error)
}
