package repository

import (
	"context"

	"sneakerhub/internal/domain/model"
	repo "sneakerhub/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	gw gormGateway[model.Order]
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{gw: newGateway[model.Order](db)}
}

func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	return r.gw.Create(ctx, order)
}

func (r *OrderGormRepository) FindByID(ctx context.Context, id int64, withItems bool) (model.Order, error) {
	opts := FindOptions{}
	if withItems {
		opts.Preloads = []string{"Items"}
	}
	return r.gw.FindByID(ctx, id, opts)
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	var filters []scope
	if f.AccountID != nil {
		filters = append(filters, whereEq("account_id", *f.AccountID))
	}
	if f.Status != nil {
		filters = append(filters, whereEq("status", string(*f.Status)))
	}

	total, err := r.gw.Count(ctx, filters...)
	if err != nil {
		return []model.Order{}, 0, err
	}

	items, err := r.gw.FindAll(ctx, FindOptions{
		Preloads: []string{"Items"},
		Order:    "order_date desc, id desc",
		Offset:   f.Offset,
		Limit:    f.Limit,
	}, filters...)
	if err != nil {
		return []model.Order{}, 0, err
	}
	return items, total, nil
}

// 状態遷移は条件付きUPDATE（同時に2回キャンセルされても片方だけ通る）
func (r *OrderGormRepository) TransitionStatus(ctx context.Context, id int64, from []model.OrderStatus, to model.OrderStatus) (model.Order, error) {
	fromValues := make([]string, 0, len(from))
	for _, s := range from {
		fromValues = append(fromValues, string(s))
	}

	err := r.gw.UpdatesIf(ctx, id, map[string]any{"status": string(to)}, func(db *gorm.DB) *gorm.DB {
		return db.Where("status IN ?", fromValues)
	})
	if err != nil {
		return model.Order{}, err
	}
	return r.gw.FindByID(ctx, id, FindOptions{Preloads: []string{"Items"}})
}
