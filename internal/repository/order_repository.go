package repository

import (
	"context"

	"sneakerhub/internal/domain/model"
)

type OrderListFilter struct {
	AccountID *int64
	Status    *model.OrderStatus
	Offset    int
	Limit     int
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id int64, withItems bool) (model.Order, error)

	//明細込みで新しい順
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)

	//from のどれかのときだけ to にする。条件を満たさなければ ErrRejected
	TransitionStatus(ctx context.Context, id int64, from []model.OrderStatus, to model.OrderStatus) (model.Order, error)
}
