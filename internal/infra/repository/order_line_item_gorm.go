package repository

import (
	"context"

	"sneakerhub/internal/domain/model"

	"gorm.io/gorm"
)

type OrderLineItemGormRepository struct {
	gw gormGateway[model.OrderLineItem]
}

func NewOrderLineItemGormRepository(db *gorm.DB) *OrderLineItemGormRepository {
	return &OrderLineItemGormRepository{gw: newGateway[model.OrderLineItem](db)}
}

// 注文明細一括作成
func (r *OrderLineItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderLineItem) ([]model.OrderLineItem, error) {
	rows := make([]model.OrderLineItem, len(items))
	for i, it := range items {
		it.OrderID = orderID
		rows[i] = it
	}
	if err := r.gw.CreateBatch(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *OrderLineItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLineItem, error) {
	return r.gw.FindAll(ctx, FindOptions{Order: "id asc"}, whereEq("order_id", orderID))
}
