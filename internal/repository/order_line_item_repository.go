package repository

import (
	"context"

	"sneakerhub/internal/domain/model"
)

type OrderLineItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderLineItem) ([]model.OrderLineItem, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLineItem, error)
}
