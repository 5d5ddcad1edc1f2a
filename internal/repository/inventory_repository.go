package repository

import (
	"context"

	"sneakerhub/internal/domain/model"
)

type InventoryRepository interface {
	// 在庫を差分で増減する。0未満になるなら ErrRejected で、在庫は変えない
	ApplyDelta(ctx context.Context, variantID int64, delta int64) (model.CatalogVariant, error)

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
	ListAdjustments(ctx context.Context, variantID int64, offset int, limit int) ([]model.InventoryAdjustment, error)
}
