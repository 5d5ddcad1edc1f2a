package usecase

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"
	repo "sneakerhub/internal/repository"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type CreateModelInput struct {
	Name        string
	Brand       string
	Type        string
	Description string
	Price       int64
}

// nil は「変更しない」
type UpdateModelInput struct {
	Name        *string
	Brand       *string
	Type        *string
	Description *string
	Price       *int64
}

type ListModelsInput struct {
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

type ListModelsOutput struct {
	Items  []model.CatalogModel `json:"items"`
	Total  int64                `json:"total"`
	Offset int                  `json:"offset"`
	Limit  int                  `json:"limit"`
}

type CreateVariantInput struct {
	ModelID  int64
	Size     float64
	Quantity int64
}

// CatalogUsecase は商品モデルとサイズ別在庫の管理
type CatalogUsecase struct {
	tx       repo.TransactionManager
	models   repo.CatalogModelRepository
	variants repo.CatalogVariantRepository
	stock    repo.InventoryRepository
	clock    Clock
}

// DI
func NewCatalogUsecase(
	tx repo.TransactionManager,
	models repo.CatalogModelRepository,
	variants repo.CatalogVariantRepository,
	stock repo.InventoryRepository,
	clock Clock,
) *CatalogUsecase {
	return &CatalogUsecase{tx: tx, models: models, variants: variants, stock: stock, clock: clock}
}

func (u *CatalogUsecase) CreateModel(ctx context.Context, in CreateModelInput) (model.CatalogModel, error) {
	m := model.CatalogModel{
		Name:        strings.TrimSpace(in.Name),
		Brand:       strings.TrimSpace(in.Brand),
		Type:        strings.TrimSpace(in.Type),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
	}
	if m.Name == "" {
		return model.CatalogModel{}, apperr.InvalidValue("name", "is required")
	}
	if m.Brand == "" {
		return model.CatalogModel{}, apperr.InvalidValue("brand", "is required")
	}
	if m.Type == "" {
		return model.CatalogModel{}, apperr.InvalidValue("type", "is required")
	}
	if m.Price < 0 {
		return model.CatalogModel{}, apperr.InvalidValue("price", "must be >= 0")
	}

	if err := u.models.Create(ctx, &m); err != nil {
		return model.CatalogModel{}, storeError("create model", err, nil)
	}
	return m, nil
}

// UpdateModel は渡された項目だけ更新する。何もなければ NoDataProvided
func (u *CatalogUsecase) UpdateModel(ctx context.Context, id int64, in UpdateModelInput) (model.CatalogModel, error) {
	fields := map[string]any{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return model.CatalogModel{}, apperr.InvalidValue("name", "must not be empty")
		}
		fields["name"] = name
	}
	if in.Brand != nil {
		brand := strings.TrimSpace(*in.Brand)
		if brand == "" {
			return model.CatalogModel{}, apperr.InvalidValue("brand", "must not be empty")
		}
		fields["brand"] = brand
	}
	if in.Type != nil {
		typ := strings.TrimSpace(*in.Type)
		if typ == "" {
			return model.CatalogModel{}, apperr.InvalidValue("type", "must not be empty")
		}
		fields["type"] = typ
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return model.CatalogModel{}, apperr.InvalidValue("price", "must be >= 0")
		}
		fields["price"] = *in.Price
	}

	if len(fields) == 0 {
		return model.CatalogModel{}, apperr.NoDataProvided()
	}

	m, err := u.models.Update(ctx, id, fields)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CatalogModel{}, apperr.NotFound("catalog model")
	}
	if err != nil {
		return model.CatalogModel{}, storeError("update model", err, nil)
	}
	return m, nil
}

func (u *CatalogUsecase) GetModel(ctx context.Context, id int64, includeVariants bool) (model.CatalogModel, error) {
	m, err := u.models.FindByID(ctx, id, includeVariants)
	if err != nil {
		return model.CatalogModel{}, lookupError("get model", "catalog model", err)
	}
	return m, nil
}

// 注文済みのバリアントがあれば InUse
func (u *CatalogUsecase) DeleteModel(ctx context.Context, id int64) error {
	err := u.models.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound("catalog model")
	}
	return storeError("delete model", err, apperr.InUse("catalog model", "has ordered variants"))
}

func (u *CatalogUsecase) ListModels(ctx context.Context, in ListModelsInput) (ListModelsOutput, error) {
	if in.Offset < 0 {
		return ListModelsOutput{}, apperr.InvalidValue("offset", "must be >= 0")
	}
	limit := in.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit < 1 || limit > maxListLimit {
		return ListModelsOutput{}, apperr.InvalidValue("limit", "must be between 1 and 100")
	}
	switch in.Sort {
	case "", "newest", "name", "price_asc", "price_desc":
	default:
		return ListModelsOutput{}, apperr.InvalidValue("sort", "must be one of newest, name, price_asc, price_desc")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return ListModelsOutput{}, apperr.InvalidValue("min_price", "must be <= max_price")
	}

	items, total, err := u.models.List(ctx, repo.CatalogModelQuery{
		Name:            in.Name,
		Brand:           in.Brand,
		Type:            in.Type,
		MinPrice:        in.MinPrice,
		MaxPrice:        in.MaxPrice,
		Sizes:           in.Sizes,
		Search:          in.Search,
		InStock:         in.InStock,
		IncludeVariants: in.IncludeVariants,
		Sort:            in.Sort,
		Offset:          in.Offset,
		Limit:           limit,
	})
	if err != nil {
		return ListModelsOutput{}, storeError("list models", err, nil)
	}

	return ListModelsOutput{Items: items, Total: total, Offset: in.Offset, Limit: limit}, nil
}

// 親モデルがなければ NotFound（外部キー違反を読み替える）
func (u *CatalogUsecase) CreateVariant(ctx context.Context, in CreateVariantInput) (model.CatalogVariant, error) {
	if in.ModelID <= 0 {
		return model.CatalogVariant{}, apperr.InvalidValue("model_id", "is required")
	}
	if in.Size <= 0 {
		return model.CatalogVariant{}, apperr.InvalidValue("size", "must be > 0")
	}
	if in.Quantity < 0 {
		return model.CatalogVariant{}, apperr.InvalidValue("quantity", "must be >= 0")
	}

	v := model.CatalogVariant{ModelID: in.ModelID, Size: in.Size, Quantity: in.Quantity}
	if err := u.variants.Create(ctx, &v); err != nil {
		return model.CatalogVariant{}, storeError("create variant", err, apperr.NotFound("catalog model"))
	}
	return v, nil
}

func (u *CatalogUsecase) GetVariant(ctx context.Context, id int64) (model.CatalogVariant, error) {
	v, err := u.variants.FindByID(ctx, id, true)
	if err != nil {
		return model.CatalogVariant{}, lookupError("get variant", "catalog variant", err)
	}
	return v, nil
}

// 注文明細から参照されていれば InUse
func (u *CatalogUsecase) DeleteVariant(ctx context.Context, id int64) error {
	err := u.variants.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound("catalog variant")
	}
	return storeError("delete variant", err, apperr.InUse("catalog variant", "referenced by orders"))
}

// AdjustVariantQuantity は在庫を delta だけ増減する（条件付きUPDATE1文）。
// 調整履歴と監査ログも同じトランザクションで残す
func (u *CatalogUsecase) AdjustVariantQuantity(ctx context.Context, actorID int64, id int64, delta int64, reason string) (model.CatalogVariant, error) {
	if delta == 0 {
		return model.CatalogVariant{}, apperr.InvalidValue("delta", "must not be 0")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return model.CatalogVariant{}, apperr.InvalidValue("reason", "is required")
	}

	var out model.CatalogVariant

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		v, err := applyStockDelta(ctx, r.Inventory(), id, delta)
		if err != nil {
			return err
		}

		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			VariantID:      id,
			ActorAccountID: &actorID,
			Delta:          delta,
			Reason:         reason,
		}); err != nil {
			return storeError("create adjustment", err, nil)
		}

		if err := r.AuditLogs().Create(ctx, newAuditLog(
			actorID, model.AuditActionAdjustQuantity, model.AuditResourceVariant, id,
			map[string]any{"quantity": v.Quantity - delta},
			map[string]any{"quantity": v.Quantity, "delta": delta, "reason": reason},
			u.clock.Now(),
		)); err != nil {
			return storeError("adjust quantity audit", err, nil)
		}

		out = v
		return nil
	})
	if err != nil {
		return model.CatalogVariant{}, err
	}
	return out, nil
}

// GetVariantsByIDs は親モデル込みでまとめて取る。1件でも欠けたら欠けたID全部を返す
func (u *CatalogUsecase) GetVariantsByIDs(ctx context.Context, ids []int64) ([]model.CatalogVariant, error) {
	return variantsByIDs(ctx, u.variants, ids)
}

func (u *CatalogUsecase) ListAdjustments(ctx context.Context, variantID int64, offset int, limit int) ([]model.InventoryAdjustment, error) {
	if _, err := u.variants.FindByID(ctx, variantID, false); err != nil {
		return nil, lookupError("list adjustments", "catalog variant", err)
	}
	adjs, err := u.stock.ListAdjustments(ctx, variantID, offset, limit)
	if err != nil {
		return nil, storeError("list adjustments", err, nil)
	}
	return adjs, nil
}

func variantsByIDs(ctx context.Context, variants repo.CatalogVariantRepository, ids []int64) ([]model.CatalogVariant, error) {
	if len(ids) == 0 {
		return []model.CatalogVariant{}, nil
	}

	found, err := variants.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeError("find variants", err, nil)
	}

	have := make(map[int64]struct{}, len(found))
	for _, v := range found {
		have[v.ID] = struct{}{}
	}

	var missing []int64
	seen := map[int64]struct{}{}
	for _, id := range ids {
		if _, ok := have[id]; ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		missing = append(missing, id)
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, apperr.NotFound("catalog variant", idStrings(missing)...)
	}
	return found, nil
}

// 足りなければ InsufficientStock
func applyStockDelta(ctx context.Context, stock repo.InventoryRepository, variantID int64, delta int64) (model.CatalogVariant, error) {
	v, err := stock.ApplyDelta(ctx, variantID, delta)
	if errors.Is(err, repo.ErrRejected) {
		return model.CatalogVariant{}, apperr.InsufficientStock(strconv.FormatInt(variantID, 10))
	}
	if errors.Is(err, repo.ErrNotFound) {
		return model.CatalogVariant{}, apperr.NotFound("catalog variant", strconv.FormatInt(variantID, 10))
	}
	if err != nil {
		return model.CatalogVariant{}, storeError("apply stock delta", err, nil)
	}
	return v, nil
}

func idStrings(ids []int64) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strconv.FormatInt(id, 10))
	}
	return out
}
