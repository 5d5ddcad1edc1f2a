package repository

import (
	"context"
	"strings"

	"sneakerhub/internal/domain/model"
	repo "sneakerhub/internal/repository"

	"gorm.io/gorm"
)

// 入力の % と _ は文字として扱う
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type CatalogModelGormRepository struct {
	gw gormGateway[model.CatalogModel]
}

// DI
func NewCatalogModelGormRepository(db *gorm.DB) *CatalogModelGormRepository {
	return &CatalogModelGormRepository{gw: newGateway[model.CatalogModel](db)}
}

func (r *CatalogModelGormRepository) Create(ctx context.Context, m *model.CatalogModel) error {
	return r.gw.Create(ctx, m)
}

func (r *CatalogModelGormRepository) FindByID(ctx context.Context, id int64, withVariants bool) (model.CatalogModel, error) {
	return r.gw.FindByID(ctx, id, variantsPreload(withVariants))
}

func (r *CatalogModelGormRepository) Update(ctx context.Context, id int64, fields map[string]any) (model.CatalogModel, error) {
	if err := r.gw.Updates(ctx, id, fields); err != nil {
		return model.CatalogModel{}, err
	}
	return r.gw.FindByID(ctx, id, FindOptions{})
}

// バリアントも消える（注文済みバリアントがあれば外部キーで失敗する）
func (r *CatalogModelGormRepository) Delete(ctx context.Context, id int64) error {
	return r.gw.Delete(ctx, id)
}

// 検索/価格帯/サイズ/在庫/ソート/ページング付きで返す。
func (r *CatalogModelGormRepository) List(ctx context.Context, q repo.CatalogModelQuery) ([]model.CatalogModel, int64, error) {
	filters := catalogModelFilters(q)

	//total（件数）
	total, err := r.gw.Count(ctx, filters...)
	if err != nil {
		return []model.CatalogModel{}, 0, err
	}

	opts := variantsPreload(q.IncludeVariants)
	opts.Offset = q.Offset
	opts.Limit = q.Limit

	//sort
	switch q.Sort {
	case "price_asc":
		opts.Order = "price asc, id asc"
	case "price_desc":
		opts.Order = "price desc, id desc"
	case "name":
		opts.Order = "name asc, id asc"
	default:
		opts.Order = "created_at desc, id desc"
	}

	items, err := r.gw.FindAll(ctx, opts, filters...)
	if err != nil {
		return []model.CatalogModel{}, 0, err
	}
	return items, total, nil
}

func variantsPreload(with bool) FindOptions {
	if with {
		return FindOptions{Preloads: []string{"Variants"}}
	}
	return FindOptions{}
}

func catalogModelFilters(q repo.CatalogModelQuery) []scope {
	var filters []scope

	// name/brand/type は大文字小文字を区別しない完全一致
	if s := strings.TrimSpace(q.Name); s != "" {
		filters = append(filters, whereLowerEq("catalog_models.name", s))
	}
	if s := strings.TrimSpace(q.Brand); s != "" {
		filters = append(filters, whereLowerEq("catalog_models.brand", s))
	}
	if s := strings.TrimSpace(q.Type); s != "" {
		filters = append(filters, whereLowerEq("catalog_models.type", s))
	}

	//価格帯
	if q.MinPrice != nil {
		v := *q.MinPrice
		filters = append(filters, func(db *gorm.DB) *gorm.DB { return db.Where("catalog_models.price >= ?", v) })
	}
	if q.MaxPrice != nil {
		v := *q.MaxPrice
		filters = append(filters, func(db *gorm.DB) *gorm.DB { return db.Where("catalog_models.price <= ?", v) })
	}

	// 部分一致（ILIKEはSQLiteにないのでLOWERで揃える）
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		filters = append(filters, func(db *gorm.DB) *gorm.DB {
			return db.Where(
				`(LOWER(catalog_models.name) LIKE ? ESCAPE '\' OR LOWER(catalog_models.brand) LIKE ? ESCAPE '\' OR LOWER(catalog_models.description) LIKE ? ESCAPE '\')`,
				like, like, like,
			)
		})
	}

	//サイズと在庫はバリアントとの準結合で見る
	sizes := q.Sizes
	switch {
	case q.InStock != nil && *q.InStock:
		filters = append(filters, variantExists(sizes, true))
	case q.InStock != nil && !*q.InStock:
		if len(sizes) > 0 {
			filters = append(filters, variantExists(sizes, false))
		}
		filters = append(filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("NOT EXISTS (SELECT 1 FROM catalog_variants v WHERE v.model_id = catalog_models.id AND v.quantity > 0" + sizeClause(sizes) + ")", sizeArgs(sizes)...)
		})
	case len(sizes) > 0:
		filters = append(filters, variantExists(sizes, false))
	}

	return filters
}

func variantExists(sizes []float64, inStock bool) scope {
	sql := "EXISTS (SELECT 1 FROM catalog_variants v WHERE v.model_id = catalog_models.id"
	if inStock {
		sql += " AND v.quantity > 0"
	}
	sql += sizeClause(sizes) + ")"
	args := sizeArgs(sizes)
	return func(db *gorm.DB) *gorm.DB { return db.Where(sql, args...) }
}

func sizeClause(sizes []float64) string {
	if len(sizes) == 0 {
		return ""
	}
	return " AND v.size IN ?"
}

func sizeArgs(sizes []float64) []any {
	if len(sizes) == 0 {
		return nil
	}
	return []any{sizes}
}

func whereLowerEq(column string, value string) scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER("+column+") = ?", strings.ToLower(value))
	}
}
