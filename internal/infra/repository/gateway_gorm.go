package repository

import (
	"context"
	"errors"

	repo "sneakerhub/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 取得時の関連読み込みと並び・ページング
type FindOptions struct {
	Preloads []string
	Order    string
	Offset   int
	Limit    int
}

type scope = func(*gorm.DB) *gorm.DB

// gormGateway は1テーブル分の基本操作。書き込みのエラーは classifyError を通す。
type gormGateway[T any] struct {
	db *gorm.DB
}

func newGateway[T any](db *gorm.DB) gormGateway[T] {
	return gormGateway[T]{db: db}
}

func (g gormGateway[T]) query(ctx context.Context, opts FindOptions, scopes ...scope) *gorm.DB {
	q := g.db.WithContext(ctx).Model(new(T)).Scopes(scopes...)
	for _, p := range opts.Preloads {
		q = q.Preload(p, func(db *gorm.DB) *gorm.DB { return db.Order("id asc") })
	}
	return q
}

func (g gormGateway[T]) Create(ctx context.Context, rec *T) error {
	//関連は別で保存する
	return classifyError(g.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error)
}

func (g gormGateway[T]) CreateBatch(ctx context.Context, recs []T) error {
	if len(recs) == 0 {
		return nil
	}
	return classifyError(g.db.WithContext(ctx).Omit(clause.Associations).Create(&recs).Error)
}

func (g gormGateway[T]) FindByID(ctx context.Context, id int64, opts FindOptions) (T, error) {
	var rec T
	err := g.query(ctx, opts).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, repo.ErrNotFound
	}
	return rec, err
}

func (g gormGateway[T]) FindOne(ctx context.Context, opts FindOptions, scopes ...scope) (T, error) {
	var rec T
	err := g.query(ctx, opts, scopes...).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, repo.ErrNotFound
	}
	return rec, err
}

func (g gormGateway[T]) FindAll(ctx context.Context, opts FindOptions, scopes ...scope) ([]T, error) {
	q := g.query(ctx, opts, scopes...)
	if opts.Order != "" {
		q = q.Order(opts.Order)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	recs := []T{}
	if err := q.Find(&recs).Error; err != nil {
		return []T{}, err
	}
	return recs, nil
}

func (g gormGateway[T]) Count(ctx context.Context, scopes ...scope) (int64, error) {
	var total int64
	err := g.db.WithContext(ctx).Model(new(T)).Scopes(scopes...).Count(&total).Error
	return total, err
}

func (g gormGateway[T]) Updates(ctx context.Context, id int64, fields map[string]any) error {
	res := g.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return classifyError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 条件を満たす行だけ更新する。行はあるのに条件で外れたら ErrRejected
func (g gormGateway[T]) UpdatesIf(ctx context.Context, id int64, fields map[string]any, conds ...scope) error {
	res := g.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Scopes(conds...).Updates(fields)
	if res.Error != nil {
		return classifyError(res.Error)
	}
	if res.RowsAffected == 0 {
		return g.rejectedOrNotFound(ctx, id)
	}
	return nil
}

func (g gormGateway[T]) Delete(ctx context.Context, id int64) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return classifyError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Increment は column を delta だけ増減する1文のUPDATE。
// floor のときは結果が0未満になる行を更新せず ErrRejected を返す。
func (g gormGateway[T]) Increment(ctx context.Context, id int64, column string, delta int64, floor bool) (T, error) {
	var zero T
	col := clause.Column{Name: column}

	q := g.db.WithContext(ctx).Model(new(T)).Where("id = ?", id)
	if floor {
		q = q.Where(clause.Gte{Column: col, Value: -delta})
	}
	res := q.Update(column, gorm.Expr("? + ?", col, delta))
	if res.Error != nil {
		return zero, classifyError(res.Error)
	}
	if res.RowsAffected == 0 {
		return zero, g.rejectedOrNotFound(ctx, id)
	}
	return g.FindByID(ctx, id, FindOptions{})
}

// 更新0件の理由を切り分ける（失敗したときだけ読む）
func (g gormGateway[T]) rejectedOrNotFound(ctx context.Context, id int64) error {
	var n int64
	if err := g.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return repo.ErrRejected
}

func whereEq(column string, value any) scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	}
}
