package repository

import (
	"context"

	"sneakerhub/internal/domain/model"

	"gorm.io/gorm"
)

type AccountGormRepository struct {
	gw gormGateway[model.Account]
}

// DI
func NewAccountGormRepository(db *gorm.DB) *AccountGormRepository {
	return &AccountGormRepository{gw: newGateway[model.Account](db)}
}

func (r *AccountGormRepository) Create(ctx context.Context, account *model.Account) error {
	return r.gw.Create(ctx, account)
}

func (r *AccountGormRepository) FindByID(ctx context.Context, id int64) (model.Account, error) {
	return r.gw.FindByID(ctx, id, FindOptions{})
}

func (r *AccountGormRepository) FindByUsername(ctx context.Context, username string) (model.Account, error) {
	return r.gw.FindOne(ctx, FindOptions{}, whereEq("username", username))
}

func (r *AccountGormRepository) FindByEmail(ctx context.Context, email string) (model.Account, error) {
	return r.gw.FindOne(ctx, FindOptions{}, whereEq("email", email))
}

// email変更（再認証が必要になる）
func (r *AccountGormRepository) UpdateEmail(ctx context.Context, id int64, email string) (model.Account, error) {
	if err := r.gw.Updates(ctx, id, map[string]any{"email": email, "is_verified": false}); err != nil {
		return model.Account{}, err
	}
	return r.gw.FindByID(ctx, id, FindOptions{})
}

func (r *AccountGormRepository) UpdateUsername(ctx context.Context, id int64, username string) (model.Account, error) {
	if err := r.gw.Updates(ctx, id, map[string]any{"username": username}); err != nil {
		return model.Account{}, err
	}
	return r.gw.FindByID(ctx, id, FindOptions{})
}

func (r *AccountGormRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return r.gw.Updates(ctx, id, map[string]any{"password_hash": hash})
}

func (r *AccountGormRepository) SetActive(ctx context.Context, id int64, active bool) (model.Account, error) {
	if err := r.gw.Updates(ctx, id, map[string]any{"is_active": active}); err != nil {
		return model.Account{}, err
	}
	return r.gw.FindByID(ctx, id, FindOptions{})
}

// 未認証 -> 認証済み（1回だけ）
func (r *AccountGormRepository) MarkVerified(ctx context.Context, id int64) (model.Account, error) {
	err := r.gw.UpdatesIf(ctx, id, map[string]any{"is_verified": true}, whereEq("is_verified", false))
	if err != nil {
		return model.Account{}, err
	}
	return r.gw.FindByID(ctx, id, FindOptions{})
}

func (r *AccountGormRepository) IncrementBalance(ctx context.Context, id int64, delta int64) (model.Account, error) {
	return r.gw.Increment(ctx, id, "balance", delta, true)
}

func (r *AccountGormRepository) Delete(ctx context.Context, id int64) error {
	return r.gw.Delete(ctx, id)
}
