package repository

import (
	"context"

	"sneakerhub/internal/domain/model"
)

// アカウントの保存・取得を約束
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id int64) (model.Account, error)
	FindByUsername(ctx context.Context, username string) (model.Account, error)
	FindByEmail(ctx context.Context, email string) (model.Account, error)

	//emailを変えたら is_verified は false に戻す
	UpdateEmail(ctx context.Context, id int64, email string) (model.Account, error)
	UpdateUsername(ctx context.Context, id int64, username string) (model.Account, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	SetActive(ctx context.Context, id int64, active bool) (model.Account, error)

	//未認証のときだけ認証済みにする。認証済みなら ErrRejected
	MarkVerified(ctx context.Context, id int64) (model.Account, error)

	//残高の増減（マイナスになるなら ErrRejected）
	IncrementBalance(ctx context.Context, id int64, delta int64) (model.Account, error)

	Delete(ctx context.Context, id int64) error
}
