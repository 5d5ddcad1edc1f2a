package usecase

import (
	"errors"
	"fmt"

	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"
	repo "sneakerhub/internal/repository"
)

// 制約違反 ⟨種類, 制約名⟩ -> ドメインエラー
var violationTable = map[repo.ViolationKey]func() error{
	{Kind: repo.ViolationUnique, Constraint: model.ConstraintAccountsUsername}: func() error {
		return apperr.AlreadyExists("username")
	},
	{Kind: repo.ViolationUnique, Constraint: model.ConstraintAccountsEmail}: func() error {
		return apperr.AlreadyExists("email")
	},
	{Kind: repo.ViolationUnique, Constraint: model.ConstraintCatalogModelsName}: func() error {
		return apperr.AlreadyExists("name")
	},
	{Kind: repo.ViolationUnique, Constraint: model.ConstraintVariantsModelSize}: func() error {
		return apperr.AlreadyExists("model_id,size")
	},
	{Kind: repo.ViolationCheck, Constraint: model.ConstraintAccountsBalance}: func() error {
		return apperr.InvalidValue("balance", "must be >= 0")
	},
	{Kind: repo.ViolationCheck, Constraint: model.ConstraintCatalogModelsPrice}: func() error {
		return apperr.InvalidValue("price", "must be >= 0")
	},
	{Kind: repo.ViolationCheck, Constraint: model.ConstraintVariantsQuantity}: func() error {
		return apperr.InvalidValue("quantity", "must be >= 0")
	},
	{Kind: repo.ViolationCheck, Constraint: model.ConstraintLineItemsQuantity}: func() error {
		return apperr.InvalidValue("quantity", "must be > 0")
	},
	{Kind: repo.ViolationCheck, Constraint: model.ConstraintLineItemsPrice}: func() error {
		return apperr.InvalidValue("price_at_time", "must be >= 0")
	},
	{Kind: repo.ViolationCheck, Constraint: model.ConstraintOrdersTotalAmount}: func() error {
		return apperr.InvalidValue("total_amount", "must be >= 0")
	},
	{Kind: repo.ViolationCheck, Constraint: model.ConstraintOrdersAwardedBalance}: func() error {
		return apperr.InvalidValue("awarded_balance", "must be >= 0")
	},
}

// storeError はrepoのエラーをドメインエラーに変える。
// fk は外部キー違反の意味（操作ごとに決まる）。表にないものは op を付けてそのまま返す（500）。
func storeError(op string, err error, fk error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	if v, ok := repo.AsConstraintViolation(err); ok {
		if v.Kind == repo.ViolationForeignKey && fk != nil {
			return fk
		}
		if build, ok := violationTable[v.Key()]; ok {
			return build()
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// 見つからないときは entity の NotFound に
func lookupError(op string, entity string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound(entity)
	}
	return storeError(op, err, nil)
}
