package repository

import (
	"errors"
	"fmt"
)

var (
	// 対象の行がない
	ErrNotFound = errors.New("not found")

	// 条件付き更新が弾かれた（行はあるが、下限チェックや状態遷移の条件を満たさない）
	ErrRejected = errors.New("rejected")
)

// 制約違反の種類
type ViolationKind string

const (
	ViolationUnique     ViolationKind = "unique"
	ViolationForeignKey ViolationKind = "foreign_key"
	ViolationCheck      ViolationKind = "check"
	ViolationNotNull    ViolationKind = "not_null"
)

// ConstraintViolation はドライバのエラーから取り出した制約違反。
// Constraint はDB上の制約名（外部キーでドライバが名前を返さない場合は空）。
type ConstraintViolation struct {
	Kind       ViolationKind
	Constraint string
	Err        error
}

func (v *ConstraintViolation) Error() string {
	if v.Constraint == "" {
		return fmt.Sprintf("%s constraint violated", v.Kind)
	}
	return fmt.Sprintf("%s constraint %q violated", v.Kind, v.Constraint)
}

func (v *ConstraintViolation) Unwrap() error { return v.Err }

// 分類表のキー
type ViolationKey struct {
	Kind       ViolationKind
	Constraint string
}

func (v *ConstraintViolation) Key() ViolationKey {
	return ViolationKey{Kind: v.Kind, Constraint: v.Constraint}
}

func AsConstraintViolation(err error) (*ConstraintViolation, bool) {
	var v *ConstraintViolation
	ok := errors.As(err, &v)
	return v, ok
}
