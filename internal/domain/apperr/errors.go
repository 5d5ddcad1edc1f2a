package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ドメインエラーの種類
var (
	ErrNotFound                = errors.New("not found")
	ErrAlreadyExists           = errors.New("already exists")
	ErrNoDataProvided          = errors.New("no data provided")
	ErrInvalidValue            = errors.New("invalid value")
	ErrAlreadyVerified         = errors.New("already verified")
	ErrInactive                = errors.New("account is inactive")
	ErrUnverified              = errors.New("email is not verified")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrTokenExpired            = errors.New("token expired")
	ErrInUse                   = errors.New("resource in use")
)

// Error はKind（上のsentinel）に、対象フィールドと補足を付けたもの。
type Error struct {
	Kind    error
	Field   string
	Message string
	Details []string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%s [%s]", msg, strings.Join(e.Details, ", "))
	}
	return msg
}

// errors.Is(err, apperr.ErrNotFound) で判定できるようにする
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error { return e.Kind }

func New(kind error, field string, message string) *Error {
	return &Error{Kind: kind, Field: field, Message: message}
}

func NotFound(entity string, ids ...string) *Error {
	return &Error{Kind: ErrNotFound, Field: entity, Message: "not found", Details: ids}
}

func AlreadyExists(field string) *Error {
	return &Error{Kind: ErrAlreadyExists, Field: field, Message: "already exists"}
}

func NoDataProvided() *Error {
	return &Error{Kind: ErrNoDataProvided, Message: "no data provided"}
}

func InvalidValue(field string, message string) *Error {
	return &Error{Kind: ErrInvalidValue, Field: field, Message: message}
}

// 在庫不足（InvalidValue の一種）
func InsufficientStock(variantIDs ...string) *Error {
	return &Error{Kind: ErrInvalidValue, Field: "quantity", Message: "insufficient stock", Details: variantIDs}
}

func InUse(entity string, message string) *Error {
	return &Error{Kind: ErrInUse, Field: entity, Message: message}
}

func AlreadyVerified() *Error { return &Error{Kind: ErrAlreadyVerified} }
func Inactive() *Error { return &Error{Kind: ErrInactive} }
func Unverified() *Error { return &Error{Kind: ErrUnverified} }
func InsufficientPermissions() *Error { return &Error{Kind: ErrInsufficientPermissions} }
func InvalidCredentials() *Error { return &Error{Kind: ErrInvalidCredentials} }
func TokenExpired() *Error { return &Error{Kind: ErrTokenExpired} }

// As は err を *Error として取り出す。
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// KindOf はエラーの種類を返す。ドメインエラーでなければ nil。
func KindOf(err error) error {
	if e, ok := As(err); ok {
		return e.Kind
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

var kinds = []error{
	ErrNotFound, ErrAlreadyExists, ErrNoDataProvided, ErrInvalidValue, ErrAlreadyVerified, ErrInactive,
	ErrUnverified, ErrInsufficientPermissions, ErrInvalidCredentials, ErrTokenExpired, ErrInUse,
}
