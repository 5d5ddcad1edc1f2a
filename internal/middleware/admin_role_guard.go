package middleware

import (
	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// 権限の判定（auth.AccessGuard）
type PrincipalGuard interface {
	RequireVerified(p model.Account) error
	RequireSuperuser(p model.Account) error
}

// AuthJWT のあとに置く。principal が条件を満たすか確認する
func requirePrincipal(check func(p model.Account) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := Principal(c)
			if !ok {
				return apperr.InvalidCredentials()
			}
			if err := check(p); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// 管理者だけ
func AdminRoleGuard(g PrincipalGuard) echo.MiddlewareFunc {
	return requirePrincipal(g.RequireSuperuser)
}

// メール認証済み（管理者は通す）
func VerifiedGuard(g PrincipalGuard) echo.MiddlewareFunc {
	return requirePrincipal(g.RequireVerified)
}
