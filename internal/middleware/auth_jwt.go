package middleware

import (
	"strings"

	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"
	auth "sneakerhub/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

const (
	CtxPrincipalKey = "principal" // model.Account
)

// Bearerトークンから principal を解決して context に入れる。
// エラーはそのまま返して、HTTPErrorHandler でステータスにする
func AuthJWT(guard *auth.AccessGuard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get(echo.HeaderAuthorization)
			if authz == "" {
				return apperr.InvalidCredentials()
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return apperr.InvalidCredentials()
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return apperr.InvalidCredentials()
			}

			principal, err := guard.Resolve(c.Request().Context(), rawToken)
			if err != nil {
				return err
			}

			//contextへ保存
			c.Set(CtxPrincipalKey, principal)
			return next(c)
		}
	}
}

// Principal は AuthJWT が入れたアカウントを取り出す
func Principal(c echo.Context) (model.Account, bool) {
	p, ok := c.Get(CtxPrincipalKey).(model.Account)
	return p, ok
}
