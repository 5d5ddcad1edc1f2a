package handler

import (
	"strconv"
	"strings"

	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"
	"sneakerhub/internal/middleware"

	"github.com/labstack/echo/v4"
)

// ルートごとに付けるミドルウェア
type Guards struct {
	Auth     echo.MiddlewareFunc // Bearer必須
	Verified echo.MiddlewareFunc // メール認証済み
	Admin    echo.MiddlewareFunc // 管理者
}

// JSONを読んで validate タグを確認する
func bindJSON(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	return c.Validate(req)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid " + name)
	}
	return id, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("invalid " + name)
	}
	return n, nil
}

func queryInt64Ptr(c echo.Context, name string) (*int64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, badRequest("invalid " + name)
	}
	return &n, nil
}

func queryBoolPtr(c echo.Context, name string) (*bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, badRequest("invalid " + name)
	}
	return &b, nil
}

// sizes=42,42.5 と size=42&size=42.5 のどちらでも受ける
func queryFloats(c echo.Context, names ...string) ([]float64, error) {
	var out []float64
	for _, name := range names {
		for _, raw := range c.QueryParams()[name] {
			for _, part := range strings.Split(raw, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				f, err := strconv.ParseFloat(part, 64)
				if err != nil {
					return nil, badRequest("invalid " + name)
				}
				out = append(out, f)
			}
		}
	}
	return out, nil
}

func principal(c echo.Context) (model.Account, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return model.Account{}, apperr.InvalidCredentials()
	}
	return p, nil
}
