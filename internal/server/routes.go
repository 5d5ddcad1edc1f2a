package server

import (
	"net/http"

	"sneakerhub/internal/handler"

	"github.com/labstack/echo/v4"
)

// Handlers はルート登録に使うハンドラ一式
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	AdminUsers   *handler.AdminUserHandler
	Products     *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Orders       *handler.OrderHandler
	AdminOrders  *handler.AdminOrderHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers, g handler.Guards) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")

	h.Auth.RegisterRoutes(api, g)
	h.Users.RegisterRoutes(api, g)
	h.AdminUsers.RegisterRoutes(api, g)
	h.Products.RegisterRoutes(api)
	h.AdminProduct.RegisterRoutes(api, g)
	h.Orders.RegisterRoutes(api, g)
	h.AdminOrders.RegisterRoutes(api, g)
}
