package handler

import (
	"net/http"

	"sneakerhub/internal/usecase"
	auth "sneakerhub/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// 管理者によるアカウント操作
type AdminUserHandler struct {
	accounts *usecase.AccountUsecase
	verifyUC *auth.EmailVerificationUsecase
}

func NewAdminUserHandler(accounts *usecase.AccountUsecase, verifyUC *auth.EmailVerificationUsecase) *AdminUserHandler {
	return &AdminUserHandler{accounts: accounts, verifyUC: verifyUC}
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func (h *AdminUserHandler) RegisterRoutes(api *echo.Group, g Guards) {
	// /users/:id 配下は全部「JWT必須 + 管理者限定」
	admin := api.Group("/users", g.Auth, g.Admin)

	admin.GET("/:id", h.get)
	admin.PATCH("/:id/email", h.updateEmail)
	admin.PATCH("/:id/username", h.updateUsername)
	admin.PATCH("/:id/active", h.setActive)
	admin.DELETE("/:id", h.delete)
}

func (h *AdminUserHandler) get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	account, err := h.accounts.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

func (h *AdminUserHandler) updateEmail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateEmailRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	updated, err := h.accounts.UpdateEmail(ctx, id, req.Email)
	if err != nil {
		return err
	}
	if err := h.verifyUC.Send(ctx, updated); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *AdminUserHandler) updateUsername(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateUsernameRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	updated, err := h.accounts.UpdateUsername(c.Request().Context(), id, req.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *AdminUserHandler) setActive(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req setActiveRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	updated, err := h.accounts.SetActive(c.Request().Context(), p.ID, id, *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *AdminUserHandler) delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.accounts.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
