package handler

import (
	"net/http"

	"sneakerhub/internal/usecase"
	auth "sneakerhub/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /users/me（自分のアカウント）
type UserHandler struct {
	accounts *usecase.AccountUsecase
	verifyUC *auth.EmailVerificationUsecase
}

func NewUserHandler(accounts *usecase.AccountUsecase, verifyUC *auth.EmailVerificationUsecase) *UserHandler {
	return &UserHandler{accounts: accounts, verifyUC: verifyUC}
}

type updateEmailRequest struct {
	Email string `json:"email" validate:"required"`
}

type updateUsernameRequest struct {
	Username string `json:"username" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

func (h *UserHandler) RegisterRoutes(api *echo.Group, g Guards) {
	me := api.Group("/users/me", g.Auth)

	me.GET("", h.me)
	me.PATCH("/email", h.updateEmail)
	me.PATCH("/username", h.updateUsername)
	me.PATCH("/password", h.changePassword)
	me.DELETE("", h.deleteMe)
}

func (h *UserHandler) me(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// email を変えたら未認証に戻るので、新しいアドレスに認証メールを送る
func (h *UserHandler) updateEmail(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updateEmailRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	updated, err := h.accounts.UpdateEmail(ctx, p.ID, req.Email)
	if err != nil {
		return err
	}
	if err := h.verifyUC.Send(ctx, updated); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *UserHandler) updateUsername(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updateUsernameRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	updated, err := h.accounts.UpdateUsername(c.Request().Context(), p.ID, req.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *UserHandler) changePassword(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), p.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) deleteMe(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.accounts.Delete(c.Request().Context(), p.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
