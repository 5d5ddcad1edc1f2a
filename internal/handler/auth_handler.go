package handler

import (
	"net/http"

	"sneakerhub/internal/usecase"
	auth "sneakerhub/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /auth と、トークンで本人確認する /users の入口
type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
	verifyUC   *auth.EmailVerificationUsecase
	resetUC    *auth.PasswordResetUsecase
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	verifyUC *auth.EmailVerificationUsecase,
	resetUC *auth.PasswordResetUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		verifyUC:   verifyUC,
		resetUC:    resetUC,
	}
}

// POST /users のリクエストボディ。
type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// /auth/login のリクエストボディ。
type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type passwordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type passwordResetRedeemRequest struct {
	NewPassword string `json:"new_password" validate:"required"`
}

func (h *AuthHandler) RegisterRoutes(api *echo.Group, g Guards) {
	api.POST("/auth/login", h.login)
	api.POST("/auth/refresh", h.refresh)

	api.POST("/users", h.register)
	api.GET("/users/verify/:token", h.verifyEmail)
	api.POST("/users/verify/resend", h.resendVerification, g.Auth)
	api.POST("/users/password-reset", h.requestPasswordReset)
	api.POST("/users/password-reset/:token", h.redeemPasswordReset)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	out, err := h.registerUC.Execute(c.Request().Context(), usecase.CreateAccountInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	out, err := h.loginUC.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) verifyEmail(c echo.Context) error {
	account, err := h.verifyUC.Verify(c.Request().Context(), c.Param("token"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

func (h *AuthHandler) resendVerification(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.verifyUC.Resend(c.Request().Context(), p); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, SuccessResponse{Message: "verification email requested"})
}

func (h *AuthHandler) requestPasswordReset(c echo.Context) error {
	var req passwordResetRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.resetUC.Request(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, SuccessResponse{Message: "password reset email requested"})
}

func (h *AuthHandler) redeemPasswordReset(c echo.Context) error {
	var req passwordResetRedeemRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.resetUC.Redeem(c.Request().Context(), c.Param("token"), req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
