package handler

import (
	"errors"
	"net/http"

	"sneakerhub/internal/domain/apperr"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string   `json:"error"`
	Field   string   `json:"field,omitempty"`
	Details []string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// ドメインエラーの種類 -> HTTPステータス
var statusByKind = map[error]int{
	apperr.ErrNotFound:                http.StatusNotFound,
	apperr.ErrAlreadyExists:           http.StatusConflict,
	apperr.ErrInUse:                   http.StatusConflict,
	apperr.ErrAlreadyVerified:         http.StatusConflict,
	apperr.ErrInvalidCredentials:      http.StatusUnauthorized,
	apperr.ErrTokenExpired:            http.StatusUnauthorized,
	apperr.ErrUnverified:              http.StatusForbidden,
	apperr.ErrInsufficientPermissions: http.StatusForbidden,
	apperr.ErrInactive:                http.StatusForbidden,
	apperr.ErrNoDataProvided:          http.StatusBadRequest,
	apperr.ErrInvalidValue:            http.StatusUnprocessableEntity,
}

// StatusOf はエラーのHTTPステータスと、返してよい本文を決める
func StatusOf(err error) (int, ErrorResponse) {
	if e, ok := apperr.As(err); ok {
		if status, ok := statusByKind[e.Kind]; ok {
			return status, ErrorResponse{Error: e.Error(), Field: e.Field, Details: e.Details}
		}
	}
	if kind := apperr.KindOf(err); kind != nil {
		return statusByKind[kind], ErrorResponse{Error: kind.Error()}
	}

	//bind失敗・ルートなしなど echo 側のエラー
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return he.Code, ErrorResponse{Error: msg}
	}

	//500（中身は返さない）
	return http.StatusInternalServerError, ErrorResponse{Error: "internal error"}
}

// NewErrorHandler は echo の HTTPErrorHandler。500 のときだけ詳細をログに出す
func NewErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := StatusOf(err)
		if status >= http.StatusInternalServerError {
			logger.Error("unexpected error",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}
