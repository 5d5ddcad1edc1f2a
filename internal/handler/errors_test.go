package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sneakerhub/internal/domain/apperr"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   ErrorResponse
	}{
		{name: "not found", err: apperr.NotFound("catalog variant", "3"), status: http.StatusNotFound, body: ErrorResponse{Error: "catalog variant: not found [3]", Field: "catalog variant", Details: []string{"3"}}},
		{name: "already exists", err: apperr.AlreadyExists("email"), status: http.StatusConflict, body: ErrorResponse{Error: "email: already exists", Field: "email"}},
		{name: "in use", err: apperr.InUse("catalog variant", "ordered"), status: http.StatusConflict, body: ErrorResponse{Error: "catalog variant: ordered", Field: "catalog variant"}},
		{name: "already verified", err: apperr.AlreadyVerified(), status: http.StatusConflict, body: ErrorResponse{Error: "already verified"}},
		{name: "credentials", err: apperr.InvalidCredentials(), status: http.StatusUnauthorized, body: ErrorResponse{Error: "invalid credentials"}},
		{name: "expired", err: apperr.TokenExpired(), status: http.StatusUnauthorized, body: ErrorResponse{Error: "token expired"}},
		{name: "unverified", err: apperr.Unverified(), status: http.StatusForbidden, body: ErrorResponse{Error: "email is not verified"}},
		{name: "permissions", err: apperr.InsufficientPermissions(), status: http.StatusForbidden, body: ErrorResponse{Error: "insufficient permissions"}},
		{name: "inactive", err: apperr.Inactive(), status: http.StatusForbidden, body: ErrorResponse{Error: "account is inactive"}},
		{name: "no data", err: apperr.NoDataProvided(), status: http.StatusBadRequest, body: ErrorResponse{Error: "no data provided"}},
		{name: "invalid value", err: fmt.Errorf("wrap: %w", apperr.InvalidValue("size", "must be > 0")), status: http.StatusUnprocessableEntity, body: ErrorResponse{Error: "size: must be > 0", Field: "size"}},
		{name: "bare sentinel", err: fmt.Errorf("wrap: %w", apperr.ErrNotFound), status: http.StatusNotFound, body: ErrorResponse{Error: "not found"}},
		{name: "echo", err: echo.NewHTTPError(http.StatusBadRequest, "invalid id"), status: http.StatusBadRequest, body: ErrorResponse{Error: "invalid id"}},
		{name: "echo default message", err: echo.ErrMethodNotAllowed, status: http.StatusMethodNotAllowed, body: ErrorResponse{Error: "Method Not Allowed"}},
		{name: "unexpected", err: errors.New("connection reset by peer"), status: http.StatusInternalServerError, body: ErrorResponse{Error: "internal error"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := StatusOf(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.body, body)
		})
	}
}

func TestNewErrorHandler(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler(zap.New(core))
	e.GET("/boom", func(echo.Context) error { return errors.New("db is down") })
	e.GET("/missing", func(echo.Context) error { return apperr.NotFound("order") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	//中身は返さない
	assert.Equal(t, "internal error", body.Error)

	entries := logs.FilterMessage("unexpected error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/boom", entries[0].ContextMap()["path"])

	//4xx はログに出さない
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, logs.Len())

	//HEAD は本文なし
	e.HEAD("/missing", func(echo.Context) error { return apperr.NotFound("order") })
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, rec.Body.Len())
}
