package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"
	"sneakerhub/internal/handler"
	"sneakerhub/internal/middleware"
	"sneakerhub/internal/usecase"
	auth "sneakerhub/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// =====================
// fakes
// =====================

// トークン文字列 = username のつもりで扱う
type stubIssuer struct{}

func (stubIssuer) Issue(model.TokenPurpose, string) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (stubIssuer) IssueVerification(string, string) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (stubIssuer) Verify(raw string, purpose model.TokenPurpose) (model.ActionToken, error) {
	if raw == "expired" {
		return model.ActionToken{}, apperr.TokenExpired()
	}
	if purpose != model.TokenPurposeAccess {
		return model.ActionToken{}, apperr.InvalidCredentials()
	}
	return model.ActionToken{Subject: raw, Purpose: purpose}, nil
}

type stubAccounts struct {
	byName map[string]model.Account
}

func (s stubAccounts) Create(context.Context, usecase.CreateAccountInput) (model.Account, error) {
	return model.Account{}, nil
}

func (s stubAccounts) GetByUsername(_ context.Context, username string) (model.Account, error) {
	a, ok := s.byName[username]
	if !ok {
		return model.Account{}, apperr.NotFound("account")
	}
	return a, nil
}

func (s stubAccounts) GetByEmail(context.Context, string) (model.Account, error) {
	return model.Account{}, apperr.NotFound("account")
}

func (s stubAccounts) Verify(context.Context, int64) (model.Account, error) {
	return model.Account{}, nil
}

func (s stubAccounts) ResetPassword(context.Context, int64, string) error { return nil }

func newGuard() *auth.AccessGuard {
	return auth.NewAccessGuard(stubAccounts{byName: map[string]model.Account{
		"member":     {ID: 1, Username: "member", IsActive: true, IsVerified: true},
		"unverified": {ID: 2, Username: "unverified", IsActive: true},
		"admin":      {ID: 3, Username: "admin", IsActive: true, IsSuperuser: true},
		"banned":     {ID: 4, Username: "banned", IsVerified: true},
	}}, stubIssuer{})
}

func newEcho(logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = handler.NewErrorHandler(logger)
	e.Use(middleware.RequestLogger(logger))

	guard := newGuard()
	authMW := middleware.AuthJWT(guard)

	whoami := func(c echo.Context) error {
		p, ok := middleware.Principal(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, map[string]any{"id": p.ID})
	}
	e.GET("/me", whoami, authMW)
	e.GET("/orders", whoami, authMW, middleware.VerifiedGuard(guard))
	e.GET("/admin", whoami, authMW, middleware.AdminRoleGuard(guard))
	e.GET("/no-auth-admin", whoami, middleware.AdminRoleGuard(guard))
	return e
}

func do(e *echo.Echo, path string, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// =====================
// AuthJWT
// =====================

func TestAuthJWT(t *testing.T) {
	e := newEcho(zap.NewNop())

	cases := []struct {
		name   string
		authz  string
		status int
	}{
		{name: "ok", authz: "Bearer member", status: http.StatusOK},
		{name: "lower bearer", authz: "bearer member", status: http.StatusOK},
		{name: "missing header", authz: "", status: http.StatusUnauthorized},
		{name: "not bearer", authz: "Basic abc", status: http.StatusUnauthorized},
		{name: "empty token", authz: "Bearer   ", status: http.StatusUnauthorized},
		{name: "expired", authz: "Bearer expired", status: http.StatusUnauthorized},
		{name: "unknown subject", authz: "Bearer ghost", status: http.StatusUnauthorized},
		{name: "inactive", authz: "Bearer banned", status: http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(e, "/me", tc.authz)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestAuthJWT_SetsPrincipal(t *testing.T) {
	e := newEcho(zap.NewNop())

	rec := do(e, "/me", "Bearer admin")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body["id"])
}

// =====================
// Guards
// =====================

func TestVerifiedGuard(t *testing.T) {
	e := newEcho(zap.NewNop())

	assert.Equal(t, http.StatusOK, do(e, "/orders", "Bearer member").Code)
	assert.Equal(t, http.StatusForbidden, do(e, "/orders", "Bearer unverified").Code)
	//管理者は未認証でも通る
	assert.Equal(t, http.StatusOK, do(e, "/orders", "Bearer admin").Code)
}

func TestAdminRoleGuard(t *testing.T) {
	e := newEcho(zap.NewNop())

	assert.Equal(t, http.StatusForbidden, do(e, "/admin", "Bearer member").Code)
	assert.Equal(t, http.StatusOK, do(e, "/admin", "Bearer admin").Code)

	//AuthJWT を通っていない
	assert.Equal(t, http.StatusUnauthorized, do(e, "/no-auth-admin", "").Code)
}

// =====================
// RequestLogger
// =====================

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := newEcho(zap.New(core))

	rec := do(e, "/me", "Bearer member")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusUnauthorized), entries[1].ContextMap()["status"])
	assert.Equal(t, "req-123", entries[1].ContextMap()["request_id"])
}
