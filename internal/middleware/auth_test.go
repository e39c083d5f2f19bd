package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilityaudit/internal/auth"
	"facilityaudit/internal/cache"
	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/model"
)

type stubUsers map[uint]*model.User

func (s stubUsers) GetUser(_ context.Context, id uint) (*model.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

type authEnv struct {
	echo   *echo.Echo
	jwt    *auth.JWTService
	tokens *auth.TokenStore
}

func newAuthEnv(t *testing.T, users stubUsers) *authEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	env := &authEnv{
		echo:   echo.New(),
		jwt:    auth.NewJWTService("middleware-secret", time.Hour, 24*time.Hour),
		tokens: auth.NewTokenStore(cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))),
	}
	g := env.echo.Group("", JWT(env.jwt), LoadUser(users, env.tokens))
	g.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"id": CurrentUser(c).ID, "jti": Claims(c).ID})
	})
	g.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireRoles(model.RoleAdmin))
	return env
}

func (env *authEnv) do(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	admin := &model.User{ID: 1, Email: "admin@example.com", Role: model.RoleAdmin, IsActive: true}
	worker := &model.User{ID: 2, Email: "worker@example.com", Role: model.RoleWorker, IsActive: true}
	gone := &model.User{ID: 3, Email: "gone@example.com", Role: model.RoleWorker, IsActive: false}
	env := newAuthEnv(t, stubUsers{1: admin, 2: worker, 3: gone})

	adminToken, err := env.jwt.GenerateAccessToken(admin)
	require.NoError(t, err)
	workerToken, err := env.jwt.GenerateAccessToken(worker)
	require.NoError(t, err)
	goneToken, err := env.jwt.GenerateAccessToken(gone)
	require.NoError(t, err)
	_, refreshToken, err := env.jwt.GenerateRefreshToken(worker)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		code   string
	}{
		{"valid token", "/me", workerToken, http.StatusOK, ""},
		{"missing token", "/me", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"garbage token", "/me", "not-a-jwt", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"refresh token used as access", "/me", refreshToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"inactive user", "/me", goneToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"admin route as admin", "/admin", adminToken, http.StatusNoContent, ""},
		{"admin route as worker", "/admin", workerToken, http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt.path, tt.token)
			assert.Equal(t, tt.status, rec.Code)
			if tt.code != "" {
				var body apperrors.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.code, body.Code)
			}
		})
	}
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	worker := &model.User{ID: 2, Email: "worker@example.com", Role: model.RoleWorker, IsActive: true}
	env := newAuthEnv(t, stubUsers{2: worker})

	token, err := env.jwt.GenerateAccessToken(worker)
	require.NoError(t, err)
	claims, err := env.jwt.ValidateToken(token)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, env.do("/me", token).Code)
	require.NoError(t, env.tokens.BlacklistAccessToken(context.Background(), claims.ID, time.Minute))

	rec := env.do("/me", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_REVOKED")
}
