package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubBlacklist struct {
	tokens map[string]bool
	err    error
}

func (s stubBlacklist) IsInBlacklist(_ context.Context, token string) (bool, error) {
	return s.tokens[token], s.err
}

func serve(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthAndRole(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour, 24*time.Hour)
	member, err := manager.GenerateToken(1, "a@example.com", "Alice", string(user.RoleMember))
	require.NoError(t, err)
	admin, err := manager.GenerateToken(2, "b@example.com", "Bob", string(user.RoleAdmin))
	require.NoError(t, err)
	revoked, err := manager.GenerateToken(3, "c@example.com", "Carol", string(user.RoleAdmin))
	require.NoError(t, err)

	auth := NewAuthMiddleware(manager, stubBlacklist{tokens: map[string]bool{revoked.AccessToken: true}})

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		token, expiresAt := GetToken(c)
		assert.NotEmpty(t, token)
		assert.True(t, expiresAt.After(time.Now()))
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": GetRole(c)})
	})
	r.GET("/admin", auth.RequireAuth(), auth.RequireRole(user.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	bearer := func(token string) map[string]string {
		return map[string]string{"Authorization": "Bearer " + token}
	}

	tests := []struct {
		name   string
		path   string
		header map[string]string
		want   int
	}{
		{"无Token", "/me", nil, http.StatusUnauthorized},
		{"格式错误", "/me", map[string]string{"Authorization": member.AccessToken}, http.StatusUnauthorized},
		{"无效Token", "/me", bearer("garbage"), http.StatusUnauthorized},
		{"Refresh Token", "/me", bearer(member.RefreshToken), http.StatusUnauthorized},
		{"已登出", "/me", bearer(revoked.AccessToken), http.StatusUnauthorized},
		{"member", "/me", bearer(member.AccessToken), http.StatusOK},
		{"member访问管理接口", "/admin", bearer(member.AccessToken), http.StatusForbidden},
		{"admin访问管理接口", "/admin", bearer(admin.AccessToken), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, tt.path, tt.header)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRequireAuth_BlacklistError(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour, 24*time.Hour)
	pair, err := manager.GenerateToken(1, "a@example.com", "Alice", string(user.RoleMember))
	require.NoError(t, err)

	down := apperrors.WithCode(apperrors.ErrCodeRedisError, errors.New("connection refused"), "检查Token黑名单失败")
	auth := NewAuthMiddleware(manager, stubBlacklist{err: down})

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + pair.AccessToken})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Logger(), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":50000`)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestCORS(t *testing.T) {
	t.Run("允许所有来源", func(t *testing.T) {
		r := gin.New()
		r.Use(CORS(config.CORSConfig{AllowOrigins: []string{"*"}, MaxAge: time.Hour}))
		r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serve(r, http.MethodOptions, "/ping", map[string]string{
			// 与httptest默认Host(example.com)不同源，否则按同源请求跳过CORS处理
			"Origin":                        "http://client.test",
			"Access-Control-Request-Method": http.MethodGet,
		})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("白名单", func(t *testing.T) {
		r := gin.New()
		r.Use(CORS(config.CORSConfig{AllowOrigins: []string{"http://allowed.com"}, AllowCredentials: true}))
		r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serve(r, http.MethodGet, "/ping", map[string]string{"Origin": "http://allowed.com"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://allowed.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

		w = serve(r, http.MethodGet, "/ping", map[string]string{"Origin": "http://evil.com"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	r := gin.New()
	r.Use(Metrics(), Tracing())
	r.GET("/books/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/books/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/nope", nil).Code)
}
