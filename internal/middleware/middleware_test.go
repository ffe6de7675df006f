package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"linkwrap-platform/internal/config"
	auth "linkwrap-platform/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserID(c)})
	})
	r.GET("/api/skip", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/deadline", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"deadline": ok})
	})
	return r
}

func get(r http.Handler, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_Local(t *testing.T) {
	r := newRouter(RateLimit(nil, &config.Limit{
		Enabled:       true,
		Requests:      3,
		WindowSeconds: 3600,
		SkipPaths:     []string{"/api/skip"},
	}))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/ok").Code)
	}
	w := get(r, "/ok")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	retry, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Greater(t, retry, 0)
	assert.LessOrEqual(t, retry, 3600)

	// 跳过的路径不计数
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/api/skip").Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	r := newRouter(RateLimit(nil, &config.Limit{Enabled: false, Requests: 1, WindowSeconds: 60}))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/ok").Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	tokens := auth.NewManager("secret", "linkwrap", 1)
	r := newRouter(OptionalAuth(tokens))

	w := get(r, "/ok")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":""}`, w.Body.String())

	token, err := tokens.GenerateToken("user_7")
	require.NoError(t, err)
	w = get(r, "/ok", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"user_7"}`, w.Body.String())

	long, err := tokens.GenerateToken(strings.Repeat("u", 65))
	require.NoError(t, err)
	w = get(r, "/ok", "Authorization", "Bearer "+long)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "超长用户 ID")

	for _, h := range []string{"Bearer", "Basic abc", "Bearer bad.token.value", token} {
		w = get(r, "/ok", "Authorization", h)
		assert.Equal(t, http.StatusUnauthorized, w.Code, h)
	}
}

func TestGinZapRecoveryAndLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	r := newRouter(GinZapRecovery(logger, false), GinZapLogger(logger))

	w := get(r, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
	assert.Equal(t, 1, logs.FilterMessage("Recovered from panic").Len())

	get(r, "/ok?secret=1")
	entries := logs.FilterMessage("/ok").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
}

func TestContextTimeout(t *testing.T) {
	r := newRouter(ContextTimeout(time.Second))
	assert.JSONEq(t, `{"deadline":true}`, get(r, "/deadline").Body.String())

	r = newRouter(ContextTimeout(0))
	assert.JSONEq(t, `{"deadline":false}`, get(r, "/deadline").Body.String())
}

func TestNoIndexHeadersAndMethodNotAllowed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NoIndexHeaders())
	r.POST("/go/:id", MethodNotAllowed(http.MethodGet, http.MethodHead))

	req := httptest.NewRequest(http.MethodPost, "/go/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, HEAD", w.Header().Get("Allow"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
	assert.Equal(t, "0", w.Header().Get("Expires"))
}
