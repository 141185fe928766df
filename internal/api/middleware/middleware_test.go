package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aya-platform/volunteer-hub/internal/pkg/jwthelper"
)

const (
	testKey       = "test-signing-key"
	testUserAgent = "volunteer-hub-test"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", append(handlers, func(ctx *gin.Context) {
		id, ok := UserID(ctx)
		ctx.JSON(http.StatusOK, gin.H{"id": id, "ok": ok})
	})...)

	return r
}

func doGet(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", testUserAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestAuthenticator_VerifyJWT(t *testing.T) {
	auth := NewAuthenticator(testKey)
	r := newRouter(auth.VerifyJWT())

	token, err := jwthelper.GenerateToken([]byte(testKey), 42, testUserAgent)
	require.NoError(t, err)

	w := doGet(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42,"ok":true}`, w.Body.String())

	w = doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	otherKey, err := jwthelper.GenerateToken([]byte("other"), 42, testUserAgent)
	require.NoError(t, err)
	w = doGet(r, otherKey)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	otherAgent, err := jwthelper.GenerateToken([]byte(testKey), 42, "curl")
	require.NoError(t, err)
	w = doGet(r, otherAgent)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticator_OptionalJWT(t *testing.T) {
	auth := NewAuthenticator(testKey)
	r := newRouter(auth.OptionalJWT())

	w := doGet(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":0,"ok":false}`, w.Body.String())

	w = doGet(r, "garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":0,"ok":false}`, w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	r := newRouter(limiter.Limit())

	assert.Equal(t, http.StatusOK, doGet(r, "").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "").Code)

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, doGet(r, "").Code)

	now = now.Add(limiterTTL + time.Second)
	assert.True(t, limiter.allow("10.0.0.1"))
	limiter.mu.Lock()
	assert.Len(t, limiter.buckets, 1)
	limiter.mu.Unlock()
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	r := newRouter(m.Instrument())
	r.GET("/metrics", gin.WrapH(m.Handler()))

	doGet(r, "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/",status="200"} 1`)
}

func TestConfigCORS(t *testing.T) {
	r := newRouter(ConfigCORS([]string{"http://localhost:3000"}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
