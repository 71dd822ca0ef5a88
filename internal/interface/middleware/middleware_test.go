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

	"github.com/oksasatya/go-social-api/internal/domain/entity"
)

type stubResolver map[string]*entity.User

func (s stubResolver) ResolveAccessToken(_ context.Context, token string) (*entity.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, errors.New("bad token")
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "%s|%s|%s", CurrentUserID(c), c.GetString("real_ip"), c.GetString("request_id"))
	})
	return r
}

func get(r *gin.Engine, header map[string]string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	resolver := stubResolver{"good": {ID: "u1"}}
	r := newEngine(Authenticate(resolver))

	w := get(r, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No token")

	w = get(r, map[string]string{"Authorization": "Bearer nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, map[string]string{"Authorization": "Basic good"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, map[string]string{"Authorization": "Bearer good"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1|")

	w = get(r, nil, &http.Cookie{Name: "access_token", Value: "good"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthNeverRejects(t *testing.T) {
	resolver := stubResolver{"good": {ID: "u1"}}
	r := newEngine(OptionalAuth(resolver))

	w := get(r, map[string]string{"Authorization": "Bearer garbage"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "|", w.Body.String()[:1])

	w = get(r, map[string]string{"Authorization": "Bearer good"}, nil)
	assert.Contains(t, w.Body.String(), "u1|")
}

func TestRealIPPrefersProxyHeaders(t *testing.T) {
	r := newEngine(RealIP())

	w := get(r, map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"}, nil)
	assert.Contains(t, w.Body.String(), "|203.0.113.7|")

	w = get(r, map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, nil)
	assert.Contains(t, w.Body.String(), "|198.51.100.1|")
}

func TestRequestIDReusesValidHeader(t *testing.T) {
	r := newEngine(RequestID())

	id := "0b8a4b8e-0000-4000-8000-000000000001"
	w := get(r, map[string]string{RequestIDHeader: id}, nil)
	assert.Equal(t, id, w.Header().Get(RequestIDHeader))

	w = get(r, map[string]string{RequestIDHeader: "not-a-uuid"}, nil)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(RequestIDHeader))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRateLimitWithoutRedisIsNoop(t *testing.T) {
	r := newEngine(RateLimit(nil, 1, time.Minute, KeyByIP(), nil))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(r, nil, nil).Code)
	}
}

func TestKeyFuncs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	c.Set("real_ip", "10.1.2.3")

	assert.Equal(t, "rl:ip:10.1.2.3", KeyByIP()(c))
	assert.Equal(t, "rl:path:/api/posts:ip:10.1.2.3", KeyByIPAndPath()(c))
	assert.Equal(t, "rl:user:anon:ip:10.1.2.3", KeyByUserID()(c))
	assert.True(t, AllowPrivateIP()(c))

	c.Set(CtxUserIDKey, "u1")
	assert.Equal(t, "rl:user:u1", KeyByUserID()(c))

	c.Set("real_ip", "203.0.113.9")
	assert.False(t, AllowPrivateIP()(c))
}
