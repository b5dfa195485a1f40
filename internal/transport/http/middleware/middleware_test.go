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
	"go.uber.org/zap"

	"go-gin-shop/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

type stubResolver map[string]domain.Identity

func (s stubResolver) Resolve(_ context.Context, tok string) (domain.Identity, error) {
	if tok == "boom" {
		return domain.Identity{}, domain.Internal("db down", errors.New("x"))
	}
	who, ok := s[tok]
	if !ok {
		return domain.Identity{}, domain.Unauthorized("bad token")
	}
	return who, nil
}

func newEngine(h ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.Use(h...)
	r.GET("/x", func(c *gin.Context) {
		who, _ := IdentityFrom(c)
		c.String(http.StatusOK, who.UserID)
	})
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentifyCookieAndBearer(t *testing.T) {
	cookie := SessionCookie{Name: "token"}
	res := stubResolver{
		"t-user":  {UserID: "u1", Role: domain.RoleUser},
		"t-admin": {UserID: "a1", Role: domain.RoleAdmin},
	}
	r := newEngine(Identify(res, cookie, zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "t-user"})
	assert.Equal(t, "u1", do(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer t-admin")
	assert.Equal(t, "a1", do(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer boom")
	assert.Equal(t, http.StatusInternalServerError, do(r, req).Code)
}

func TestRequireRole(t *testing.T) {
	res := stubResolver{
		"t-user":  {UserID: "u1", Role: domain.RoleUser},
		"t-admin": {UserID: "a1", Role: domain.RoleAdmin},
	}
	r := newEngine(Identify(res, SessionCookie{}, zap.NewNop()), RequireRole(domain.RoleAdmin))

	assert.Equal(t, http.StatusUnauthorized, do(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer t-user")
	assert.Equal(t, http.StatusForbidden, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer t-admin")
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestSessionCookieAttributes(t *testing.T) {
	cookie := SessionCookie{Name: "token", Secure: true, TTL: 24 * time.Hour}
	r := gin.New()
	r.GET("/login", func(c *gin.Context) { cookie.Set(c, "abc"); c.Status(http.StatusOK) })
	r.GET("/logout", func(c *gin.Context) { cookie.Clear(c); c.Status(http.StatusOK) })

	w := do(r, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, "token", ck.Name)
	assert.Equal(t, "abc", ck.Value)
	assert.Equal(t, "/", ck.Path)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteNoneMode, ck.SameSite)
	assert.Equal(t, 86400, ck.MaxAge)

	w = do(r, httptest.NewRequest(http.MethodGet, "/logout", nil))
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestRateLimitPerIP(t *testing.T) {
	r := newEngine(RateLimitPerIP(1, 2, time.Minute))
	req := func(ip string) int {
		rq := httptest.NewRequest(http.MethodGet, "/x", nil)
		rq.RemoteAddr = ip + ":1234"
		return do(r, rq).Code
	}
	assert.Equal(t, http.StatusOK, req("10.0.0.1"))
	assert.Equal(t, http.StatusOK, req("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, req("10.0.0.1"))
	assert.Equal(t, http.StatusOK, req("10.0.0.2"))
}

func TestRequestIDEchoed(t *testing.T) {
	r := newEngine()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(KeyRequestID, "rid-1")
	assert.Equal(t, "rid-1", do(r, req).Header().Get(KeyRequestID))

	w := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get(KeyRequestID))
}

func TestMaskQuery(t *testing.T) {
	out := maskQuery(map[string][]string{"Password": {"x"}, "q": {"shoe"}})
	assert.Equal(t, []string{"****"}, out["Password"])
	assert.Equal(t, []string{"shoe"}, out["q"])
}
