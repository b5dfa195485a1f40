package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookie describes the cookie that carries the session token.
type SessionCookie struct {
	Name   string
	Domain string
	Secure bool
	TTL    time.Duration
}

func (s SessionCookie) name() string {
	if s.Name == "" {
		return "token"
	}
	return s.Name
}

// Set writes an HttpOnly, SameSite=None cookie valid for TTL.
func (s SessionCookie) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(s.name(), token, int(s.TTL.Seconds()), "/", s.Domain, s.Secure, true)
}

// Clear expires the cookie.
func (s SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(s.name(), "", -1, "/", s.Domain, s.Secure, true)
}

// Token reads the session token from the cookie, falling back to an
// Authorization: Bearer header.
func (s SessionCookie) Token(c *gin.Context) string {
	if v, err := c.Cookie(s.name()); err == nil && v != "" {
		return v
	}
	if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))
	}
	return ""
}
