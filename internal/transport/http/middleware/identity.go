package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-shop/internal/core/logger"
	"go-gin-shop/internal/domain"
	resp "go-gin-shop/internal/transport/http/response"
)

const keyIdentity = "identity"

type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (domain.Identity, error)
}

// Identify resolves the session token once per request. Requests
// without a usable token continue anonymously; RequireRole or the
// action layer decide whether that is allowed.
func Identify(r IdentityResolver, cookie SessionCookie, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := cookie.Token(c)
		if tok == "" {
			c.Next()
			return
		}
		who, err := r.Resolve(c.Request.Context(), tok)
		if err != nil {
			if domain.KindOf(err) == domain.KindInternal {
				l.Error("resolve identity", logger.RequestID(RequestIDFrom(c)), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, ""))
				return
			}
			c.Next()
			return
		}
		c.Set(keyIdentity, who)
		c.Next()
	}
}

// IdentityFrom returns the caller resolved by Identify.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(keyIdentity)
	if !ok {
		return domain.Identity{}, false
	}
	who, ok := v.(domain.Identity)
	return who, ok && !who.IsZero()
}

// RequireRole rejects anonymous callers with 401 and, when roles are
// given, callers outside them with 403.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		who, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "not authorized, please login"))
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, who.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "not authorized as "+strings.Join(roles, " or ")))
			return
		}
		c.Next()
	}
}
