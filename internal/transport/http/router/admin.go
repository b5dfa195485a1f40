package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-shop/internal/core/server"
	"go-gin-shop/internal/domain"
	"go-gin-shop/internal/transport/http/ez"
	mdw "go-gin-shop/internal/transport/http/middleware"
)

// NewAdminEngine serves /admin/v1, where every route requires the admin role.
func NewAdminEngine(l *zap.Logger, reg *Registry, o Options) *gin.Engine {
	o = o.withDefaults()
	r := server.NewRouter(l, o.Server)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
		mdw.Timeout(o.HandlerTimeout),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", health)

	admin := r.Group("/admin/v1")
	admin.Use(
		mdw.Identify(o.Resolver, o.Cookie, l),
		mdw.RequireRole(domain.RoleAdmin),
	)
	reg.MountAdmin(ez.New(admin, l))

	return r
}
