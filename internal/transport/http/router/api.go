package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-gin-shop/internal/core/server"
	"go-gin-shop/internal/transport/http/ez"
	mdw "go-gin-shop/internal/transport/http/middleware"
)

// Options configures both engines.
type Options struct {
	Server         server.Options
	Resolver       mdw.IdentityResolver
	Cookie         mdw.SessionCookie
	HandlerTimeout time.Duration
	MaxBodyBytes   int64
	// UploadDir is served read-only under UploadPrefix when both are set.
	UploadDir    string
	UploadPrefix string
}

func (o Options) withDefaults() Options {
	if o.HandlerTimeout <= 0 {
		o.HandlerTimeout = 20 * time.Second
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 16 << 20
	}
	return o
}

func NewAPIEngine(l *zap.Logger, reg *Registry, o Options) *gin.Engine {
	o = o.withDefaults()
	r := server.NewRouter(l, o.Server)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.RateLimitPerIP(rate.Limit(20), 40, 10*time.Minute),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
		mdw.Timeout(o.HandlerTimeout),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if o.UploadDir != "" && o.UploadPrefix != "" {
		r.Static(o.UploadPrefix, o.UploadDir)
	}

	api := r.Group("/api/v1")
	api.Use(mdw.Identify(o.Resolver, o.Cookie, l))
	reg.MountAPI(ez.New(api, l))

	return r
}

func health(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) }
