// Package app wires configuration, storage and services into the
// handler registry shared by the api and admin binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"go-gin-shop/internal/core/auth"
	"go-gin-shop/internal/core/cache"
	"go-gin-shop/internal/core/config"
	"go-gin-shop/internal/core/database"
	"go-gin-shop/internal/core/logger"
	"go-gin-shop/internal/core/server"
	"go-gin-shop/internal/domain"
	"go-gin-shop/internal/gateway/paystack"
	"go-gin-shop/internal/mail"
	"go-gin-shop/internal/repo"
	"go-gin-shop/internal/service"
	"go-gin-shop/internal/storage"
	"go-gin-shop/internal/transport/http/handler"
	mdw "go-gin-shop/internal/transport/http/middleware"
	"go-gin-shop/internal/transport/http/router"
)

type App struct {
	Config   *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Cache    *cache.Cache
	Registry *router.Registry
	Options  router.Options
}

// NewLogger builds the process logger from cfg.Log and routes the
// standard library logger into it.
func NewLogger(cfg *config.Config, service string) (*zap.Logger, func()) {
	f := cfg.Log.File
	l, cleanup := logger.Build(logger.Options{
		Level:   cfg.Log.Level,
		JSON:    cfg.Log.JSON,
		Service: service,
		Env:     cfg.App.Env,
		Sampling: logger.Sampling{
			Initial:    cfg.Log.SampleInitial,
			Thereafter: cfg.Log.SampleThereafter,
		},
		Rotate: logger.FileRotate{
			Enable:     f.Enable,
			Filename:   f.Filename,
			MaxSizeMB:  f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAgeDays: f.MaxAgeDays,
			Compress:   f.Compress,
		},
	})
	undo := logger.RedirectStdLog(l, zapcore.InfoLevel)
	return l, func() {
		undo()
		cleanup()
	}
}

// New opens the database (and redis when enabled), builds the services
// and registers every handler. The returned func releases what New opened.
func New(cfg *config.Config, l *zap.Logger) (*App, func(), error) {
	if cfg.JWT.Secret == "" {
		return nil, nil, errors.New("jwt.secret is required")
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			database.Close(db)
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		l.Info("automigrate done")
	}

	var rc *cache.Cache
	if cfg.Redis.Enabled {
		rc = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(ctx); err != nil {
			// the catalog still works uncached
			l.Warn("redis unreachable, catalog cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = rc.Close()
			rc = nil
		}
		cancel()
	}

	jwt := &auth.JWTer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, TTL: cfg.JWT.TTL()}

	var mailer domain.Mailer = mail.LogMailer{L: l}
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	images, err := storage.NewLocalImages(cfg.Upload.Dir, cfg.Upload.URLPrefix)
	if err != nil {
		database.Close(db)
		return nil, nil, fmt.Errorf("upload dir: %w", err)
	}

	users := service.NewUserService(repo.NewUserRepo(db), repo.NewResetTokenRepo(db), jwt, mailer, cfg.App.FrontendURL, l)
	catalog := service.NewCatalogService(repo.NewCategoryRepo(db), repo.NewProductRepo(db), rc, cfg.Redis.CacheTTL(), l)
	catalog.Images = images
	carts := service.NewCartService(repo.NewCartRepo(db), l)
	orders := service.NewOrderService(repo.NewOrderRepo(db), l)

	cookie := mdw.SessionCookie{
		Name:   cfg.Cookie.Name,
		Domain: cfg.Cookie.Domain,
		Secure: cfg.Cookie.Secure,
		TTL:    cfg.JWT.TTL(),
	}
	reg := router.NewRegistry(
		handler.NewUserHandler(users, cookie),
		handler.NewAdminUserHandler(users),
		handler.NewCategoryHandler(catalog),
		handler.NewProductHandler(catalog, images, cfg.Upload.MaxFiles),
		handler.NewCartHandler(carts),
		handler.NewOrderHandler(orders),
	)

	var gw domain.PaymentGateway
	gw, err = paystack.NewClient(cfg.Paystack.SecretKey,
		paystack.WithBaseURL(cfg.Paystack.BaseURL),
		paystack.WithTimeout(cfg.Paystack.Timeout()),
	)
	if err != nil {
		l.Warn("payments not configured; payment routes answer 500", zap.Error(err))
		gw = paystack.Unconfigured{}
	}
	reg.Register(handler.NewPaymentHandler(service.NewPaymentService(carts, repo.NewPaymentRepo(db), gw, l)))

	a := &App{
		Config:   cfg,
		Log:      l,
		DB:       db,
		Cache:    rc,
		Registry: reg,
		Options: router.Options{
			Server: server.Options{
				Name:        cfg.App.Name,
				Mode:        ginMode(cfg.App.Env),
				CORSOrigins: cfg.App.CORSOrigins,
			},
			Resolver:       users,
			Cookie:         cookie,
			HandlerTimeout: time.Duration(cfg.App.HTTP.HandlerTimeoutSec) * time.Second,
			MaxBodyBytes:   cfg.Upload.MaxBodyMB << 20,
			UploadDir:      images.Dir,
			UploadPrefix:   images.URLPrefix,
		},
	}
	return a, func() {
		if rc != nil {
			_ = rc.Close()
		}
		database.Close(db)
	}, nil
}

func ginMode(env string) string {
	switch env {
	case "prod", "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
