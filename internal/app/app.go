package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emlakpro/core/internal/config"
	"github.com/emlakpro/core/internal/database"
	"github.com/emlakpro/core/internal/middleware"
	"github.com/emlakpro/core/internal/modules/auth"
	"github.com/emlakpro/core/internal/modules/draft"
	"github.com/emlakpro/core/internal/modules/listing"
	"github.com/emlakpro/core/internal/modules/media"
	"github.com/emlakpro/core/internal/modules/related"
	"github.com/emlakpro/core/internal/modules/upload"
	"github.com/emlakpro/core/internal/pkg/jwt"
	pkgredis "github.com/emlakpro/core/internal/pkg/redis"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	logger *zap.Logger
	cancel context.CancelFunc
}

// New initializes the application: config → DB → Redis → storage → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if cfg.JWTSecret != "" {
		jwt.SetSecret(cfg.JWTSecret)
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		// the folder cache degrades to process-local state without redis
		logger.Warn("redis unavailable, folder cache is process local", zap.Error(err))
		rc = nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	store, err := media.NewClient(ctx, cfg.Storage, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("storage: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	sessions := upload.NewManager(cfg.Upload.MaxPhotos)
	resolver := upload.NewFolderResolver(store, rc, logger)
	drafts := draft.NewService(db, store, resolver, sessions, logger)
	listings := listing.NewService(db, store, drafts, sessions, resolver, logger)

	authService := auth.NewService(db, logger)
	if err := authService.SeedAdmin(ctx, cfg.Admin); err != nil {
		cancel()
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	app := &App{cfg: cfg, router: router, db: db, logger: logger, cancel: cancel}
	app.registerRoutes(routeDeps{
		auth:    auth.NewHandler(authService),
		listing: listing.NewHandler(listings, logger),
		related: related.NewHandler(related.NewService(db, listings)),
		upload:  upload.NewHandler(store, sessions, resolver, cfg.Upload, logger),
		draft:   draft.NewHandler(drafts),
	})

	return app, nil
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		c.AllowOrigins = cfg.AllowedOrigins
	} else {
		c.AllowOriginFunc = func(string) bool { return true }
	}
	return c
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown cleans up background state.
func (a *App) Shutdown() { a.cancel() }
