package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/edufund/core/internal/config"
	"github.com/edufund/core/internal/database"
	"github.com/edufund/core/internal/middleware"
	"github.com/edufund/core/internal/modules/notify"
	pkgcron "github.com/edufund/core/internal/pkg/cron"
	"github.com/edufund/core/internal/pkg/jwt"
	"github.com/edufund/core/internal/pkg/mail"
	pkgredis "github.com/edufund/core/internal/pkg/redis"
	"github.com/edufund/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	rc     *pkgredis.Client
	queue  *taskqueue.Queue
	sched  *pkgcron.Scheduler
	worker *notify.Worker
	logger *zap.Logger
	cancel context.CancelFunc
}

// New initializes the application: config → DB → Redis → routes → workers.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt_secret is required")
	}
	jwt.SetSecret(cfg.JWTSecret)

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.Redis.URLValue())
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
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
	router.Use(middleware.RateLimit(rc.Raw()))
	router.Use(middleware.Idempotence(rc.Raw()))

	queue := taskqueue.New(rc)
	sender := mail.New(cfg.Mail)
	worker := notify.NewWorker(queue, sender, db, cfg.PublicURL, logger.Named("notify"))

	sched := pkgcron.New(logger.Named("cron"))

	app := &App{
		cfg:    cfg,
		router: router,
		db:     db,
		rc:     rc,
		queue:  queue,
		sched:  sched,
		worker: worker,
		logger: logger,
	}

	app.registerCronJobs()
	app.registerRoutes()

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	go sched.Start(ctx)
	go worker.Run(ctx)

	return app, nil
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-idempotence"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "x-edufund-cache"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		allowed := cfg.AllowedOrigins
		c.AllowOriginFunc = func(origin string) bool {
			for _, o := range allowed {
				if strings.EqualFold(strings.TrimRight(o, "/"), strings.TrimRight(origin, "/")) {
					return true
				}
			}
			return false
		}
	} else {
		c.AllowOriginFunc = func(string) bool { return true }
	}
	return c
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background goroutines.
func (a *App) Shutdown() {
	if a.cancel != nil {
		a.cancel()
	}
}
