package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edufund/core/internal/middleware"
	"github.com/edufund/core/internal/modules/admin/moderation"
	"github.com/edufund/core/internal/modules/admin/stats"
	"github.com/edufund/core/internal/modules/auth"
	"github.com/edufund/core/internal/modules/campaign"
	"github.com/edufund/core/internal/modules/comment"
	"github.com/edufund/core/internal/modules/donation"
	"github.com/edufund/core/internal/modules/export"
	"github.com/edufund/core/internal/modules/favorite"
	"github.com/edufund/core/internal/modules/health"
	"github.com/edufund/core/internal/modules/notify"
	"github.com/edufund/core/internal/modules/storage"
	"github.com/edufund/core/internal/modules/update"
	"github.com/edufund/core/internal/modules/user"
	"github.com/edufund/core/internal/pkg/money"
	"github.com/edufund/core/internal/pkg/response"
)

const apiPrefix = "/api"

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	r.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c) })

	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth(db))
	api.Use(middleware.HTTPCache(a.rc.Raw(), middleware.HTTPCacheOptions{
		TTL:     15 * time.Second,
		Disable: a.cfg.IsDev(),
		SkipPaths: []string{
			apiPrefix + "/auth",
			apiPrefix + "/profile",
			apiPrefix + "/admin",
			apiPrefix + "/donations",
			apiPrefix + "/favorites",
			apiPrefix + "/health",
			apiPrefix + "/upload",
		},
	}))

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "pong"})
	})

	// Shared services
	campSvc := campaign.NewService(db)
	campMetrics := campaign.NewMetrics(db)
	donSvc := donation.NewService(db, money.FromMAD(a.cfg.Donation.MinimumAmount))
	statsSvc := stats.NewService(db)

	// Account and profile
	auth.NewHandler(auth.NewService(db), db).RegisterRoutes(api, authMW)
	user.NewHandler(user.NewService(db), db).RegisterRoutes(api, authMW)

	// Campaigns and engagement
	campaign.NewHandler(campSvc, campMetrics).RegisterRoutes(api, authMW)
	donation.NewHandler(donSvc, a.queue, db).RegisterRoutes(api, authMW)
	comment.NewHandler(comment.NewService(db)).RegisterRoutes(api, authMW)
	update.NewHandler(update.NewService(db, campMetrics)).RegisterRoutes(api, authMW)
	favorite.NewHandler(favorite.NewService(db)).RegisterRoutes(api, authMW)

	// Files
	storage.NewHandler(storage.NewUploader(a.cfg.Storage)).RegisterRoutes(api, authMW)

	// Admin
	moderation.NewHandler(moderation.NewService(db), campSvc, a.queue, a.rc.Raw(), db).RegisterRoutes(api, authMW)
	stats.NewHandler(statsSvc, a.sched, db).RegisterRoutes(api, authMW)
	notify.NewHandler(a.queue).RegisterRoutes(api, authMW)
	export.NewHandler(db, donSvc, statsSvc).RegisterRoutes(api, authMW)

	// Probes
	health.NewHandler(db, a.rc, a.sched).RegisterRoutes(api, authMW)
}
