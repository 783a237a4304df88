// Package health exposes the liveness/readiness probe.
package health

import (
	"net/http"
	"time"

	"github.com/edufund/core/internal/pkg/cron"
	redisc "github.com/edufund/core/internal/pkg/redis"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db      *gorm.DB
	rc      *redisc.Client
	sched   *cron.Scheduler
	started time.Time
}

func NewHandler(db *gorm.DB, rc *redisc.Client, sched *cron.Scheduler) *Handler {
	return &Handler{db: db, rc: rc, sched: sched, started: time.Now()}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	rg.GET("/health", h.check)
}

// GET /health
func (h *Handler) check(c *gin.Context) {
	ctx := c.Request.Context()

	dbOK := false
	if sqlDB, err := h.db.DB(); err == nil {
		dbOK = sqlDB.PingContext(ctx) == nil
	}

	redisOK := h.rc != nil && h.rc.Ping(ctx) == nil

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}

	jobs := []cron.Snapshot{}
	if h.sched != nil {
		jobs = h.sched.Jobs()
	}

	c.JSON(status, gin.H{
		"status": map[bool]string{true: "ok", false: "degraded"}[dbOK && redisOK],
		"checks": gin.H{
			"database": dbOK,
			"redis":    redisOK,
		},
		"jobs":   jobs,
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}
