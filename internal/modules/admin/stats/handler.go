package stats

import (
	"errors"
	"strconv"

	"github.com/edufund/core/internal/middleware"
	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/modules/activity"
	"github.com/edufund/core/internal/pkg/cron"
	"github.com/edufund/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	svc   *Service
	sched *cron.Scheduler
	db    *gorm.DB
}

func NewHandler(svc *Service, sched *cron.Scheduler, db *gorm.DB) *Handler {
	return &Handler{svc: svc, sched: sched, db: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/stats/platform", h.platform)
	rg.GET("/campaigns/:id/analytics", authMW, h.campaignOwner)

	g := rg.Group("/admin", authMW, middleware.RequireAdmin())

	g.GET("/stats", h.overview)
	g.GET("/campaigns/:id/analytics", h.campaign)
	g.GET("/activities", h.activities)
	g.GET("/cron", h.cronJobs)
	g.POST("/cron/:name/run", h.runCronJob)
}

// GET /stats/platform
func (h *Handler) platform(c *gin.Context) {
	p, err := h.svc.Platform()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, p)
}

// GET /campaigns/:id/analytics
// Campaign owners see the same analytics the admin report uses.
func (h *Handler) campaignOwner(c *gin.Context) {
	id := c.Param("id")
	if !middleware.CurrentRole(c).IsAdmin() {
		var owner struct{ UserID string }
		err := h.db.Model(&models.CampaignModel{}).
			Select("user_id").
			Where("id = ?", id).
			First(&owner).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		if err != nil {
			response.InternalError(c, err)
			return
		}
		if owner.UserID != middleware.CurrentUserID(c) {
			response.Forbidden(c)
			return
		}
	}

	a, err := h.svc.Campaign(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, a)
}

// GET /admin/stats
func (h *Handler) overview(c *gin.Context) {
	o, err := h.svc.Overview()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, o)
}

// GET /admin/campaigns/:id/analytics
func (h *Handler) campaign(c *gin.Context) {
	a, err := h.svc.Campaign(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, a)
}

// GET /admin/activities
func (h *Handler) activities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := activity.List(h.db, c.Query("type"), limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// GET /admin/cron
func (h *Handler) cronJobs(c *gin.Context) {
	if h.sched == nil {
		response.OK(c, []cron.Snapshot{})
		return
	}
	response.OK(c, h.sched.Jobs())
}

// POST /admin/cron/:name/run
func (h *Handler) runCronJob(c *gin.Context) {
	if h.sched == nil {
		response.NotFound(c)
		return
	}
	if err := h.sched.Trigger(c.Request.Context(), c.Param("name")); err != nil {
		response.NotFoundMsg(c, err.Error())
		return
	}
	response.OK(c, gin.H{"triggered": c.Param("name")})
}
