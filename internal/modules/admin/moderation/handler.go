package moderation

import (
	"context"
	"time"

	"github.com/edufund/core/internal/middleware"
	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/modules/activity"
	"github.com/edufund/core/internal/modules/campaign"
	"github.com/edufund/core/internal/pkg/pagination"
	"github.com/edufund/core/internal/pkg/response"
	"github.com/edufund/core/internal/pkg/taskqueue"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// TaskTypeModerationEmail is the queue task type for moderation outcome
// emails.
const TaskTypeModerationEmail = "moderation_email"

// EmailTaskPayload is consumed by the notify worker.
type EmailTaskPayload struct {
	Kind          string `json:"kind"` // campaign_approved | campaign_rejected | profile_approved | profile_rejected
	To            string `json:"to"`
	Name          string `json:"name"`
	CampaignTitle string `json:"campaign_title,omitempty"`
	CampaignID    string `json:"campaign_id,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

type ApproveDTO struct {
	Notes string `json:"notes"`
}

type RejectDTO struct {
	Reason string `json:"reason" binding:"required"`
}

type SetStatusDTO struct {
	Status models.CampaignStatus `json:"status" binding:"required"`
	Reason string                `json:"reason"`
}

type SetFeaturedDTO struct {
	Featured bool `json:"featured"`
}

type Handler struct {
	svc   *Service
	camp  *campaign.Service
	queue *taskqueue.Queue
	rdb   *redis.Client
	db    *gorm.DB
}

func NewHandler(svc *Service, camp *campaign.Service, queue *taskqueue.Queue, rdb *redis.Client, db *gorm.DB) *Handler {
	return &Handler{svc: svc, camp: camp, queue: queue, rdb: rdb, db: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/admin", authMW, middleware.RequireAdmin())

	g.GET("/campaigns", h.listCampaigns)
	g.POST("/campaigns/:id/approve", h.approveCampaign)
	g.POST("/campaigns/:id/reject", h.rejectCampaign)
	g.PUT("/campaigns/:id/status", h.setCampaignStatus)
	g.PUT("/campaigns/:id/featured", h.setFeatured)

	g.GET("/users", h.listUsers)
	g.POST("/users/:id/approve-profile", h.approveProfile)
	g.POST("/users/:id/reject-profile", h.rejectProfile)
	g.POST("/profiles/:id/approve", h.approveProfile)
	g.POST("/profiles/:id/reject", h.rejectProfile)

	g.GET("/notifications", h.listNotifications)
	g.PUT("/notifications/read-all", h.markAllRead)
	g.PUT("/notifications/:id/read", h.markRead)

	g.GET("/audit-log", h.auditTrail)
}

func (h *Handler) actor(c *gin.Context) Actor {
	a := Actor{ID: middleware.CurrentUserID(c)}
	var row struct{ Email string }
	if err := h.db.Model(&models.UserModel{}).Select("email").Where("id = ?", a.ID).Scan(&row).Error; err == nil {
		a.Email = row.Email
	}
	return a
}

func (h *Handler) enqueueEmail(payload EmailTaskPayload) {
	if h.queue == nil || payload.To == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	dedup := payload.Kind + ":" + payload.To + ":" + payload.CampaignID
	_, _ = h.queue.Enqueue(ctx, TaskTypeModerationEmail, payload, dedup)
}

// Status changes must become visible immediately, drop cached listings.
func (h *Handler) purgeCache() {
	if h.rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _ = middleware.PurgeHTTPCache(ctx, h.rdb)
}

func (h *Handler) campaignOwner(cm *models.CampaignModel) *models.UserModel {
	var u models.UserModel
	if err := h.db.First(&u, "id = ?", cm.UserID).Error; err != nil {
		return nil
	}
	return &u
}

// GET /admin/campaigns
func (h *Handler) listCampaigns(c *gin.Context) {
	f := campaign.ListFilter{
		Status: models.CampaignStatus(c.DefaultQuery("status", string(models.CampaignPending))),
		Search: c.Query("search"),
		Sort:   c.DefaultQuery("sort", "oldest"),
	}
	if f.Status == "all" {
		f.Status = ""
	}
	items, pag, err := h.camp.List(f, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// POST /admin/campaigns/:id/approve
func (h *Handler) approveCampaign(c *gin.Context) {
	var dto ApproveDTO
	_ = c.ShouldBindJSON(&dto)

	actor := h.actor(c)
	cm, err := h.svc.ApproveCampaign(actor, c.Param("id"), dto.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	activity.Record(h.db, activity.Entry{
		UserID: actor.ID, UserEmail: actor.Email,
		ActivityType: "moderation", Action: "campaign_approved",
		Details: cm.Title, Success: true,
	})
	if owner := h.campaignOwner(cm); owner != nil {
		h.enqueueEmail(EmailTaskPayload{
			Kind: "campaign_approved", To: owner.Email, Name: owner.FullName,
			CampaignTitle: cm.Title, CampaignID: cm.ID,
		})
	}
	h.purgeCache()
	response.OK(c, cm)
}

// POST /admin/campaigns/:id/reject
func (h *Handler) rejectCampaign(c *gin.Context) {
	var dto RejectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "a rejection reason is required")
		return
	}

	actor := h.actor(c)
	cm, err := h.svc.RejectCampaign(actor, c.Param("id"), dto.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	activity.Record(h.db, activity.Entry{
		UserID: actor.ID, UserEmail: actor.Email,
		ActivityType: "moderation", Action: "campaign_rejected",
		Details: cm.Title, Success: true,
	})
	if owner := h.campaignOwner(cm); owner != nil {
		h.enqueueEmail(EmailTaskPayload{
			Kind: "campaign_rejected", To: owner.Email, Name: owner.FullName,
			CampaignTitle: cm.Title, CampaignID: cm.ID, Notes: dto.Reason,
		})
	}
	h.purgeCache()
	response.OK(c, cm)
}

// PUT /admin/campaigns/:id/status
func (h *Handler) setCampaignStatus(c *gin.Context) {
	var dto SetStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	actor := h.actor(c)
	cm, err := h.svc.SetCampaignStatus(actor, c.Param("id"), dto.Status, dto.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	activity.Record(h.db, activity.Entry{
		UserID: actor.ID, UserEmail: actor.Email,
		ActivityType: "moderation", Action: "campaign_status_changed",
		Details: cm.Title + " -> " + string(dto.Status), Success: true,
	})
	h.purgeCache()
	response.OK(c, cm)
}

// PUT /admin/campaigns/:id/featured
func (h *Handler) setFeatured(c *gin.Context) {
	var dto SetFeaturedDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.SetFeatured(c.Param("id"), dto.Featured); err != nil {
		response.Error(c, err)
		return
	}
	h.purgeCache()
	response.OK(c, gin.H{"featured": dto.Featured})
}

// GET /admin/users
func (h *Handler) listUsers(c *gin.Context) {
	items, pag, err := h.svc.ListUsers(
		models.UserStatus(c.Query("status")),
		models.Role(c.Query("role")),
		c.Query("search"),
		pagination.FromContext(c),
	)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// POST /admin/users/:id/approve-profile
func (h *Handler) approveProfile(c *gin.Context) {
	actor := h.actor(c)
	u, err := h.svc.ApproveProfile(actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	activity.Record(h.db, activity.Entry{
		UserID: actor.ID, UserEmail: actor.Email,
		ActivityType: "moderation", Action: "profile_approved",
		Details: u.Email, Success: true,
	})
	h.enqueueEmail(EmailTaskPayload{
		Kind: "profile_approved", To: u.Email, Name: u.FullName,
	})
	response.OK(c, u)
}

// POST /admin/users/:id/reject-profile
func (h *Handler) rejectProfile(c *gin.Context) {
	var dto RejectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "a rejection reason is required")
		return
	}

	actor := h.actor(c)
	u, err := h.svc.RejectProfile(actor, c.Param("id"), dto.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	activity.Record(h.db, activity.Entry{
		UserID: actor.ID, UserEmail: actor.Email,
		ActivityType: "moderation", Action: "profile_rejected",
		Details: u.Email, Success: true,
	})
	h.enqueueEmail(EmailTaskPayload{
		Kind: "profile_rejected", To: u.Email, Name: u.FullName, Notes: dto.Reason,
	})
	response.OK(c, u)
}

// GET /admin/notifications
func (h *Handler) listNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	items, pag, err := h.svc.ListNotifications(unreadOnly, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// PUT /admin/notifications/:id/read
func (h *Handler) markRead(c *gin.Context) {
	if err := h.svc.MarkNotificationRead(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// PUT /admin/notifications/read-all
func (h *Handler) markAllRead(c *gin.Context) {
	if err := h.svc.MarkAllNotificationsRead(); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// GET /admin/audit-log
func (h *Handler) auditTrail(c *gin.Context) {
	items, pag, err := h.svc.AuditTrail(c.Query("entityType"), c.Query("entityId"), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}
