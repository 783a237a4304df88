package campaign

import (
	"errors"
	"strconv"
	"strings"

	"github.com/edufund/core/internal/middleware"
	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/pkg/money"
	"github.com/edufund/core/internal/pkg/pagination"
	"github.com/edufund/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	svc     *Service
	metrics *Metrics
}

func NewHandler(svc *Service, metrics *Metrics) *Handler {
	return &Handler{svc: svc, metrics: metrics}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/campaigns")

	g.GET("", h.list)
	g.GET("/filters", h.filterOptions)
	g.GET("/:id", h.get)
	g.POST("/:id/view", h.recordView)
	g.POST("/:id/share", h.recordShare)

	a := g.Group("", authMW)
	a.GET("/mine/list", h.listMine)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func parseFilter(c *gin.Context, viewerID string, isAdmin bool) ListFilter {
	f := ListFilter{
		Search:            strings.TrimSpace(c.Query("search")),
		Category:          strings.TrimSpace(c.Query("category")),
		City:              strings.TrimSpace(c.DefaultQuery("location", c.Query("city"))),
		University:        strings.TrimSpace(c.Query("university")),
		UserID:            strings.TrimSpace(c.Query("userId")),
		FundingPercentage: strings.TrimSpace(c.Query("fundingPercentage")),
		TimeRemaining:     strings.TrimSpace(c.Query("timeRemaining")),
		Sort:              strings.TrimSpace(c.Query("sort")),
	}

	if v := strings.TrimSpace(c.Query("featured")); v != "" {
		featured := v == "true" || v == "1"
		f.Featured = &featured
	}
	if v := strings.TrimSpace(c.Query("minAmount")); v != "" {
		if amt, err := strconv.ParseFloat(v, 64); err == nil && amt >= 0 {
			min := money.FromMAD(amt)
			f.MinAmount = &min
		}
	}
	if v := strings.TrimSpace(c.Query("maxAmount")); v != "" {
		if amt, err := strconv.ParseFloat(v, 64); err == nil && amt >= 0 {
			max := money.FromMAD(amt)
			f.MaxAmount = &max
		}
	}

	// Status filtering: non-admins browsing someone else's campaigns only see
	// published and completed ones, whatever they ask for.
	requested := models.CampaignStatus(strings.TrimSpace(c.Query("status")))
	ownQuery := viewerID != "" && f.UserID == viewerID
	if isAdmin || ownQuery {
		f.Status = requested
	} else {
		switch requested {
		case models.CampaignCompleted:
			f.Status = models.CampaignCompleted
		default:
			f.Status = models.CampaignPublished
		}
	}
	return f
}

// GET /campaigns
func (h *Handler) list(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)
	isAdmin := middleware.CurrentRole(c).IsAdmin()

	f := parseFilter(c, viewerID, isAdmin)
	items, pag, err := h.svc.List(f, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	out := make([]campaignResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i], false)
	}
	response.Paged(c, out, pag)
}

// GET /campaigns/mine/list
func (h *Handler) listMine(c *gin.Context) {
	f := ListFilter{
		UserID: middleware.CurrentUserID(c),
		Status: models.CampaignStatus(strings.TrimSpace(c.Query("status"))),
		Sort:   strings.TrimSpace(c.Query("sort")),
	}
	items, pag, err := h.svc.List(f, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]campaignResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i], false)
	}
	response.Paged(c, out, pag)
}

// GET /campaigns/filters
func (h *Handler) filterOptions(c *gin.Context) {
	opts, err := h.svc.FilterOptions()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, opts)
}

// GET /campaigns/:id
func (h *Handler) get(c *gin.Context) {
	cm, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	// Unpublished campaigns are visible only to their owner and admins.
	if cm.Status != models.CampaignPublished && cm.Status != models.CampaignCompleted {
		viewerID := middleware.CurrentUserID(c)
		if viewerID != cm.UserID && !middleware.CurrentRole(c).IsAdmin() {
			response.NotFound(c)
			return
		}
	}

	out := toResponse(cm, true)
	if m, err := h.metrics.Get(cm.ID); err == nil {
		out.Metrics = m
	}
	response.OK(c, out)
}

// POST /campaigns
func (h *Handler) create(c *gin.Context) {
	var dto CreateCampaignDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var owner models.UserModel
	if err := h.svc.DB().First(&owner, "id = ?", middleware.CurrentUserID(c)).Error; err != nil {
		response.Unauthorized(c)
		return
	}
	if owner.Role != models.RoleStudent && !owner.Role.IsAdmin() {
		response.Forbidden(c)
		return
	}

	cm, err := h.svc.Create(&owner, &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toResponse(cm, false))
}

// PUT /campaigns/:id
func (h *Handler) update(c *gin.Context) {
	var dto UpdateCampaignDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cm, err := h.svc.Update(c.Param("id"), middleware.CurrentUserID(c), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toResponse(cm, false))
}

// DELETE /campaigns/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// POST /campaigns/:id/view
func (h *Handler) recordView(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.svc.GetByID(id); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.metrics.RecordView(id); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "view recorded"})
}

// POST /campaigns/:id/share
func (h *Handler) recordShare(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.svc.GetByID(id); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.metrics.RecordShare(id); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "share recorded"})
}
