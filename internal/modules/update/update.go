package update

import (
	"errors"
	"strings"
	"time"

	"github.com/edufund/core/internal/middleware"
	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/pkg/apperr"
	"github.com/edufund/core/internal/pkg/markdown"
	"github.com/edufund/core/internal/pkg/pagination"
	"github.com/edufund/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateUpdateDTO struct {
	Title    string `json:"title"`
	Content  string `json:"content" binding:"required,min=10"`
	ImageURL string `json:"imageUrl"`
}

type updateResponse struct {
	ID          string    `json:"id"`
	CampaignID  string    `json:"campaign_id"`
	Title       string    `json:"title,omitempty"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	ImageURL    string    `json:"image_url,omitempty"`
	Created     time.Time `json:"created"`
}

func toResponse(m *models.CampaignUpdateModel) updateResponse {
	return updateResponse{
		ID: m.ID, CampaignID: m.CampaignID,
		Title: m.Title, Content: m.Content,
		ContentHTML: markdown.RenderOrRaw(m.Content),
		ImageURL:    m.ImageURL,
		Created:     m.CreatedAt,
	}
}

// MetricsRecorder is the slice of the campaign metrics service this module
// needs.
type MetricsRecorder interface {
	RecordUpdatePosted(campaignID string) error
}

type Service struct {
	db      *gorm.DB
	metrics MetricsRecorder
}

func NewService(db *gorm.DB, metrics MetricsRecorder) *Service {
	return &Service{db: db, metrics: metrics}
}

// Create posts a progress update. Only the campaign owner may post, and only
// while the campaign is visible to supporters.
func (s *Service) Create(campaignID, authorID string, dto *CreateUpdateDTO) (*models.CampaignUpdateModel, error) {
	var cm models.CampaignModel
	err := s.db.First(&cm, "id = ?", campaignID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("campaign not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if cm.UserID != authorID {
		return nil, apperr.Forbidden("only the campaign owner can post updates")
	}
	if cm.Status != models.CampaignPublished && cm.Status != models.CampaignCompleted {
		return nil, apperr.Conflict("updates can only be posted on published campaigns")
	}

	row := models.CampaignUpdateModel{
		CampaignID: campaignID,
		UserID:     authorID,
		Title:      strings.TrimSpace(dto.Title),
		Content:    dto.Content,
		ImageURL:   strings.TrimSpace(dto.ImageURL),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if s.metrics != nil {
		_ = s.metrics.RecordUpdatePosted(campaignID)
	}
	return &row, nil
}

// List returns a campaign's updates, newest first.
func (s *Service) List(campaignID string, q pagination.Query) ([]models.CampaignUpdateModel, response.Pagination, error) {
	tx := s.db.Model(&models.CampaignUpdateModel{}).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC")
	var items []models.CampaignUpdateModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// Delete removes an update. Owner or admin only.
func (s *Service) Delete(updateID, actorID string, isAdmin bool) error {
	var row models.CampaignUpdateModel
	err := s.db.First(&row, "id = ?", updateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("update not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if !isAdmin && row.UserID != actorID {
		return apperr.Forbidden("you cannot delete this update")
	}
	return s.db.Delete(&row).Error
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/campaigns/:id/updates", h.list)
	rg.POST("/campaigns/:id/updates", authMW, h.create)
	rg.DELETE("/updates/:id", authMW, h.delete)
}

// GET /campaigns/:id/updates
func (h *Handler) list(c *gin.Context) {
	items, pag, err := h.svc.List(c.Param("id"), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]updateResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	response.Paged(c, out, pag)
}

// POST /campaigns/:id/updates
func (h *Handler) create(c *gin.Context) {
	var dto CreateUpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Create(c.Param("id"), middleware.CurrentUserID(c), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toResponse(row))
}

// DELETE /updates/:id
func (h *Handler) delete(c *gin.Context) {
	err := h.svc.Delete(c.Param("id"), middleware.CurrentUserID(c), middleware.CurrentRole(c).IsAdmin())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
