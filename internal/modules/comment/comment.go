package comment

import (
	"errors"
	"strings"
	"time"

	"github.com/edufund/core/internal/middleware"
	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/pkg/apperr"
	"github.com/edufund/core/internal/pkg/pagination"
	"github.com/edufund/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxCommentLength = 2000

type CreateCommentDTO struct {
	Content string `json:"content" binding:"required"`
}

type commentResponse struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	UserID     string    `json:"user_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	Created    time.Time `json:"created"`
}

func toResponse(m *models.CampaignCommentModel) commentResponse {
	name := m.AuthorName
	if name == "" {
		name = "Supporter"
	}
	return commentResponse{
		ID: m.ID, CampaignID: m.CampaignID, UserID: m.UserID,
		AuthorName: name, Content: m.Content, Created: m.CreatedAt,
	}
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Create appends a comment to a published campaign that allows them.
// Comments are append-only; there is no edit path.
func (s *Service) Create(campaignID, userID string, content string) (*models.CampaignCommentModel, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("content is required")
	}
	if len(content) > maxCommentLength {
		return nil, apperr.Validation("content must be at most %d characters", maxCommentLength)
	}

	var cm models.CampaignModel
	err := s.db.First(&cm, "id = ?", campaignID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("campaign not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if cm.Status != models.CampaignPublished && cm.Status != models.CampaignCompleted {
		return nil, apperr.Conflict("campaign is not open for comments")
	}
	if !cm.AllowComments {
		return nil, apperr.Forbidden("comments are disabled for this campaign")
	}

	var author models.UserModel
	if err := s.db.First(&author, "id = ?", userID).Error; err != nil {
		return nil, apperr.Unauthorized("user not found")
	}

	row := models.CampaignCommentModel{
		CampaignID: campaignID,
		UserID:     userID,
		AuthorName: author.FullName,
		Content:    content,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &row, nil
}

// List returns a campaign's comments, newest first.
func (s *Service) List(campaignID string, q pagination.Query) ([]models.CampaignCommentModel, response.Pagination, error) {
	tx := s.db.Model(&models.CampaignCommentModel{}).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC")
	var items []models.CampaignCommentModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// Delete removes a comment. Allowed for the comment author, the campaign
// owner, and admins.
func (s *Service) Delete(commentID, actorID string, isAdmin bool) error {
	var row models.CampaignCommentModel
	err := s.db.First(&row, "id = ?", commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("comment not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}

	allowed := isAdmin || row.UserID == actorID
	if !allowed {
		var cm models.CampaignModel
		if err := s.db.Select("user_id").First(&cm, "id = ?", row.CampaignID).Error; err == nil {
			allowed = cm.UserID == actorID
		}
	}
	if !allowed {
		return apperr.Forbidden("you cannot delete this comment")
	}
	return s.db.Delete(&row).Error
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/campaigns/:id/comments", h.list)
	rg.POST("/campaigns/:id/comments", authMW, h.create)
	rg.DELETE("/comments/:id", authMW, h.delete)
}

// GET /campaigns/:id/comments
func (h *Handler) list(c *gin.Context) {
	items, pag, err := h.svc.List(c.Param("id"), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]commentResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	response.Paged(c, out, pag)
}

// POST /campaigns/:id/comments
func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Create(c.Param("id"), middleware.CurrentUserID(c), dto.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toResponse(row))
}

// DELETE /comments/:id
func (h *Handler) delete(c *gin.Context) {
	err := h.svc.Delete(c.Param("id"), middleware.CurrentUserID(c), middleware.CurrentRole(c).IsAdmin())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
