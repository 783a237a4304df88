package favorite

import (
	"errors"

	"github.com/edufund/core/internal/middleware"
	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/pkg/apperr"
	"github.com/edufund/core/internal/pkg/pagination"
	"github.com/edufund/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Add bookmarks a campaign. Adding twice is a no-op thanks to the unique
// (user, campaign) index.
func (s *Service) Add(userID, campaignID string) error {
	var count int64
	if err := s.db.Model(&models.CampaignModel{}).Where("id = ?", campaignID).Count(&count).Error; err != nil {
		return apperr.Internal(err)
	}
	if count == 0 {
		return apperr.NotFound("campaign not found")
	}

	err := s.db.Create(&models.FavoriteModel{UserID: userID, CampaignID: campaignID}).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return nil
		}
		return apperr.Internal(err)
	}
	return nil
}

func isDuplicateEntry(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// Remove drops the bookmark; removing a non-bookmark is a no-op.
func (s *Service) Remove(userID, campaignID string) error {
	return s.db.Unscoped().
		Where("user_id = ? AND campaign_id = ?", userID, campaignID).
		Delete(&models.FavoriteModel{}).Error
}

// Has reports whether the user bookmarked the campaign.
func (s *Service) Has(userID, campaignID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.FavoriteModel{}).
		Where("user_id = ? AND campaign_id = ?", userID, campaignID).
		Count(&count).Error
	return count > 0, err
}

// ListCampaigns returns the user's bookmarked campaigns, newest bookmark first.
func (s *Service) ListCampaigns(userID string, q pagination.Query) ([]models.CampaignModel, response.Pagination, error) {
	tx := s.db.Model(&models.CampaignModel{}).
		Joins("JOIN favorites ON favorites.campaign_id = campaigns.id AND favorites.deleted_at IS NULL").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC")
	var items []models.CampaignModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/favorites", authMW)

	g.GET("", h.list)
	g.GET("/:campaignId", h.check)
	g.POST("/:campaignId", h.add)
	g.DELETE("/:campaignId", h.remove)

	// Campaign-scoped aliases.
	rg.POST("/campaigns/:id/favorite", authMW, h.add)
	rg.DELETE("/campaigns/:id/favorite", authMW, h.remove)
	rg.GET("/campaigns/:id/favorite/check", authMW, h.check)
}

// campaignParam resolves the campaign id from either route shape.
func campaignParam(c *gin.Context) string {
	if id := c.Param("campaignId"); id != "" {
		return id
	}
	return c.Param("id")
}

// GET /favorites
func (h *Handler) list(c *gin.Context) {
	items, pag, err := h.svc.ListCampaigns(middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// GET /favorites/:campaignId
func (h *Handler) check(c *gin.Context) {
	has, err := h.svc.Has(middleware.CurrentUserID(c), campaignParam(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"favorited": has})
}

// POST /favorites/:campaignId
func (h *Handler) add(c *gin.Context) {
	if err := h.svc.Add(middleware.CurrentUserID(c), campaignParam(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"favorited": true})
}

// DELETE /favorites/:campaignId
func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Remove(middleware.CurrentUserID(c), campaignParam(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"favorited": false})
}
