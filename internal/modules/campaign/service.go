package campaign

import (
	"errors"
	"strings"
	"time"

	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/pkg/apperr"
	"github.com/edufund/core/internal/pkg/money"
	"github.com/edufund/core/internal/pkg/pagination"
	"github.com/edufund/core/internal/pkg/response"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// DB exposes the underlying handle for sibling modules that join on
// campaigns inside their own transactions.
func (s *Service) DB() *gorm.DB { return s.db }

// buildListQuery translates a ListFilter into a GORM query.
func (s *Service) buildListQuery(f ListFilter) *gorm.DB {
	tx := s.db.Model(&models.CampaignModel{})

	if f.Search != "" {
		needle := "%" + f.Search + "%"
		tx = tx.Where("title LIKE ? OR description LIKE ? OR student_name LIKE ?", needle, needle, needle)
	}
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.City != "" {
		tx = tx.Where("city = ?", f.City)
	}
	if f.University != "" {
		tx = tx.Where("university = ?", f.University)
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.Featured != nil {
		tx = tx.Where("featured = ?", *f.Featured)
	}
	if f.UserID != "" {
		tx = tx.Where("user_id = ?", f.UserID)
	}
	if f.MinAmount != nil {
		tx = tx.Where("goal_amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		tx = tx.Where("goal_amount <= ?", *f.MaxAmount)
	}

	switch f.FundingPercentage {
	case "under25":
		tx = tx.Where("goal_amount > 0 AND current_amount * 4 < goal_amount")
	case "under50":
		tx = tx.Where("goal_amount > 0 AND current_amount * 2 < goal_amount")
	case "under75":
		tx = tx.Where("goal_amount > 0 AND current_amount * 4 < goal_amount * 3")
	case "over75":
		tx = tx.Where("goal_amount > 0 AND current_amount * 4 >= goal_amount * 3")
	}

	now := time.Now()
	switch f.TimeRemaining {
	case "week":
		tx = tx.Where("end_date IS NOT NULL AND end_date BETWEEN ? AND ?", now, now.AddDate(0, 0, 7))
	case "month":
		tx = tx.Where("end_date IS NOT NULL AND end_date BETWEEN ? AND ?", now, now.AddDate(0, 1, 0))
	case "quarter":
		tx = tx.Where("end_date IS NOT NULL AND end_date BETWEEN ? AND ?", now, now.AddDate(0, 3, 0))
	}

	switch f.Sort {
	case "oldest":
		tx = tx.Order("created_at ASC")
	case "most_funded":
		tx = tx.Order("current_amount DESC")
	case "ending_soon":
		tx = tx.Where("end_date IS NOT NULL").Order("end_date ASC")
	case "progress":
		tx = tx.Order("CASE WHEN goal_amount > 0 THEN current_amount / goal_amount ELSE 0 END DESC")
	default: // newest
		tx = tx.Order("created_at DESC")
	}
	return tx
}

// List returns campaigns matching the filter with pagination.
func (s *Service) List(f ListFilter, q pagination.Query) ([]models.CampaignModel, response.Pagination, error) {
	var items []models.CampaignModel
	pag, err := pagination.Paginate(s.buildListQuery(f), q, &items)
	return items, pag, err
}

// GetByID loads one campaign.
func (s *Service) GetByID(id string) (*models.CampaignModel, error) {
	var cm models.CampaignModel
	err := s.db.First(&cm, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("campaign not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &cm, nil
}

// Create stores a new campaign in the pending moderation queue, seeds its
// metrics row, and notifies the admin dashboard. Owner identity fields are
// snapshotted from the user profile.
func (s *Service) Create(owner *models.UserModel, dto *CreateCampaignDTO) (*models.CampaignModel, error) {
	goal := money.FromMAD(dto.GoalAmount)
	if goal <= 0 {
		return nil, apperr.Validation("goalAmount must be positive")
	}

	var endDate *time.Time
	if strings.TrimSpace(dto.EndDate) != "" {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(dto.EndDate))
		if err != nil {
			return nil, apperr.Validation("endDate must be YYYY-MM-DD")
		}
		if d.Before(time.Now()) {
			return nil, apperr.Validation("endDate must be in the future")
		}
		endDate = &d
	}

	cm := models.CampaignModel{
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		GoalAmount:  goal,
		Category:    strings.TrimSpace(dto.Category),
		City:        strings.TrimSpace(dto.City),
		University:  strings.TrimSpace(dto.University),
		CoverImage:  strings.TrimSpace(dto.CoverImage),
		Status:      models.CampaignPending,
		EndDate:     endDate,
		Tags:        models.StringArray(dto.Tags),

		StudentName:       owner.FullName,
		StudentAvatar:     owner.Avatar,
		StudentUniversity: owner.University,
		StudentField:      owner.FieldOfStudy,

		UserID: owner.ID,
	}
	if owner.Verified {
		cm.VerificationStatus = models.VerificationVerified
	}
	if dto.AllowAnonymous != nil {
		cm.AllowAnonymous = *dto.AllowAnonymous
	} else {
		cm.AllowAnonymous = true
	}
	if dto.AllowComments != nil {
		cm.AllowComments = *dto.AllowComments
	} else {
		cm.AllowComments = true
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cm).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.CampaignMetricsModel{CampaignID: cm.ID}).Error; err != nil {
			return err
		}
		return tx.Create(&models.AdminNotificationModel{
			Kind:       "campaign_pending",
			EntityType: "campaign",
			EntityID:   cm.ID,
			Message:    "New campaign awaiting review: " + cm.Title,
		}).Error
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &cm, nil
}

// Update applies owner edits. Editing a rejected campaign resubmits it for
// review; published campaigns keep their status. current_amount and status
// are never owner-writable.
func (s *Service) Update(id, ownerID string, dto *UpdateCampaignDTO) (*models.CampaignModel, error) {
	cm, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cm.UserID != ownerID {
		return nil, apperr.Forbidden("you do not own this campaign")
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		if t := strings.TrimSpace(*dto.Title); len(t) >= 5 {
			updates["title"] = t
		} else {
			return nil, apperr.Validation("title must be at least 5 characters")
		}
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.GoalAmount != nil {
		goal := money.FromMAD(*dto.GoalAmount)
		if goal <= 0 {
			return nil, apperr.Validation("goalAmount must be positive")
		}
		updates["goal_amount"] = goal
	}
	if dto.Category != nil {
		updates["category"] = strings.TrimSpace(*dto.Category)
	}
	if dto.City != nil {
		updates["city"] = strings.TrimSpace(*dto.City)
	}
	if dto.University != nil {
		updates["university"] = strings.TrimSpace(*dto.University)
	}
	if dto.CoverImage != nil {
		updates["cover_image"] = strings.TrimSpace(*dto.CoverImage)
	}
	if dto.EndDate != nil {
		raw := strings.TrimSpace(*dto.EndDate)
		if raw == "" {
			updates["end_date"] = nil
		} else {
			d, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return nil, apperr.Validation("endDate must be YYYY-MM-DD")
			}
			updates["end_date"] = d
		}
	}
	if dto.Tags != nil {
		updates["tags"] = models.StringArray(dto.Tags)
	}
	if dto.AllowAnonymous != nil {
		updates["allow_anonymous"] = *dto.AllowAnonymous
	}
	if dto.AllowComments != nil {
		updates["allow_comments"] = *dto.AllowComments
	}

	if len(updates) == 0 {
		return cm, nil
	}
	if cm.Status == models.CampaignRejected {
		updates["status"] = models.CampaignPending
	}

	if err := s.db.Model(cm).Updates(updates).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return s.GetByID(id)
}

// Delete soft-deletes an owner's campaign. Campaigns with recorded donations
// cannot be removed; the ledger must stay resolvable.
func (s *Service) Delete(id, ownerID string) error {
	cm, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if cm.UserID != ownerID {
		return apperr.Forbidden("you do not own this campaign")
	}

	var donations int64
	if err := s.db.Model(&models.DonationModel{}).Where("campaign_id = ?", id).Count(&donations).Error; err != nil {
		return apperr.Internal(err)
	}
	if donations > 0 {
		return apperr.Conflict("campaigns with donations cannot be deleted")
	}
	return s.db.Delete(&models.CampaignModel{}, "id = ?", id).Error
}

// CloseEnded marks published campaigns whose end date has passed as
// completed. Invoked by the scheduler.
func (s *Service) CloseEnded() (int64, error) {
	res := s.db.Model(&models.CampaignModel{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", models.CampaignPublished, time.Now()).
		Update("status", models.CampaignCompleted)
	return res.RowsAffected, res.Error
}

// FilterOptions returns the distinct values used to populate browser facets.
func (s *Service) FilterOptions() (map[string][]string, error) {
	out := map[string][]string{}
	for col, key := range map[string]string{
		"category":   "categories",
		"city":       "cities",
		"university": "universities",
	} {
		var values []string
		err := s.db.Model(&models.CampaignModel{}).
			Where("status = ? AND "+col+" <> ''", models.CampaignPublished).
			Distinct(col).
			Order(col + " ASC").
			Pluck(col, &values).Error
		if err != nil {
			return nil, apperr.Internal(err)
		}
		out[key] = values
	}
	return out, nil
}
