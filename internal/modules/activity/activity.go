package activity

import (
	"github.com/edufund/core/internal/models"
	"gorm.io/gorm"
)

// Entry describes one line of the system activity feed.
type Entry struct {
	UserID       string
	UserEmail    string
	ActivityType string // login | registration | campaign | donation | moderation
	Action       string
	Details      string
	Success      bool
	ErrorMessage string
}

// Record appends an activity row. Failures are swallowed: the feed is
// diagnostic and must never break the request that produced it.
func Record(db *gorm.DB, e Entry) {
	_ = db.Create(&models.ActivityModel{
		UserID:       e.UserID,
		UserEmail:    e.UserEmail,
		ActivityType: e.ActivityType,
		Action:       e.Action,
		Details:      e.Details,
		Success:      e.Success,
		ErrorMessage: e.ErrorMessage,
	}).Error
}

// List returns recent activity, newest first, optionally filtered by type.
func List(db *gorm.DB, activityType string, limit int) ([]models.ActivityModel, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	tx := db.Model(&models.ActivityModel{}).Order("created_at DESC").Limit(limit)
	if activityType != "" {
		tx = tx.Where("activity_type = ?", activityType)
	}
	var items []models.ActivityModel
	err := tx.Find(&items).Error
	return items, err
}
