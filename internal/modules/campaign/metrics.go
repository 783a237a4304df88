package campaign

import (
	"github.com/edufund/core/internal/models"
	"gorm.io/gorm"
)

// Metrics centralizes all side-effect counters. Every increment goes through
// here so campaign rows themselves never see concurrent counter writes.
type Metrics struct{ db *gorm.DB }

func NewMetrics(db *gorm.DB) *Metrics { return &Metrics{db: db} }

func (m *Metrics) increment(campaignID, column string) error {
	res := m.db.Model(&models.CampaignMetricsModel{}).
		Where("campaign_id = ?", campaignID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Metrics row missing (campaign predates the counters table).
		return m.db.Create(&models.CampaignMetricsModel{
			CampaignID: campaignID,
		}).Error
	}
	return nil
}

// RecordView bumps the view counter.
func (m *Metrics) RecordView(campaignID string) error {
	return m.increment(campaignID, "view_count")
}

// RecordShare bumps the share counter.
func (m *Metrics) RecordShare(campaignID string) error {
	return m.increment(campaignID, "share_count")
}

// RecordUpdatePosted bumps the posted-updates counter.
func (m *Metrics) RecordUpdatePosted(campaignID string) error {
	return m.increment(campaignID, "updates_posted")
}

// Get returns the counters for a campaign plus its donation count.
func (m *Metrics) Get(campaignID string) (*metricsResponse, error) {
	var row models.CampaignMetricsModel
	if err := m.db.Where("campaign_id = ?", campaignID).First(&row).Error; err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var donations int64
	if err := m.db.Model(&models.DonationModel{}).
		Where("campaign_id = ? AND status = ?", campaignID, models.DonationCompleted).
		Count(&donations).Error; err != nil {
		return nil, err
	}

	return &metricsResponse{
		ViewCount:     row.ViewCount,
		ShareCount:    row.ShareCount,
		UpdatesPosted: row.UpdatesPosted,
		DonationCount: donations,
	}, nil
}
