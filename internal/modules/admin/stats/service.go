package stats

import (
	"errors"
	"time"

	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/pkg/apperr"
	"github.com/edufund/core/internal/pkg/money"
	"gorm.io/gorm"
)

// Overview is the platform-wide dashboard snapshot.
type Overview struct {
	Users     UserStats     `json:"users"`
	Campaigns CampaignStats `json:"campaigns"`
	Donations DonationStats `json:"donations"`
	Pending   PendingStats  `json:"pending"`
}

type UserStats struct {
	Total    int64 `json:"total"`
	Students int64 `json:"students"`
	Donors   int64 `json:"donors"`
	Active   int64 `json:"active"`
	Pending  int64 `json:"pending"`
}

type CampaignStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
	Rejected  int64 `json:"rejected"`
	Suspended int64 `json:"suspended"`
	Featured  int64 `json:"featured"`
}

type DonationStats struct {
	Count       int64        `json:"count"`
	TotalAmount money.Amount `json:"total_amount"`
	TotalTips   money.Amount `json:"total_tips"`
	Average     money.Amount `json:"average"`
}

type PendingStats struct {
	Campaigns           int64 `json:"campaigns"`
	Profiles            int64 `json:"profiles"`
	UnreadNotifications int64 `json:"unread_notifications"`
}

// PlatformStats is the public homepage rollup. It exposes nothing that the
// published campaign listings do not already reveal.
type PlatformStats struct {
	TotalRaised     money.Amount `json:"total_raised"`
	DonorCount      int64        `json:"donor_count"`
	ActiveCampaigns int64        `json:"active_campaigns"`
	FundedCampaigns int64        `json:"funded_campaigns"`
}

// CampaignAnalytics is the per-campaign admin report.
type CampaignAnalytics struct {
	CampaignID    string       `json:"campaign_id"`
	Title         string       `json:"title"`
	Status        string       `json:"status"`
	GoalAmount    money.Amount `json:"goal_amount"`
	CurrentAmount money.Amount `json:"current_amount"`
	Progress      float64      `json:"progress"`

	DonationCount   int64        `json:"donation_count"`
	UniqueDonors    int64        `json:"unique_donors"`
	AnonymousCount  int64        `json:"anonymous_count"`
	AverageDonation money.Amount `json:"average_donation"`
	LargestDonation money.Amount `json:"largest_donation"`
	TotalTips       money.Amount `json:"total_tips"`

	ViewCount     int64 `json:"view_count"`
	ShareCount    int64 `json:"share_count"`
	UpdatesPosted int64 `json:"updates_posted"`
	CommentCount  int64 `json:"comment_count"`

	Daily []DailyPoint `json:"daily"`
}

// DailyPoint is one day of donation volume.
type DailyPoint struct {
	Date   string       `json:"date"`
	Count  int64        `json:"count"`
	Amount money.Amount `json:"amount"`
}

const dailyWindowDays = 30

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) Overview() (*Overview, error) {
	var o Overview

	users := s.db.Model(&models.UserModel{})
	if err := users.Count(&o.Users.Total).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	s.count(&models.UserModel{}, "role = ?", &o.Users.Students, models.RoleStudent)
	s.count(&models.UserModel{}, "role = ?", &o.Users.Donors, models.RoleDonor)
	s.count(&models.UserModel{}, "status = ?", &o.Users.Active, models.UserActive)
	s.count(&models.UserModel{}, "status = ?", &o.Users.Pending, models.UserPending)

	if err := s.db.Model(&models.CampaignModel{}).Count(&o.Campaigns.Total).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	s.count(&models.CampaignModel{}, "status = ?", &o.Campaigns.Published, models.CampaignPublished)
	s.count(&models.CampaignModel{}, "status = ?", &o.Campaigns.Pending, models.CampaignPending)
	s.count(&models.CampaignModel{}, "status = ?", &o.Campaigns.Completed, models.CampaignCompleted)
	s.count(&models.CampaignModel{}, "status = ?", &o.Campaigns.Rejected, models.CampaignRejected)
	s.count(&models.CampaignModel{}, "status = ?", &o.Campaigns.Suspended, models.CampaignSuspended)
	s.count(&models.CampaignModel{}, "featured = ?", &o.Campaigns.Featured, true)

	var agg struct {
		Count int64
		Total money.Amount
		Tips  money.Amount
	}
	err := s.db.Model(&models.DonationModel{}).
		Where("status = ?", models.DonationCompleted).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total, COALESCE(SUM(tip_amount), 0) AS tips").
		Scan(&agg).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	o.Donations.Count = agg.Count
	o.Donations.TotalAmount = agg.Total
	o.Donations.TotalTips = agg.Tips
	if agg.Count > 0 {
		o.Donations.Average = money.Amount(int64(agg.Total) / agg.Count)
	}

	o.Pending.Campaigns = o.Campaigns.Pending
	o.Pending.Profiles = o.Users.Pending
	s.count(&models.AdminNotificationModel{}, "`read` = ?", &o.Pending.UnreadNotifications, false)

	return &o, nil
}

func (s *Service) count(model interface{}, cond string, dest *int64, args ...interface{}) {
	_ = s.db.Model(model).Where(cond, args...).Count(dest).Error
}

// Platform aggregates the public rollup. Anonymous donors count toward the
// total raised but not toward the donor count.
func (s *Service) Platform() (*PlatformStats, error) {
	var p PlatformStats

	var agg struct {
		Total  money.Amount
		Donors int64
	}
	err := s.db.Model(&models.DonationModel{}).
		Where("status = ?", models.DonationCompleted).
		Select("COALESCE(SUM(amount), 0) AS total, " +
			"COUNT(DISTINCT CASE WHEN is_anonymous = 0 THEN donor_email END) AS donors").
		Scan(&agg).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	p.TotalRaised = agg.Total
	p.DonorCount = agg.Donors

	s.count(&models.CampaignModel{}, "status = ?", &p.ActiveCampaigns, models.CampaignPublished)
	s.count(&models.CampaignModel{}, "status = ?", &p.FundedCampaigns, models.CampaignCompleted)
	return &p, nil
}

func (s *Service) Campaign(campaignID string) (*CampaignAnalytics, error) {
	var cm models.CampaignModel
	err := s.db.First(&cm, "id = ?", campaignID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("campaign not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	a := CampaignAnalytics{
		CampaignID:    cm.ID,
		Title:         cm.Title,
		Status:        string(cm.Status),
		GoalAmount:    cm.GoalAmount,
		CurrentAmount: cm.CurrentAmount,
		Progress:      cm.Progress(),
	}

	var agg struct {
		Count   int64
		Donors  int64
		Anon    int64
		Total   money.Amount
		Largest money.Amount
		Tips    money.Amount
	}
	err = s.db.Model(&models.DonationModel{}).
		Where("campaign_id = ? AND status = ?", campaignID, models.DonationCompleted).
		Select("COUNT(*) AS count, " +
			"COUNT(DISTINCT CASE WHEN is_anonymous = 0 THEN donor_email END) AS donors, " +
			"SUM(CASE WHEN is_anonymous = 1 THEN 1 ELSE 0 END) AS anon, " +
			"COALESCE(SUM(amount), 0) AS total, " +
			"COALESCE(MAX(amount), 0) AS largest, " +
			"COALESCE(SUM(tip_amount), 0) AS tips").
		Scan(&agg).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	a.DonationCount = agg.Count
	a.UniqueDonors = agg.Donors
	a.AnonymousCount = agg.Anon
	a.LargestDonation = agg.Largest
	a.TotalTips = agg.Tips
	if agg.Count > 0 {
		a.AverageDonation = money.Amount(int64(agg.Total) / agg.Count)
	}

	var m models.CampaignMetricsModel
	if err := s.db.First(&m, "campaign_id = ?", campaignID).Error; err == nil {
		a.ViewCount = m.ViewCount
		a.ShareCount = m.ShareCount
		a.UpdatesPosted = m.UpdatesPosted
	}
	s.count(&models.CampaignCommentModel{}, "campaign_id = ?", &a.CommentCount, campaignID)

	daily, err := s.dailySeries(campaignID)
	if err != nil {
		return nil, err
	}
	a.Daily = daily
	return &a, nil
}

// dailySeries aggregates the last 30 days of donations per calendar day.
// Days without donations are filled with zeros so charts get a full axis.
func (s *Service) dailySeries(campaignID string) ([]DailyPoint, error) {
	since := time.Now().AddDate(0, 0, -dailyWindowDays+1).Truncate(24 * time.Hour)

	var rows []struct {
		Day    string
		Count  int64
		Amount money.Amount
	}
	err := s.db.Model(&models.DonationModel{}).
		Where("campaign_id = ? AND status = ? AND created_at >= ?", campaignID, models.DonationCompleted, since).
		Select("DATE(created_at) AS day, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}

	byDay := make(map[string]DailyPoint, len(rows))
	for _, r := range rows {
		byDay[r.Day] = DailyPoint{Date: r.Day, Count: r.Count, Amount: r.Amount}
	}

	out := make([]DailyPoint, 0, dailyWindowDays)
	for i := 0; i < dailyWindowDays; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		if p, ok := byDay[day]; ok {
			out = append(out, p)
		} else {
			out = append(out, DailyPoint{Date: day})
		}
	}
	return out, nil
}
