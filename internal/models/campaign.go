package models

import (
	"time"

	"github.com/edufund/core/internal/pkg/money"
)

// CampaignStatus is the moderation/lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignPending   CampaignStatus = "pending"
	CampaignPublished CampaignStatus = "published"
	CampaignRejected  CampaignStatus = "rejected"
	CampaignCompleted CampaignStatus = "completed"
	CampaignSuspended CampaignStatus = "suspended"
)

// VerificationStatus tracks identity verification of the campaign owner.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
)

// CampaignModel is a student fundraising campaign.
type CampaignModel struct {
	Base
	Title       string `json:"title"       gorm:"type:varchar(500);not null"`
	Description string `json:"description" gorm:"type:longtext"` // markdown source

	GoalAmount    money.Amount `json:"goal_amount"    gorm:"not null"`
	CurrentAmount money.Amount `json:"current_amount"` // derived; mutated only inside donation transactions

	Category   string `json:"category"   gorm:"type:varchar(100);index"`
	City       string `json:"city"       gorm:"index"`
	University string `json:"university" gorm:"index"`
	CoverImage string `json:"cover_image" gorm:"type:text"`

	Status             CampaignStatus     `json:"status"              gorm:"type:varchar(20);index;not null;default:pending"`
	VerificationStatus VerificationStatus `json:"verification_status" gorm:"type:varchar(20);not null;default:pending"`
	TrustScore         int                `json:"trust_score"`
	Featured           bool               `json:"featured" gorm:"index"`

	EndDate *time.Time `json:"end_date" gorm:"index"`

	StudentName       string `json:"student_name"`
	StudentAvatar     string `json:"student_avatar" gorm:"type:text"`
	StudentUniversity string `json:"student_university"`
	StudentField      string `json:"student_field"`
	StudentYear       string `json:"student_year" gorm:"type:varchar(50)"`

	Tags          StringArray `json:"tags" gorm:"type:text"`
	AllowAnonymous bool       `json:"allow_anonymous" gorm:"default:true"`
	AllowComments  bool       `json:"allow_comments"  gorm:"default:true"`

	UserID string `json:"user_id" gorm:"type:char(36);index;not null"`
}

func (CampaignModel) TableName() string { return "campaigns" }

// Progress returns current/goal as a ratio in [0, +inf).
func (c *CampaignModel) Progress() float64 {
	if c.GoalAmount <= 0 {
		return 0
	}
	return float64(c.CurrentAmount) / float64(c.GoalAmount)
}

// CampaignMetricsModel holds side-effect counters, one row per campaign.
// All increments go through the metrics service; nothing else writes here.
type CampaignMetricsModel struct {
	CampaignID    string    `json:"campaign_id" gorm:"type:char(36);primaryKey"`
	ViewCount     int64     `json:"view_count"`
	ShareCount    int64     `json:"share_count"`
	UpdatesPosted int64     `json:"updates_posted"`
	LastUpdated   time.Time `json:"last_updated" gorm:"autoUpdateTime"`
}

func (CampaignMetricsModel) TableName() string { return "campaign_metrics" }
