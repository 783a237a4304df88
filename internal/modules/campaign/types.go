package campaign

import (
	"time"

	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/pkg/markdown"
	"github.com/edufund/core/internal/pkg/money"
)

type CreateCampaignDTO struct {
	Title          string   `json:"title"       binding:"required,min=5,max=500"`
	Description    string   `json:"description" binding:"required,min=20"`
	GoalAmount     float64  `json:"goalAmount"  binding:"required,gt=0"`
	Category       string   `json:"category"    binding:"required"`
	City           string   `json:"city"`
	University     string   `json:"university"`
	CoverImage     string   `json:"coverImage"`
	EndDate        string   `json:"endDate"` // YYYY-MM-DD, optional
	Tags           []string `json:"tags"`
	AllowAnonymous *bool    `json:"allowAnonymous"`
	AllowComments  *bool    `json:"allowComments"`
}

type UpdateCampaignDTO struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	GoalAmount     *float64 `json:"goalAmount"`
	Category       *string  `json:"category"`
	City           *string  `json:"city"`
	University     *string  `json:"university"`
	CoverImage     *string  `json:"coverImage"`
	EndDate        *string  `json:"endDate"`
	Tags           []string `json:"tags"`
	AllowAnonymous *bool    `json:"allowAnonymous"`
	AllowComments  *bool    `json:"allowComments"`
}

// ListFilter is the parsed query surface of the campaign browser.
type ListFilter struct {
	Search            string
	Category          string
	City              string
	University        string
	Status            models.CampaignStatus
	Featured          *bool
	UserID            string
	MinAmount         *money.Amount
	MaxAmount         *money.Amount
	FundingPercentage string // under25 | under50 | under75 | over75
	TimeRemaining     string // week | month | quarter
	Sort              string // newest | oldest | most_funded | ending_soon | progress
}

type campaignResponse struct {
	ID                 string                    `json:"id"`
	Title              string                    `json:"title"`
	Description        string                    `json:"description"`
	DescriptionHTML    string                    `json:"description_html,omitempty"`
	GoalAmount         money.Amount              `json:"goal_amount"`
	CurrentAmount      money.Amount              `json:"current_amount"`
	Progress           float64                   `json:"progress"`
	Category           string                    `json:"category"`
	City               string                    `json:"city,omitempty"`
	University         string                    `json:"university,omitempty"`
	CoverImage         string                    `json:"cover_image,omitempty"`
	Status             models.CampaignStatus     `json:"status"`
	VerificationStatus models.VerificationStatus `json:"verification_status"`
	TrustScore         int                       `json:"trust_score"`
	Featured           bool                      `json:"featured"`
	EndDate            *time.Time                `json:"end_date,omitempty"`
	DaysLeft           *int                      `json:"days_left,omitempty"`
	StudentName        string                    `json:"student_name,omitempty"`
	StudentAvatar      string                    `json:"student_avatar,omitempty"`
	StudentUniversity  string                    `json:"student_university,omitempty"`
	StudentField       string                    `json:"student_field,omitempty"`
	StudentYear        string                    `json:"student_year,omitempty"`
	Tags               []string                  `json:"tags"`
	AllowAnonymous     bool                      `json:"allow_anonymous"`
	AllowComments      bool                      `json:"allow_comments"`
	UserID             string                    `json:"user_id"`
	Metrics            *metricsResponse          `json:"metrics,omitempty"`
	Created            time.Time                 `json:"created"`
	Modified           time.Time                 `json:"modified"`
}

type metricsResponse struct {
	ViewCount     int64 `json:"view_count"`
	ShareCount    int64 `json:"share_count"`
	UpdatesPosted int64 `json:"updates_posted"`
	DonationCount int64 `json:"donation_count"`
}

func toResponse(cm *models.CampaignModel, renderHTML bool) campaignResponse {
	r := campaignResponse{
		ID: cm.ID, Title: cm.Title, Description: cm.Description,
		GoalAmount: cm.GoalAmount, CurrentAmount: cm.CurrentAmount,
		Progress: cm.Progress(),
		Category: cm.Category, City: cm.City, University: cm.University,
		CoverImage: cm.CoverImage, Status: cm.Status,
		VerificationStatus: cm.VerificationStatus,
		TrustScore:         cm.TrustScore, Featured: cm.Featured,
		EndDate:       cm.EndDate,
		StudentName:   cm.StudentName, StudentAvatar: cm.StudentAvatar,
		StudentUniversity: cm.StudentUniversity,
		StudentField:      cm.StudentField, StudentYear: cm.StudentYear,
		Tags:           cm.Tags,
		AllowAnonymous: cm.AllowAnonymous, AllowComments: cm.AllowComments,
		UserID:  cm.UserID,
		Created: cm.CreatedAt, Modified: cm.UpdatedAt,
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if cm.EndDate != nil {
		days := int(time.Until(*cm.EndDate).Hours() / 24)
		if days < 0 {
			days = 0
		}
		r.DaysLeft = &days
	}
	if renderHTML {
		r.DescriptionHTML = markdown.RenderOrRaw(cm.Description)
	}
	return r
}
