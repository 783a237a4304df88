package models

// CampaignCommentModel is an append-only supporter comment on a campaign.
type CampaignCommentModel struct {
	Base
	CampaignID string `json:"campaign_id" gorm:"type:char(36);index;not null"`
	UserID     string `json:"user_id,omitempty" gorm:"type:char(36);index"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content" gorm:"type:text;not null"`
}

func (CampaignCommentModel) TableName() string { return "campaign_comments" }
