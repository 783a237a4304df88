package models

// CampaignUpdateModel is an append-only progress update, authored only by the
// campaign owner.
type CampaignUpdateModel struct {
	Base
	CampaignID string `json:"campaign_id" gorm:"type:char(36);index;not null"`
	UserID     string `json:"user_id" gorm:"type:char(36);index;not null"`
	Title      string `json:"title" gorm:"type:varchar(500)"`
	Content    string `json:"content" gorm:"type:longtext;not null"` // markdown source
	ImageURL   string `json:"image_url" gorm:"type:text"`
}

func (CampaignUpdateModel) TableName() string { return "campaign_updates" }
