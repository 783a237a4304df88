package models

// FavoriteModel bookmarks a campaign for a user. One row per (user, campaign).
type FavoriteModel struct {
	Base
	UserID     string `json:"user_id"     gorm:"type:char(36);uniqueIndex:idx_favorite_pair;not null"`
	CampaignID string `json:"campaign_id" gorm:"type:char(36);uniqueIndex:idx_favorite_pair;not null"`
}

func (FavoriteModel) TableName() string { return "favorites" }
