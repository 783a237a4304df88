package models

// AuditAction identifies a moderation action in the audit trail.
type AuditAction string

const (
	AuditCampaignApproved AuditAction = "campaign_approved"
	AuditCampaignRejected AuditAction = "campaign_rejected"
	AuditCampaignStatus   AuditAction = "campaign_status_changed"
	AuditProfileApproved  AuditAction = "profile_approved"
	AuditProfileRejected  AuditAction = "profile_rejected"
)

// AuditLogModel is the append-only moderation trail. Rows are written in the
// same transaction as the state transition they describe and never change.
type AuditLogModel struct {
	Base
	AdminID    string      `json:"admin_id"    gorm:"type:char(36);index;not null"`
	AdminEmail string      `json:"admin_email"`
	ActionType AuditAction `json:"action_type" gorm:"type:varchar(40);index;not null"`
	EntityType string      `json:"entity_type" gorm:"type:varchar(20);index;not null"` // campaign | user
	EntityID   string      `json:"entity_id"   gorm:"type:char(36);index;not null"`
	OldValue   string      `json:"old_value"   gorm:"type:text"`
	NewValue   string      `json:"new_value"   gorm:"type:text"`
	Details    string      `json:"details"     gorm:"type:text"` // approval notes or rejection reason
}

func (AuditLogModel) TableName() string { return "audit_log" }

// AdminNotificationModel is an unread-queue item on the admin dashboard,
// created when something enters a moderation queue.
type AdminNotificationModel struct {
	Base
	Kind       string `json:"kind" gorm:"type:varchar(40);index;not null"` // campaign_pending | profile_pending
	EntityType string `json:"entity_type" gorm:"type:varchar(20);not null"`
	EntityID   string `json:"entity_id" gorm:"type:char(36);index;not null"`
	Message    string `json:"message" gorm:"type:text"`
	Read       bool   `json:"read" gorm:"index"`
}

func (AdminNotificationModel) TableName() string { return "admin_notifications" }

// ActivityModel is the system activity feed backing the admin monitor.
type ActivityModel struct {
	Base
	UserID       string `json:"user_id,omitempty" gorm:"type:char(36);index"`
	UserEmail    string `json:"user_email,omitempty"`
	ActivityType string `json:"activity_type" gorm:"type:varchar(40);index;not null"` // login | campaign | donation | moderation
	Action       string `json:"action" gorm:"type:varchar(80);not null"`
	Details      string `json:"details" gorm:"type:text"`
	Success      bool   `json:"success" gorm:"default:true"`
	ErrorMessage string `json:"error_message,omitempty" gorm:"type:text"`
}

func (ActivityModel) TableName() string { return "activity_log" }
