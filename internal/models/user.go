package models

import "time"

// Role determines what a signed-in user may do.
type Role string

const (
	RoleStudent    Role = "student"
	RoleDonor      Role = "donor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// IsAdmin reports whether the role carries moderation rights.
func (r Role) IsAdmin() bool { return r == RoleAdmin || r == RoleSuperAdmin }

// UserStatus is the profile moderation state.
type UserStatus string

const (
	UserPending  UserStatus = "pending"
	UserActive   UserStatus = "active"
	UserRejected UserStatus = "rejected"
)

// UserModel represents a platform account: student, donor, or admin.
type UserModel struct {
	Base
	Email    string     `json:"email"  gorm:"uniqueIndex;not null"`
	Password string     `json:"-"      gorm:"not null"`
	Role     Role       `json:"role"   gorm:"type:varchar(20);index;not null;default:donor"`
	Status   UserStatus `json:"status" gorm:"type:varchar(20);index;not null;default:pending"`

	// Identity verification, set by profile moderation.
	Verified          bool       `json:"verified"`
	ProfileApprovedAt *time.Time `json:"profile_approved_at"`
	RejectionReason   string     `json:"rejection_reason,omitempty" gorm:"type:text"`

	// Soft profile fields editable from profile settings.
	FullName     string     `json:"full_name"`
	University   string     `json:"university"`
	FieldOfStudy string     `json:"field_of_study"`
	Bio          string     `json:"bio" gorm:"type:text"`
	GPA          string     `json:"gpa" gorm:"type:varchar(10)"`
	Phone        string     `json:"phone"`
	City         string     `json:"city"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	Gender       string     `json:"gender" gorm:"type:varchar(20)"`
	Avatar       string     `json:"avatar" gorm:"type:text"`

	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

// UserSession tracks signed-in JWT sessions for device/session management.
type UserSession struct {
	Base
	UserID    string     `json:"user_id"    gorm:"index;not null"`
	IP        string     `json:"ip"`
	UA        string     `json:"ua"         gorm:"type:text"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"index;not null"`
	RevokedAt *time.Time `json:"revoked_at" gorm:"index"`
}

func (UserSession) TableName() string { return "user_sessions" }
