package models

import "github.com/edufund/core/internal/pkg/money"

// DonationStatus is the payment state of a donation. Payments are simulated,
// so donations are recorded as completed directly.
type DonationStatus string

const (
	DonationCompleted DonationStatus = "completed"
	DonationPending   DonationStatus = "pending"
	DonationRefunded  DonationStatus = "refunded"
)

// DonationModel is one row of the append-only donation ledger. Rows never
// mutate after creation except status and receipt_sent.
type DonationModel struct {
	Base
	CampaignID string `json:"campaign_id" gorm:"type:char(36);index;not null"`
	UserID     string `json:"user_id,omitempty" gorm:"type:char(36);index"` // empty for guest donations

	DonorName   string `json:"donor_name"`
	DonorEmail  string `json:"donor_email" gorm:"index"`
	Message     string `json:"message" gorm:"type:text"`
	IsAnonymous bool   `json:"is_anonymous"`

	Amount    money.Amount `json:"amount" gorm:"not null"`
	TipAmount money.Amount `json:"tip_amount"`
	Currency  string       `json:"currency" gorm:"type:varchar(10);not null;default:MAD"`

	PaymentMethod string         `json:"payment_method" gorm:"type:varchar(50);default:card"`
	Status        DonationStatus `json:"status" gorm:"type:varchar(20);index;not null;default:completed"`

	ReceiptNumber string `json:"receipt_number" gorm:"uniqueIndex;type:varchar(40)"`
	ReceiptSent   bool   `json:"receipt_sent"`
}

func (DonationModel) TableName() string { return "donations" }
