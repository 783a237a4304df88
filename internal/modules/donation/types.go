package donation

import (
	"time"

	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/pkg/money"
)

type RecordDonationDTO struct {
	// CampaignID is only read on the flat POST /donations form; the nested
	// route takes the campaign from the path.
	CampaignID    string  `json:"campaignId"`
	Amount        float64 `json:"amount"      binding:"required,gt=0"`
	TipAmount     float64 `json:"tipAmount"`
	DonorName     string  `json:"donorName"`
	DonorEmail    string  `json:"donorEmail"`
	Message       string  `json:"message"`
	IsAnonymous   bool    `json:"isAnonymous"`
	PaymentMethod string  `json:"paymentMethod"`
}

type donationResponse struct {
	ID            string                `json:"id"`
	CampaignID    string                `json:"campaign_id"`
	DonorName     string                `json:"donor_name"`
	Message       string                `json:"message,omitempty"`
	IsAnonymous   bool                  `json:"is_anonymous"`
	Amount        money.Amount          `json:"amount"`
	Currency      string                `json:"currency"`
	Status        models.DonationStatus `json:"status"`
	ReceiptNumber string                `json:"receipt_number,omitempty"`
	Created       time.Time             `json:"created"`
}

// toResponse masks donor identity on anonymous rows. The receipt number is
// only included for the donor's own view.
func toResponse(d *models.DonationModel, ownView bool) donationResponse {
	r := donationResponse{
		ID: d.ID, CampaignID: d.CampaignID,
		DonorName: d.DonorName, Message: d.Message,
		IsAnonymous: d.IsAnonymous,
		Amount:      d.Amount, Currency: d.Currency,
		Status:  d.Status,
		Created: d.CreatedAt,
	}
	if d.IsAnonymous && !ownView {
		r.DonorName = "Anonymous"
		r.Message = ""
	}
	if r.DonorName == "" {
		r.DonorName = "Anonymous"
	}
	if ownView {
		r.ReceiptNumber = d.ReceiptNumber
	}
	return r
}

// campaignTotals carries the post-donation aggregate so the caller can
// update a progress bar without a second round trip.
type campaignTotals struct {
	ID            string       `json:"id"`
	CurrentAmount money.Amount `json:"current_amount"`
	GoalAmount    money.Amount `json:"goal_amount"`
	Progress      float64      `json:"progress"`
}

type recordResult struct {
	Donation donationResponse `json:"donation"`
	Campaign campaignTotals   `json:"campaign"`
}

func toCampaignTotals(cm *models.CampaignModel) campaignTotals {
	t := campaignTotals{
		ID:            cm.ID,
		CurrentAmount: cm.CurrentAmount,
		GoalAmount:    cm.GoalAmount,
	}
	if cm.GoalAmount > 0 {
		t.Progress = float64(cm.CurrentAmount) / float64(cm.GoalAmount)
	}
	return t
}

// DonorWallEntry is one row of the campaign donor wall. Named donors are
// keyed by email and ranked by total; anonymous donations are aggregated
// into a single unranked bucket.
type DonorWallEntry struct {
	DonorName     string       `json:"donor_name"`
	TotalAmount   money.Amount `json:"total_amount"`
	DonationCount int64        `json:"donation_count"`
	LastDonation  time.Time    `json:"last_donation"`
}

// RecentDonor is a chronological wall entry. Anonymous gifts appear with the
// name masked rather than being dropped.
type RecentDonor struct {
	DonorName string       `json:"donor_name"`
	Amount    money.Amount `json:"amount"`
	Message   string       `json:"message,omitempty"`
	Created   time.Time    `json:"created"`
}

type DonorWall struct {
	Donors         []DonorWallEntry `json:"donors"`
	FirstDonor     *RecentDonor     `json:"first_donor,omitempty"`
	RecentDonors   []RecentDonor    `json:"recent_donors"`
	AnonymousTotal money.Amount     `json:"anonymous_total"`
	AnonymousCount int64            `json:"anonymous_count"`
}
