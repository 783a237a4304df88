package donation

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/pkg/apperr"
	"github.com/edufund/core/internal/pkg/money"
	"github.com/edufund/core/internal/pkg/pagination"
	"github.com/edufund/core/internal/pkg/response"
	"gorm.io/gorm"
)

const maxMessageLength = 1000

type Service struct {
	db        *gorm.DB
	minAmount money.Amount
}

func NewService(db *gorm.DB, minAmount money.Amount) *Service {
	return &Service{db: db, minAmount: minAmount}
}

// MinimumAmount returns the configured donation floor.
func (s *Service) MinimumAmount() money.Amount { return s.minAmount }

// newReceiptNumber generates a receipt id like EDF-2026-a3f9c1b2e4d5.
func newReceiptNumber() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("EDF-%d-%s", time.Now().Year(), hex.EncodeToString(buf)), nil
}

// ValidateRecord checks a donation request against a campaign before any
// write happens.
func (s *Service) ValidateRecord(cm *models.CampaignModel, dto *RecordDonationDTO) error {
	amount := money.FromMAD(dto.Amount)
	if amount < s.minAmount {
		return apperr.Validation("minimum donation is %s", s.minAmount)
	}
	if dto.TipAmount < 0 {
		return apperr.Validation("tipAmount cannot be negative")
	}
	if cm.Status != models.CampaignPublished {
		return apperr.Conflict("campaign is not accepting donations")
	}
	if dto.IsAnonymous && !cm.AllowAnonymous {
		return apperr.Validation("this campaign does not accept anonymous donations")
	}
	if !dto.IsAnonymous {
		if strings.TrimSpace(dto.DonorName) == "" {
			return apperr.Validation("donorName is required for named donations")
		}
		email := strings.TrimSpace(dto.DonorEmail)
		if email == "" || !strings.Contains(email, "@") {
			return apperr.Validation("a valid donorEmail is required for named donations")
		}
	}
	if len(dto.Message) > maxMessageLength {
		return apperr.Validation("message must be at most %d characters", maxMessageLength)
	}
	return nil
}

// Record inserts the donation row and increments the campaign aggregate in
// one transaction, returning the donation and the refreshed campaign. The
// aggregate update is a relative SQL increment, never a read-modify-write,
// so concurrent donations cannot lose money.
func (s *Service) Record(campaignID, userID string, dto *RecordDonationDTO) (*models.DonationModel, *models.CampaignModel, error) {
	var cm models.CampaignModel
	err := s.db.First(&cm, "id = ?", campaignID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperr.NotFound("campaign not found")
	}
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}

	if err := s.ValidateRecord(&cm, dto); err != nil {
		return nil, nil, err
	}

	receipt, err := newReceiptNumber()
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}

	method := strings.TrimSpace(dto.PaymentMethod)
	if method == "" {
		method = "card"
	}

	d := models.DonationModel{
		CampaignID:    campaignID,
		UserID:        userID,
		DonorName:     strings.TrimSpace(dto.DonorName),
		DonorEmail:    strings.ToLower(strings.TrimSpace(dto.DonorEmail)),
		Message:       dto.Message,
		IsAnonymous:   dto.IsAnonymous,
		Amount:        money.FromMAD(dto.Amount),
		TipAmount:     money.FromMAD(dto.TipAmount),
		Currency:      money.Currency,
		PaymentMethod: method,
		Status:        models.DonationCompleted,
		ReceiptNumber: receipt,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&d).Error; err != nil {
			return err
		}
		res := tx.Model(&models.CampaignModel{}).
			Where("id = ?", campaignID).
			UpdateColumn("current_amount", gorm.Expr("current_amount + ?", d.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		// Re-read inside the transaction so the caller gets the post-increment
		// aggregate, not a stale snapshot.
		return tx.First(&cm, "id = ?", campaignID).Error
	})
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return &d, &cm, nil
}

// ListByCampaign returns a campaign's completed donations, newest first.
func (s *Service) ListByCampaign(campaignID string, q pagination.Query) ([]models.DonationModel, response.Pagination, error) {
	tx := s.db.Model(&models.DonationModel{}).
		Where("campaign_id = ? AND status = ?", campaignID, models.DonationCompleted).
		Order("created_at DESC")
	var items []models.DonationModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// ListByUser returns the donations recorded under a signed-in account.
func (s *Service) ListByUser(userID string, q pagination.Query) ([]models.DonationModel, response.Pagination, error) {
	tx := s.db.Model(&models.DonationModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	var items []models.DonationModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// GetByID loads one donation row.
func (s *Service) GetByID(id string) (*models.DonationModel, error) {
	var d models.DonationModel
	err := s.db.First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("donation not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &d, nil
}

// Wall aggregates a campaign's donor wall. Named donors are grouped by email
// so repeat gifts rank once; anonymous money is totalled separately and
// never ranked.
func (s *Service) Wall(campaignID string, limit int) (*DonorWall, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	type namedRow struct {
		DonorEmail    string
		DonorName     string
		TotalAmount   money.Amount
		DonationCount int64
		LastDonation  time.Time
	}
	var named []namedRow
	err := s.db.Model(&models.DonationModel{}).
		Select("donor_email, MAX(donor_name) AS donor_name, SUM(amount) AS total_amount, COUNT(*) AS donation_count, MAX(created_at) AS last_donation").
		Where("campaign_id = ? AND status = ? AND is_anonymous = ? AND donor_email <> ''",
			campaignID, models.DonationCompleted, false).
		Group("donor_email").
		Order("total_amount DESC").
		Limit(limit).
		Scan(&named).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}

	wall := &DonorWall{Donors: make([]DonorWallEntry, 0, len(named))}
	for _, r := range named {
		name := r.DonorName
		if name == "" {
			name = r.DonorEmail[:strings.Index(r.DonorEmail, "@")]
		}
		wall.Donors = append(wall.Donors, DonorWallEntry{
			DonorName:     name,
			TotalAmount:   r.TotalAmount,
			DonationCount: r.DonationCount,
			LastDonation:  r.LastDonation,
		})
	}

	var anon struct {
		Total money.Amount
		Count int64
	}
	err = s.db.Model(&models.DonationModel{}).
		Select("COALESCE(SUM(amount),0) AS total, COUNT(*) AS count").
		Where("campaign_id = ? AND status = ? AND is_anonymous = ?",
			campaignID, models.DonationCompleted, true).
		Scan(&anon).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	wall.AnonymousTotal = anon.Total
	wall.AnonymousCount = anon.Count

	var first models.DonationModel
	err = s.db.Where("campaign_id = ? AND status = ?", campaignID, models.DonationCompleted).
		Order("created_at ASC").
		First(&first).Error
	if err == nil {
		rd := toRecentDonor(&first)
		wall.FirstDonor = &rd
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}

	var recent []models.DonationModel
	err = s.db.Where("campaign_id = ? AND status = ?", campaignID, models.DonationCompleted).
		Order("created_at DESC").
		Limit(recentDonorLimit).
		Find(&recent).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	wall.RecentDonors = make([]RecentDonor, 0, len(recent))
	for i := range recent {
		wall.RecentDonors = append(wall.RecentDonors, toRecentDonor(&recent[i]))
	}
	return wall, nil
}

const recentDonorLimit = 10

func toRecentDonor(d *models.DonationModel) RecentDonor {
	r := RecentDonor{
		DonorName: d.DonorName,
		Amount:    d.Amount,
		Message:   d.Message,
		Created:   d.CreatedAt,
	}
	if d.IsAnonymous || r.DonorName == "" {
		r.DonorName = "Anonymous"
	}
	if d.IsAnonymous {
		r.Message = ""
	}
	return r
}
