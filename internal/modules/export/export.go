// Package export produces downloadable artifacts: CSV datasets for the admin
// dashboard, a printable analytics report, and donation receipts.
package export

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/edufund/core/internal/middleware"
	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/modules/admin/stats"
	"github.com/edufund/core/internal/modules/donation"
	"github.com/edufund/core/internal/pkg/apperr"
	"github.com/edufund/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const exportBatchSize = 500

type Handler struct {
	db    *gorm.DB
	don   *donation.Service
	stats *stats.Service
}

func NewHandler(db *gorm.DB, don *donation.Service, statsSvc *stats.Service) *Handler {
	return &Handler{db: db, don: don, stats: statsSvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/donations/:id/receipt", authMW, h.receipt)

	g := rg.Group("/admin/export", authMW, middleware.RequireAdmin())
	g.GET("/campaigns", h.campaignsCSV)
	g.GET("/donations", h.donationsCSV)
	g.GET("/campaigns/:id/report", h.analyticsReport)

	// Flat aliases under /export.
	e := rg.Group("/export")
	e.GET("/receipt/:id", authMW, h.receipt)
	ea := e.Group("", authMW, middleware.RequireAdmin())
	ea.GET("/campaigns-csv", h.campaignsCSV)
	ea.GET("/donations-csv", h.donationsCSV)
	ea.POST("/analytics-pdf", h.analyticsReportFlat)
}

func setDownloadHeaders(c *gin.Context, contentType, filename string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// GET /admin/export/campaigns
func (h *Handler) campaignsCSV(c *gin.Context) {
	tx := h.db.Model(&models.CampaignModel{}).Order("created_at ASC")
	if status := c.Query("status"); status != "" {
		tx = tx.Where("status = ?", status)
	}

	setDownloadHeaders(c, "text/csv; charset=utf-8",
		fmt.Sprintf("campaigns-%s.csv", time.Now().Format("2006-01-02")))
	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	_ = w.Write([]string{
		"id", "title", "status", "category", "city", "university",
		"goal_amount", "current_amount", "progress", "featured",
		"student_name", "end_date", "created_at",
	})

	var rows []models.CampaignModel
	err := tx.FindInBatches(&rows, exportBatchSize, func(_ *gorm.DB, _ int) error {
		for i := range rows {
			cm := &rows[i]
			endDate := ""
			if cm.EndDate != nil {
				endDate = cm.EndDate.Format("2006-01-02")
			}
			if err := w.Write([]string{
				cm.ID,
				cm.Title,
				string(cm.Status),
				cm.Category,
				cm.City,
				cm.University,
				strconv.FormatFloat(cm.GoalAmount.MAD(), 'f', 2, 64),
				strconv.FormatFloat(cm.CurrentAmount.MAD(), 'f', 2, 64),
				strconv.FormatFloat(cm.Progress()*100, 'f', 1, 64),
				strconv.FormatBool(cm.Featured),
				cm.StudentName,
				endDate,
				cm.CreatedAt.Format(time.RFC3339),
			}); err != nil {
				return err
			}
		}
		return nil
	}).Error
	if err != nil {
		// Headers are already out; nothing useful to send back.
		return
	}
}

// GET /admin/export/donations
func (h *Handler) donationsCSV(c *gin.Context) {
	tx := h.db.Model(&models.DonationModel{}).
		Where("status = ?", models.DonationCompleted).
		Order("created_at ASC")
	if id := c.Query("campaignId"); id != "" {
		tx = tx.Where("campaign_id = ?", id)
	}

	setDownloadHeaders(c, "text/csv; charset=utf-8",
		fmt.Sprintf("donations-%s.csv", time.Now().Format("2006-01-02")))
	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	_ = w.Write([]string{
		"id", "campaign_id", "receipt_number", "donor_name", "donor_email",
		"anonymous", "amount", "tip_amount", "currency", "payment_method", "created_at",
	})

	var rows []models.DonationModel
	_ = tx.FindInBatches(&rows, exportBatchSize, func(_ *gorm.DB, _ int) error {
		for i := range rows {
			d := &rows[i]
			name, email := d.DonorName, d.DonorEmail
			if d.IsAnonymous {
				name, email = "Anonymous", ""
			}
			if err := w.Write([]string{
				d.ID,
				d.CampaignID,
				d.ReceiptNumber,
				name,
				email,
				strconv.FormatBool(d.IsAnonymous),
				strconv.FormatFloat(d.Amount.MAD(), 'f', 2, 64),
				strconv.FormatFloat(d.TipAmount.MAD(), 'f', 2, 64),
				d.Currency,
				d.PaymentMethod,
				d.CreatedAt.Format(time.RFC3339),
			}); err != nil {
				return err
			}
		}
		return nil
	}).Error
}

// GET /admin/export/campaigns/:id/report
func (h *Handler) analyticsReport(c *gin.Context) {
	h.renderReport(c, c.Param("id"))
}

// POST /export/analytics-pdf
// Flat form: the campaign is named in the body instead of the path.
func (h *Handler) analyticsReportFlat(c *gin.Context) {
	var req struct {
		CampaignID string `json:"campaignId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.CampaignID == "" {
		response.BadRequest(c, "campaignId is required")
		return
	}
	h.renderReport(c, req.CampaignID)
}

func (h *Handler) renderReport(c *gin.Context, campaignID string) {
	a, err := h.stats.Campaign(campaignID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := reportTemplate.Execute(c.Writer, reportData{
		Analytics:   a,
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
	}); err != nil {
		return
	}
}

// GET /donations/:id/receipt
func (h *Handler) receipt(c *gin.Context) {
	d, err := h.don.GetByID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if d.UserID != middleware.CurrentUserID(c) && !middleware.CurrentRole(c).IsAdmin() {
		response.Error(c, apperr.Forbidden("you cannot access this receipt"))
		return
	}

	var cm models.CampaignModel
	campaignTitle := ""
	if err := h.db.Select("title").First(&cm, "id = ?", d.CampaignID).Error; err == nil {
		campaignTitle = cm.Title
	}

	name := d.DonorName
	if name == "" {
		name = "Anonymous"
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	_ = receiptTemplate.Execute(c.Writer, receiptData{
		ReceiptNumber: d.ReceiptNumber,
		DonorName:     name,
		CampaignTitle: campaignTitle,
		Amount:        d.Amount.String(),
		TipAmount:     d.TipAmount.String(),
		HasTip:        d.TipAmount > 0,
		PaymentMethod: d.PaymentMethod,
		Date:          d.CreatedAt.Format("January 2, 2006"),
	})
}
