package donation

import (
	"context"
	"time"

	"github.com/edufund/core/internal/middleware"
	"github.com/edufund/core/internal/modules/activity"
	"github.com/edufund/core/internal/pkg/pagination"
	"github.com/edufund/core/internal/pkg/response"
	"github.com/edufund/core/internal/pkg/taskqueue"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TaskTypeReceipt is the queue task type for receipt emails.
const TaskTypeReceipt = "donation_receipt"

// ReceiptTaskPayload is the queue payload consumed by the notify worker.
type ReceiptTaskPayload struct {
	DonationID string `json:"donation_id"`
}

type Handler struct {
	svc   *Service
	queue *taskqueue.Queue
	db    *gorm.DB
}

func NewHandler(svc *Service, queue *taskqueue.Queue, db *gorm.DB) *Handler {
	return &Handler{svc: svc, queue: queue, db: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/campaigns/:id/donations", h.record)
	rg.GET("/campaigns/:id/donations", h.listByCampaign)
	rg.GET("/campaigns/:id/donors", h.donorWall)
	rg.GET("/campaigns/:id/donor-wall", h.donorWall)

	rg.POST("/donations", h.recordFlat)
	g := rg.Group("/donations", authMW)
	g.GET("/mine", h.listMine)
	g.GET("/:id", h.get)
}

// POST /campaigns/:id/donations
func (h *Handler) record(c *gin.Context) {
	var dto RecordDonationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.finishRecord(c, c.Param("id"), &dto)
}

// POST /donations
// Flat form of record: the campaign is named in the body instead of the path.
func (h *Handler) recordFlat(c *gin.Context) {
	var dto RecordDonationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if dto.CampaignID == "" {
		response.BadRequest(c, "campaignId is required")
		return
	}
	h.finishRecord(c, dto.CampaignID, &dto)
}

func (h *Handler) finishRecord(c *gin.Context, campaignID string, dto *RecordDonationDTO) {
	userID := middleware.CurrentUserID(c)
	d, cm, err := h.svc.Record(campaignID, userID, dto)
	if err != nil {
		response.Error(c, err)
		return
	}

	activity.Record(h.db, activity.Entry{
		UserID: userID, UserEmail: d.DonorEmail,
		ActivityType: "donation", Action: "donation_recorded",
		Details: d.ReceiptNumber, Success: true,
	})

	if h.queue != nil && d.DonorEmail != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = h.queue.Enqueue(ctx, TaskTypeReceipt, ReceiptTaskPayload{DonationID: d.ID}, d.ID)
	}

	response.Created(c, recordResult{
		Donation: toResponse(d, true),
		Campaign: toCampaignTotals(cm),
	})
}

// GET /campaigns/:id/donations
func (h *Handler) listByCampaign(c *gin.Context) {
	items, pag, err := h.svc.ListByCampaign(c.Param("id"), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]donationResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i], false)
	}
	response.Paged(c, out, pag)
}

// GET /campaigns/:id/donors
func (h *Handler) donorWall(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, ok := parsePositiveInt(v); ok {
			limit = n
		}
	}
	wall, err := h.svc.Wall(c.Param("id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, wall)
}

// GET /donations/mine
func (h *Handler) listMine(c *gin.Context) {
	items, pag, err := h.svc.ListByUser(middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]donationResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i], true)
	}
	response.Paged(c, out, pag)
}

// GET /donations/:id
func (h *Handler) get(c *gin.Context) {
	d, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	ownView := d.UserID != "" && d.UserID == middleware.CurrentUserID(c)
	if !ownView && !middleware.CurrentRole(c).IsAdmin() {
		response.Forbidden(c)
		return
	}
	response.OK(c, toResponse(d, true))
}

func parsePositiveInt(s string) (int, bool) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
		if n > 1000 {
			return 0, false
		}
	}
	return n, n > 0
}
