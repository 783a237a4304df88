// Package notify is the background email worker. It drains the task queue
// and turns tasks into outbound mail, so HTTP handlers never block on SMTP.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/edufund/core/internal/middleware"
	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/modules/admin/moderation"
	"github.com/edufund/core/internal/modules/donation"
	"github.com/edufund/core/internal/pkg/mail"
	"github.com/edufund/core/internal/pkg/response"
	"github.com/edufund/core/internal/pkg/taskqueue"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	claimTimeout = 5 * time.Second
	maxAttempts  = 3
)

// Worker consumes queued tasks and sends the corresponding emails.
type Worker struct {
	queue     *taskqueue.Queue
	sender    *mail.Sender
	db        *gorm.DB
	publicURL string
	logger    *zap.Logger
}

func NewWorker(queue *taskqueue.Queue, sender *mail.Sender, db *gorm.DB, publicURL string, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{queue: queue, sender: sender, db: db, publicURL: publicURL, logger: logger}
}

// Run blocks until ctx is done, claiming and handling one task at a time.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("notify worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notify worker stopped")
			return
		default:
		}

		task, err := w.queue.Claim(ctx, claimTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.logger.Warn("task claim failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if task == nil {
			continue
		}

		runErr := w.handle(ctx, task)
		if err := w.queue.Finish(ctx, task, runErr, maxAttempts); err != nil {
			w.logger.Warn("task finish failed", zap.String("task", task.ID), zap.Error(err))
		}
		if runErr != nil {
			w.logger.Warn("task failed",
				zap.String("task", task.ID),
				zap.String("type", task.Type),
				zap.Int("attempts", task.Attempts),
				zap.Error(runErr))
		} else {
			w.logger.Info("task done", zap.String("task", task.ID), zap.String("type", task.Type))
		}
	}
}

func (w *Worker) handle(ctx context.Context, task *taskqueue.Task) error {
	if !w.sender.Enabled() {
		// Mail is off: treat as done rather than retrying forever.
		return nil
	}

	switch task.Type {
	case donation.TaskTypeReceipt:
		return w.handleReceipt(ctx, task.Payload)
	case moderation.TaskTypeModerationEmail:
		return w.handleModeration(task.Payload)
	default:
		return fmt.Errorf("unknown task type %q", task.Type)
	}
}

func (w *Worker) handleReceipt(ctx context.Context, payload json.RawMessage) error {
	var p donation.ReceiptTaskPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("bad receipt payload: %w", err)
	}

	var d models.DonationModel
	if err := w.db.WithContext(ctx).First(&d, "id = ?", p.DonationID).Error; err != nil {
		return fmt.Errorf("donation %s: %w", p.DonationID, err)
	}
	if d.ReceiptSent || d.DonorEmail == "" {
		return nil
	}

	var cm models.CampaignModel
	campaignTitle := ""
	if err := w.db.Select("title").First(&cm, "id = ?", d.CampaignID).Error; err == nil {
		campaignTitle = cm.Title
	}

	name := d.DonorName
	if name == "" {
		name = "Friend"
	}
	err := w.sender.SendDonationReceipt(d.DonorEmail, mail.ReceiptData{
		DonorName:     name,
		CampaignTitle: campaignTitle,
		CampaignURL:   w.campaignURL(d.CampaignID),
		ReceiptNumber: d.ReceiptNumber,
		Amount:        d.Amount.String(),
		TipAmount:     d.TipAmount.String(),
		Date:          d.CreatedAt.Format("January 2, 2006"),
		PaymentMethod: d.PaymentMethod,
	})
	if err != nil {
		return err
	}

	return w.db.Model(&models.DonationModel{}).
		Where("id = ?", d.ID).
		Update("receipt_sent", true).Error
}

func (w *Worker) handleModeration(payload json.RawMessage) error {
	var p moderation.EmailTaskPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("bad moderation payload: %w", err)
	}

	switch p.Kind {
	case "campaign_approved":
		return w.sender.SendCampaignApproved(p.To, p.Name, p.CampaignTitle, p.Notes, w.campaignURL(p.CampaignID))
	case "campaign_rejected":
		return w.sender.SendCampaignRejected(p.To, p.Name, p.CampaignTitle, p.Notes)
	case "profile_approved":
		return w.sender.SendProfileApproved(p.To, p.Name)
	case "profile_rejected":
		return w.sender.SendProfileRejected(p.To, p.Name, p.Notes)
	default:
		return fmt.Errorf("unknown moderation email kind %q", p.Kind)
	}
}

func (w *Worker) campaignURL(campaignID string) string {
	if w.publicURL == "" || campaignID == "" {
		return ""
	}
	return w.publicURL + "/campaigns/" + campaignID
}

// Handler exposes the task queue on the admin dashboard.
type Handler struct{ queue *taskqueue.Queue }

func NewHandler(queue *taskqueue.Queue) *Handler { return &Handler{queue: queue} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/admin/tasks", authMW, middleware.RequireAdmin())
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.delete)
}

// GET /admin/tasks
func (h *Handler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	tasks, total, err := h.queue.List(c.Request.Context(), page, size,
		c.Query("type"), taskqueue.Status(c.Query("status")))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	totalPage := 0
	if size > 0 {
		totalPage = int((total + int64(size) - 1) / int64(size))
	}
	response.Paged(c, tasks, response.Pagination{
		Total:       total,
		CurrentPage: page,
		TotalPage:   totalPage,
		Size:        size,
		HasNextPage: page < totalPage,
	})
}

// GET /admin/tasks/:id
func (h *Handler) get(c *gin.Context) {
	task, err := h.queue.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if task == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, task)
}

// DELETE /admin/tasks/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.queue.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
