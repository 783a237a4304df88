package moderation

import (
	"errors"
	"strings"
	"time"

	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/pkg/apperr"
	"github.com/edufund/core/internal/pkg/pagination"
	"github.com/edufund/core/internal/pkg/response"
	"gorm.io/gorm"
)

const defaultApprovalNotes = "Campaign approved"

// Actor is the admin performing a moderation action, captured into the
// audit trail.
type Actor struct {
	ID    string
	Email string
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// CanTransition reports whether a campaign may move between two states via
// moderation. Terminal completed campaigns only reopen explicitly to
// published; everything else is an admin call.
func CanTransition(from, to models.CampaignStatus) bool {
	if from == to {
		return false
	}
	switch from {
	case models.CampaignCompleted:
		return to == models.CampaignPublished
	default:
		return true
	}
}

func (s *Service) loadCampaign(id string) (*models.CampaignModel, error) {
	var cm models.CampaignModel
	err := s.db.First(&cm, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("campaign not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &cm, nil
}

// transitionCampaign applies a status change, writes the audit row, and
// clears the notification queue entry, all in one transaction.
func (s *Service) transitionCampaign(actor Actor, cm *models.CampaignModel, to models.CampaignStatus, action models.AuditAction, details string, extra map[string]interface{}) error {
	if !CanTransition(cm.Status, to) {
		return apperr.Conflict("campaign cannot move from %s to %s", cm.Status, to)
	}

	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(cm).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.AuditLogModel{
			AdminID:    actor.ID,
			AdminEmail: actor.Email,
			ActionType: action,
			EntityType: "campaign",
			EntityID:   cm.ID,
			OldValue:   string(cm.Status),
			NewValue:   string(to),
			Details:    details,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.AdminNotificationModel{}).
			Where("entity_type = ? AND entity_id = ? AND `read` = ?", "campaign", cm.ID, false).
			Update("read", true).Error
	})
}

// ApproveCampaign publishes a pending campaign.
func (s *Service) ApproveCampaign(actor Actor, id, notes string) (*models.CampaignModel, error) {
	cm, err := s.loadCampaign(id)
	if err != nil {
		return nil, err
	}
	if cm.Status != models.CampaignPending {
		return nil, apperr.Conflict("only pending campaigns can be approved")
	}

	notes = strings.TrimSpace(notes)
	if notes == "" {
		notes = defaultApprovalNotes
	}
	err = s.transitionCampaign(actor, cm, models.CampaignPublished, models.AuditCampaignApproved, notes, nil)
	if err != nil {
		return nil, err
	}
	cm.Status = models.CampaignPublished
	return cm, nil
}

// RejectCampaign declines a pending campaign. A reason is mandatory: it is
// stored in the audit trail and mailed to the owner.
func (s *Service) RejectCampaign(actor Actor, id, reason string) (*models.CampaignModel, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("a rejection reason is required")
	}

	cm, err := s.loadCampaign(id)
	if err != nil {
		return nil, err
	}
	if cm.Status != models.CampaignPending {
		return nil, apperr.Conflict("only pending campaigns can be rejected")
	}

	err = s.transitionCampaign(actor, cm, models.CampaignRejected, models.AuditCampaignRejected, reason, nil)
	if err != nil {
		return nil, err
	}
	cm.Status = models.CampaignRejected
	return cm, nil
}

// validOverrideStatus lists the states an admin may force a campaign into.
func validOverrideStatus(to models.CampaignStatus) bool {
	switch to {
	case models.CampaignDraft, models.CampaignPending, models.CampaignPublished,
		models.CampaignRejected, models.CampaignCompleted, models.CampaignSuspended:
		return true
	}
	return false
}

// SetCampaignStatus is the generic admin override (suspend, reopen, force
// complete, send back to draft). Every change lands in the audit trail.
func (s *Service) SetCampaignStatus(actor Actor, id string, to models.CampaignStatus, reason string) (*models.CampaignModel, error) {
	if !validOverrideStatus(to) {
		return nil, apperr.Validation("invalid status %q", to)
	}

	cm, err := s.loadCampaign(id)
	if err != nil {
		return nil, err
	}
	err = s.transitionCampaign(actor, cm, to, models.AuditCampaignStatus, strings.TrimSpace(reason), nil)
	if err != nil {
		return nil, err
	}
	cm.Status = to
	return cm, nil
}

// SetFeatured toggles the featured flag.
func (s *Service) SetFeatured(id string, featured bool) error {
	res := s.db.Model(&models.CampaignModel{}).Where("id = ?", id).Update("featured", featured)
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("campaign not found")
	}
	return nil
}

// ApproveProfile verifies a pending student profile.
func (s *Service) ApproveProfile(actor Actor, userID string) (*models.UserModel, error) {
	var u models.UserModel
	err := s.db.First(&u, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if u.Status != models.UserPending {
		return nil, apperr.Conflict("only pending profiles can be approved")
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&u).Updates(map[string]interface{}{
			"status":              models.UserActive,
			"verified":            true,
			"profile_approved_at": now,
			"rejection_reason":    "",
		}).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.AuditLogModel{
			AdminID:    actor.ID,
			AdminEmail: actor.Email,
			ActionType: models.AuditProfileApproved,
			EntityType: "user",
			EntityID:   u.ID,
			OldValue:   string(models.UserPending),
			NewValue:   string(models.UserActive),
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.AdminNotificationModel{}).
			Where("entity_type = ? AND entity_id = ? AND `read` = ?", "user", u.ID, false).
			Update("read", true).Error
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	u.Status = models.UserActive
	u.Verified = true
	u.ProfileApprovedAt = &now
	return &u, nil
}

// RejectProfile declines a pending student profile with a mandatory reason.
func (s *Service) RejectProfile(actor Actor, userID, reason string) (*models.UserModel, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("a rejection reason is required")
	}

	var u models.UserModel
	err := s.db.First(&u, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if u.Status != models.UserPending {
		return nil, apperr.Conflict("only pending profiles can be rejected")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&u).Updates(map[string]interface{}{
			"status":           models.UserRejected,
			"verified":         false,
			"rejection_reason": reason,
		}).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.AuditLogModel{
			AdminID:    actor.ID,
			AdminEmail: actor.Email,
			ActionType: models.AuditProfileRejected,
			EntityType: "user",
			EntityID:   u.ID,
			OldValue:   string(models.UserPending),
			NewValue:   string(models.UserRejected),
			Details:    reason,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.AdminNotificationModel{}).
			Where("entity_type = ? AND entity_id = ? AND `read` = ?", "user", u.ID, false).
			Update("read", true).Error
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	u.Status = models.UserRejected
	u.RejectionReason = reason
	return &u, nil
}

// ListUsers filters accounts for the admin dashboard.
func (s *Service) ListUsers(status models.UserStatus, role models.Role, search string, q pagination.Query) ([]models.UserModel, response.Pagination, error) {
	tx := s.db.Model(&models.UserModel{}).Order("created_at DESC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if role != "" {
		tx = tx.Where("role = ?", role)
	}
	if search = strings.TrimSpace(search); search != "" {
		needle := "%" + search + "%"
		tx = tx.Where("email LIKE ? OR full_name LIKE ? OR university LIKE ?", needle, needle, needle)
	}
	var items []models.UserModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// ListNotifications returns queue items for the dashboard bell.
func (s *Service) ListNotifications(unreadOnly bool, q pagination.Query) ([]models.AdminNotificationModel, response.Pagination, error) {
	tx := s.db.Model(&models.AdminNotificationModel{}).Order("created_at DESC")
	if unreadOnly {
		tx = tx.Where("`read` = ?", false)
	}
	var items []models.AdminNotificationModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// MarkNotificationRead flags one notification.
func (s *Service) MarkNotificationRead(id string) error {
	res := s.db.Model(&models.AdminNotificationModel{}).Where("id = ?", id).Update("read", true)
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// MarkAllNotificationsRead clears the queue.
func (s *Service) MarkAllNotificationsRead() error {
	return s.db.Model(&models.AdminNotificationModel{}).
		Where("`read` = ?", false).
		Update("read", true).Error
}

// AuditTrail returns moderation history, newest first, optionally scoped to
// one entity.
func (s *Service) AuditTrail(entityType, entityID string, q pagination.Query) ([]models.AuditLogModel, response.Pagination, error) {
	tx := s.db.Model(&models.AuditLogModel{}).Order("created_at DESC")
	if entityType != "" {
		tx = tx.Where("entity_type = ?", entityType)
	}
	if entityID != "" {
		tx = tx.Where("entity_id = ?", entityID)
	}
	var items []models.AuditLogModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}
