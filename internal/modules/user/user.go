package user

import (
	"strings"
	"time"

	"github.com/edufund/core/internal/middleware"
	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/modules/auth"
	"github.com/edufund/core/internal/pkg/apperr"
	"github.com/edufund/core/internal/pkg/response"
	sessionpkg "github.com/edufund/core/internal/pkg/session"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UpdateProfileDTO struct {
	FullName     *string `json:"fullName"`
	University   *string `json:"university"`
	FieldOfStudy *string `json:"fieldOfStudy"`
	Bio          *string `json:"bio"`
	GPA          *string `json:"gpa"`
	Phone        *string `json:"phone"`
	City         *string `json:"city"`
	DateOfBirth  *string `json:"dateOfBirth"` // YYYY-MM-DD
	Gender       *string `json:"gender"`
	Avatar       *string `json:"avatar"`
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword"     binding:"required,min=8"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// UpdateProfile applies partial profile edits. A rejected student profile
// that gets edited re-enters the moderation queue as pending.
func (s *Service) UpdateProfile(userID string, dto *UpdateProfileDTO) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", userID).Error; err != nil {
		return nil, apperr.NotFound("user not found")
	}

	updates := map[string]interface{}{}
	setString := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	setString("full_name", dto.FullName)
	setString("university", dto.University)
	setString("field_of_study", dto.FieldOfStudy)
	setString("bio", dto.Bio)
	setString("gpa", dto.GPA)
	setString("phone", dto.Phone)
	setString("city", dto.City)
	setString("gender", dto.Gender)
	setString("avatar", dto.Avatar)

	if dto.DateOfBirth != nil {
		raw := strings.TrimSpace(*dto.DateOfBirth)
		if raw == "" {
			updates["date_of_birth"] = nil
		} else {
			dob, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return nil, apperr.Validation("dateOfBirth must be YYYY-MM-DD")
			}
			updates["date_of_birth"] = dob
		}
	}

	if len(updates) == 0 {
		return &u, nil
	}

	resubmitted := u.Role == models.RoleStudent && u.Status == models.UserRejected
	if resubmitted {
		updates["status"] = models.UserPending
		updates["rejection_reason"] = ""
	}

	if err := s.db.Model(&u).Updates(updates).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	if resubmitted {
		_ = s.db.Create(&models.AdminNotificationModel{
			Kind:       "profile_pending",
			EntityType: "user",
			EntityID:   u.ID,
			Message:    "Student profile resubmitted for verification: " + u.Email,
		}).Error
	}

	if err := s.db.First(&u, "id = ?", userID).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &u, nil
}

// ChangePassword verifies the current password and stores a new hash. Other
// sessions stay valid; the frontend offers revocation separately.
func (s *Service) ChangePassword(userID string, dto *ChangePasswordDTO) error {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", userID).Error; err != nil {
		return apperr.NotFound("user not found")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(dto.CurrentPassword)) != nil {
		return apperr.Unauthorized("current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(err)
	}
	return s.db.Model(&u).Update("password", string(hash)).Error
}

type Handler struct {
	svc *Service
	db  *gorm.DB
}

func NewHandler(svc *Service, db *gorm.DB) *Handler {
	return &Handler{svc: svc, db: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/profile", authMW)

	g.GET("", h.get)
	g.PUT("", h.update)
	g.PUT("/password", h.changePassword)
	g.GET("/sessions", h.sessions)
	g.DELETE("/sessions/:id", h.revokeSession)
}

// GET /profile
func (h *Handler) get(c *gin.Context) {
	var u models.UserModel
	if err := h.db.First(&u, "id = ?", middleware.CurrentUserID(c)).Error; err != nil {
		response.NotFound(c)
		return
	}
	response.OK(c, auth.ToResponse(&u))
}

// PUT /profile
func (h *Handler) update(c *gin.Context) {
	var dto UpdateProfileDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.UpdateProfile(middleware.CurrentUserID(c), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, auth.ToResponse(u))
}

// PUT /profile/password
func (h *Handler) changePassword(c *gin.Context) {
	var dto ChangePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.ChangePassword(middleware.CurrentUserID(c), &dto); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "password updated"})
}

// GET /profile/sessions
func (h *Handler) sessions(c *gin.Context) {
	sessions, err := sessionpkg.ListActive(h.db, middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	current := middleware.CurrentSessionID(c)
	type item struct {
		ID        string    `json:"id"`
		IP        string    `json:"ip"`
		UA        string    `json:"ua"`
		Current   bool      `json:"current"`
		Created   time.Time `json:"created"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	out := make([]item, len(sessions))
	for i, s := range sessions {
		out[i] = item{
			ID: s.ID, IP: s.IP, UA: s.UA,
			Current: s.ID == current,
			Created: s.CreatedAt, ExpiresAt: s.ExpiresAt,
		}
	}
	response.OK(c, out)
}

// DELETE /profile/sessions/:id
func (h *Handler) revokeSession(c *gin.Context) {
	err := sessionpkg.Revoke(h.db, middleware.CurrentUserID(c), c.Param("id"))
	if err == gorm.ErrRecordNotFound {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
