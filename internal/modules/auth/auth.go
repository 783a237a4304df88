package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/edufund/core/internal/middleware"
	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/modules/activity"
	"github.com/edufund/core/internal/pkg/apperr"
	"github.com/edufund/core/internal/pkg/response"
	sessionpkg "github.com/edufund/core/internal/pkg/session"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
	FullName string `json:"fullName"`
}

type LoginDTO struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID                string      `json:"id"`
	Email             string      `json:"email"`
	Role              models.Role `json:"role"`
	Status            models.UserStatus `json:"status"`
	Verified          bool        `json:"verified"`
	FullName          string      `json:"full_name"`
	University        string      `json:"university,omitempty"`
	FieldOfStudy      string      `json:"field_of_study,omitempty"`
	Bio               string      `json:"bio,omitempty"`
	GPA               string      `json:"gpa,omitempty"`
	Phone             string      `json:"phone,omitempty"`
	City              string      `json:"city,omitempty"`
	Gender            string      `json:"gender,omitempty"`
	Avatar            string      `json:"avatar,omitempty"`
	DateOfBirth       *time.Time  `json:"date_of_birth,omitempty"`
	ProfileApprovedAt *time.Time  `json:"profile_approved_at,omitempty"`
	RejectionReason   string      `json:"rejection_reason,omitempty"`
	Created           time.Time   `json:"created"`
}

// ToResponse converts a user row to its public JSON shape.
func ToResponse(u *models.UserModel) userResponse {
	return userResponse{
		ID: u.ID, Email: u.Email, Role: u.Role, Status: u.Status,
		Verified: u.Verified, FullName: u.FullName,
		University: u.University, FieldOfStudy: u.FieldOfStudy,
		Bio: u.Bio, GPA: u.GPA, Phone: u.Phone, City: u.City,
		Gender: u.Gender, Avatar: u.Avatar, DateOfBirth: u.DateOfBirth,
		ProfileApprovedAt: u.ProfileApprovedAt, RejectionReason: u.RejectionReason,
		Created: u.CreatedAt,
	}
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Register creates a new account. Student profiles start in the pending
// moderation queue; donor accounts are active immediately. Admin roles can
// never be self-assigned.
func (s *Service) Register(dto *RegisterDTO) (*models.UserModel, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))

	var count int64
	if err := s.db.Model(&models.UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if count > 0 {
		return nil, apperr.Conflict("an account with this email already exists")
	}

	role := models.RoleDonor
	switch strings.ToLower(strings.TrimSpace(dto.Role)) {
	case "", "donor":
	case "student":
		role = models.RoleStudent
	default:
		return nil, apperr.Validation("role must be student or donor")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	status := models.UserActive
	if role == models.RoleStudent {
		status = models.UserPending
	}

	u := models.UserModel{
		Email:    email,
		Password: string(hash),
		Role:     role,
		Status:   status,
		FullName: strings.TrimSpace(dto.FullName),
	}
	if err := s.db.Create(&u).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	if role == models.RoleStudent {
		// New student profiles land in the moderation queue.
		_ = s.db.Create(&models.AdminNotificationModel{
			Kind:       "profile_pending",
			EntityType: "user",
			EntityID:   u.ID,
			Message:    "New student profile awaiting verification: " + u.Email,
		}).Error
	}
	return &u, nil
}

// Login verifies credentials and returns the matched user.
func (s *Service) Login(email, password, ip string) (*models.UserModel, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u models.UserModel
	err := s.db.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	now := time.Now()
	_ = s.db.Model(&u).Updates(map[string]interface{}{
		"last_login_time": now,
		"last_login_ip":   ip,
	}).Error
	return &u, nil
}

// GetByID loads a user or returns a not-found error.
func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var u models.UserModel
	err := s.db.First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &u, nil
}

type Handler struct {
	svc *Service
	db  *gorm.DB
}

func NewHandler(svc *Service, db *gorm.DB) *Handler {
	return &Handler{svc: svc, db: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")

	g.POST("/register", h.register)
	g.POST("/login", h.login)

	a := g.Group("", authMW)
	a.POST("/logout", h.logout)
	a.GET("/me", h.me)
}

// POST /auth/register
func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, err := h.svc.Register(&dto)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, _, err := sessionpkg.Issue(h.db, u.ID, c.ClientIP(), c.Request.UserAgent(), 0)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	activity.Record(h.db, activity.Entry{
		UserID: u.ID, UserEmail: u.Email,
		ActivityType: "registration", Action: "account_created",
		Details: string(u.Role), Success: true,
	})
	response.Created(c, gin.H{"token": token, "user": ToResponse(u)})
}

// POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, err := h.svc.Login(dto.Email, dto.Password, c.ClientIP())
	if err != nil {
		activity.Record(h.db, activity.Entry{
			UserEmail:    strings.ToLower(strings.TrimSpace(dto.Email)),
			ActivityType: "login", Action: "login_failed",
			Success: false, ErrorMessage: "invalid credentials",
		})
		response.Error(c, err)
		return
	}

	token, _, err := sessionpkg.Issue(h.db, u.ID, c.ClientIP(), c.Request.UserAgent(), 0)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	activity.Record(h.db, activity.Entry{
		UserID: u.ID, UserEmail: u.Email,
		ActivityType: "login", Action: "login_success", Success: true,
	})
	response.OK(c, gin.H{"token": token, "user": ToResponse(u)})
}

// POST /auth/logout
func (h *Handler) logout(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	sid := middleware.CurrentSessionID(c)
	if sid != "" {
		_ = sessionpkg.Revoke(h.db, userID, sid)
	}
	response.OK(c, gin.H{"message": "logged out"})
}

// GET /auth/me
func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ToResponse(u))
}
