package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tourghana/tour-booking-backend/internal/models"
	"github.com/tourghana/tour-booking-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the account persistence surface the handler needs
type UserStore interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByEmailAndRole(email string, role models.Role) (*models.User, error)
}

// AuthHandler handles registration and login for users and admins
type AuthHandler struct {
	users      UserStore
	jwtService *jwt.Service
	bcryptCost int
	logger     *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users UserStore, jwtService *jwt.Service, bcryptCost int, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a new user account and returns a token
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "Name, email and a password of at least 6 characters are required")
		return
	}

	if _, err := h.users.GetByEmail(req.Email); err == nil {
		fail(c, "User already exists")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.logger.WithField("error", err).Error("Failed to check existing user")
		serverError(c)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		serverError(c)
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := h.users.Create(user); err != nil {
		h.logger.WithField("error", err).Error("Failed to create user")
		serverError(c)
		return
	}

	token, err := h.jwtService.GenerateToken(user)
	if err != nil {
		serverError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"data":    user,
	})
}

// Login authenticates a user account
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "Email and password are required")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			fail(c, "User not found")
			return
		}
		serverError(c)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		fail(c, "Invalid credentials")
		return
	}

	token, err := h.jwtService.GenerateToken(user)
	if err != nil {
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"data":    user,
	})
}

// AdminLogin authenticates an administrator. A regular account with the same
// email cannot log in here; the lookup is role-scoped and the failure message
// does not reveal which part was wrong.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "Email and password are required")
		return
	}

	admin, err := h.users.GetByEmailAndRole(req.Email, models.RoleAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			fail(c, "Invalid credentials")
			return
		}
		serverError(c)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		fail(c, "Invalid credentials")
		return
	}

	token, err := h.jwtService.GenerateToken(admin)
	if err != nil {
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"data":    admin,
	})
}
