package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tourghana/tour-booking-backend/internal/models"
	"github.com/tourghana/tour-booking-backend/internal/services"
)

// StatsProvider assembles dashboard aggregates
type StatsProvider interface {
	GetDashboardStats() (*services.DashboardStats, error)
}

// AdminBookingStore is the booking surface the admin panel needs
type AdminBookingStore interface {
	List(limit, offset int) ([]models.Booking, error)
	Count() (int64, error)
	UpdateStatus(bookingID string, status models.BookingStatus) error
}

// AdminUserStore lists customer accounts
type AdminUserStore interface {
	ListByRole(role models.Role, limit, offset int) ([]models.User, error)
	CountByRole(role models.Role) (int64, error)
}

// AdminHandler handles the admin panel endpoints
type AdminHandler struct {
	stats    StatsProvider
	bookings AdminBookingStore
	users    AdminUserStore
	logger   *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(stats StatsProvider, bookings AdminBookingStore, users AdminUserStore, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		stats:    stats,
		bookings: bookings,
		users:    users,
		logger:   logger,
	}
}

// GetStats returns the dashboard summary
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.stats.GetDashboardStats()
	if err != nil {
		h.logger.WithField("error", err).Error("Failed to collect dashboard stats")
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

// ListBookings returns all bookings, paginated, newest first
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePaging(c)

	total, err := h.bookings.Count()
	if err != nil {
		serverError(c)
		return
	}

	bookings, err := h.bookings.List(limit, (page-1)*limit)
	if err != nil {
		h.logger.WithField("error", err).Error("Failed to list bookings")
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(bookings),
		"total":      total,
		"pagination": models.NewPagination(page, limit, total),
		"data":       bookings,
	})
}

// UpdateBookingStatus moves a booking between administrative statuses
func (h *AdminHandler) UpdateBookingStatus(c *gin.Context) {
	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "Status is required")
		return
	}
	if !req.IsValid() {
		fail(c, "Status must be pending, confirmed or cancelled")
		return
	}

	if err := h.bookings.UpdateStatus(c.Param("id"), req.Status); err != nil {
		if strings.Contains(err.Error(), "booking not found") {
			fail(c, "Booking not found")
			return
		}
		h.logger.WithField("error", err).Error("Failed to update booking status")
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking status updated successfully",
	})
}

// ListUsers returns customer accounts, paginated. Password hashes never
// serialize.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := parsePaging(c)

	total, err := h.users.CountByRole(models.RoleUser)
	if err != nil {
		serverError(c)
		return
	}

	users, err := h.users.ListByRole(models.RoleUser, limit, (page-1)*limit)
	if err != nil {
		h.logger.WithField("error", err).Error("Failed to list users")
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(users),
		"total":      total,
		"pagination": models.NewPagination(page, limit, total),
		"data":       users,
	})
}

func parsePaging(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
