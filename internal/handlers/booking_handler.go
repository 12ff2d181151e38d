package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tourghana/tour-booking-backend/internal/middleware"
	"github.com/tourghana/tour-booking-backend/internal/models"
)

// BookingCreator is the booking service surface the handler needs
type BookingCreator interface {
	CreateBooking(req *models.CreateBookingRequest) (*models.Booking, error)
	GetBooking(bookingID string) (*models.Booking, error)
	ListBookingsByEmail(email string) ([]models.Booking, error)
}

// ReceiptGenerator renders booking receipts
type ReceiptGenerator interface {
	GenerateReceipt(bookingID string) ([]byte, string, error)
}

// BookingHandler handles customer booking operations
type BookingHandler struct {
	bookings BookingCreator
	receipts ReceiptGenerator
	logger   *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookings BookingCreator, receipts ReceiptGenerator, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		receipts: receipts,
		logger:   logger,
	}
}

// CreateBooking creates a pending booking without starting a payment
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "Missing required fields")
		return
	}

	booking, err := h.bookings.CreateBooking(&req)
	if err != nil {
		if message, ok := domainMessage(err); ok {
			fail(c, message)
			return
		}
		h.logger.WithField("error", err).Error("Failed to create booking")
		serverError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": booking})
}

// GetUserBookings lists a customer's bookings by email, newest first
func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		fail(c, "Email is required")
		return
	}

	bookings, err := h.bookings.ListBookingsByEmail(email)
	if err != nil {
		h.logger.WithField("error", err).Error("Failed to list bookings")
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(bookings),
		"data":    bookings,
	})
}

// GetInvoice serves the PDF receipt for a paid booking. Customers can only
// fetch their own receipts; admins can fetch any.
func (h *BookingHandler) GetInvoice(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
		return
	}

	bookingID := c.Param("id")
	booking, err := h.bookings.GetBooking(bookingID)
	if err != nil {
		if message, ok := domainMessage(err); ok {
			fail(c, message)
			return
		}
		serverError(c)
		return
	}

	if !userCtx.IsAdmin() && booking.Email != userCtx.Email {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "You don't have permission to access this resource",
		})
		return
	}

	pdf, filename, err := h.receipts.GenerateReceipt(bookingID)
	if err != nil {
		if message, ok := domainMessage(err); ok {
			fail(c, message)
			return
		}
		h.logger.WithField("error", err).Error("Failed to generate receipt")
		serverError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
