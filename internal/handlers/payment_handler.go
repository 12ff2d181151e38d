package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tourghana/tour-booking-backend/internal/models"
	"github.com/tourghana/tour-booking-backend/internal/services"
)

// PaymentProcessor is the payment service surface the handler needs
type PaymentProcessor interface {
	InitializePayment(req *models.CreateBookingRequest) (*services.InitializeResult, error)
	VerifyPayment(reference string) (*services.VerificationResult, error)
	PaymentStatus(bookingID string) (*models.Booking, error)
}

// PaymentHandler handles the checkout flow
type PaymentHandler struct {
	payments PaymentProcessor
	logger   *logrus.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments PaymentProcessor, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		logger:   logger,
	}
}

// InitializePayment validates the booking, persists it pending and returns
// the hosted checkout URL
func (h *PaymentHandler) InitializePayment(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "Missing required fields")
		return
	}

	result, err := h.payments.InitializePayment(&req)
	if err != nil {
		if message, ok := domainMessage(err); ok {
			fail(c, message)
			return
		}
		h.logger.WithField("error", err).Error("Payment initialization failed")
		fail(c, "Payment initialization failed. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// VerifyPayment settles a transaction after the customer returns from checkout
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		fail(c, "Payment reference is required")
		return
	}

	result, err := h.payments.VerifyPayment(reference)
	if err != nil {
		if message, ok := domainMessage(err); ok {
			fail(c, message)
			return
		}
		h.logger.WithField("error", err).Error("Payment verification failed")
		fail(c, "Payment verification failed. Please try again.")
		return
	}

	if !result.Paid {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Payment not completed",
			"data":    result.Booking,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment verified successfully",
		"data":    result.Booking,
	})
}

// PaymentStatus reports the stored payment state of a booking
func (h *PaymentHandler) PaymentStatus(c *gin.Context) {
	booking, err := h.payments.PaymentStatus(c.Param("bookingId"))
	if err != nil {
		if message, ok := domainMessage(err); ok {
			fail(c, message)
			return
		}
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"bookingId":     booking.ID,
			"status":        booking.Status,
			"paymentStatus": booking.PaymentStatus,
			"paymentDate":   booking.PaymentDate,
			"totalPrice":    booking.TotalPrice,
		},
	})
}
