package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tourghana/tour-booking-backend/internal/services"
)

// fail writes the domain-failure envelope. Domain failures deliberately travel
// as HTTP 200 with success=false; the frontend keys off the flag, not the code.
func fail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"message": message,
	})
}

// serverError writes the opaque 500 envelope
func serverError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "Internal server error",
	})
}

// domainMessage extracts the client-facing message from a known domain error
func domainMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrTourNotFound),
		errors.Is(err, services.ErrTourUnavailable),
		errors.Is(err, services.ErrInvalidTravelers),
		errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrPaymentNotConfirmed):
		return err.Error(), true
	}

	var groupErr *services.GroupSizeError
	if errors.As(err, &groupErr) {
		return err.Error(), true
	}
	var priceErr *services.PriceMismatchError
	if errors.As(err, &priceErr) {
		return err.Error(), true
	}

	return "", false
}
