package services

import (
	"errors"
	"fmt"
	"strconv"
)

// Domain errors surfaced to API clients. The wordings are part of the public
// contract with the frontend and must stay stable.
var (
	ErrMissingFields       = errors.New("Missing required fields")
	ErrTourNotFound        = errors.New("Tour not found")
	ErrTourUnavailable     = errors.New("Tour is not available for booking")
	ErrInvalidTravelers    = errors.New("Invalid number of travelers")
	ErrBookingNotFound     = errors.New("Booking not found")
	ErrPaymentNotConfirmed = errors.New("Payment not completed")
)

// GroupSizeError is returned when a booking asks for more travelers than the
// tour allows.
type GroupSizeError struct {
	Max int
}

func (e *GroupSizeError) Error() string {
	return fmt.Sprintf("Maximum group size for this tour is %d people", e.Max)
}

// PriceMismatchError is returned when the client-submitted total disagrees
// with the server-side price calculation.
type PriceMismatchError struct {
	Expected float64
	Provided float64
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("Price mismatch. Expected: GH₵%s, Provided: GH₵%s",
		formatAmount(e.Expected), formatAmount(e.Provided))
}

// formatAmount renders a cedi amount without trailing zeros, so whole
// amounts read as "400" rather than "400.00".
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
