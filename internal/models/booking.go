package models

import (
	"errors"
	"time"
)

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking represents a customer's reservation against a tour. The tour title
// and price are snapshotted at booking time; the tour itself is not owned.
type Booking struct {
	ID                string        `json:"id" db:"id"`
	Name              string        `json:"name" db:"name"`
	Email             string        `json:"email" db:"email"`
	Phone             string        `json:"phone" db:"phone"`
	Travelers         int           `json:"travelers" db:"travelers"`
	SpecialRequests   *string       `json:"specialRequests,omitempty" db:"special_requests"`
	TourID            string        `json:"tourId" db:"tour_id"`
	TourTitle         string        `json:"tourTitle" db:"tour_title"`
	TotalPrice        float64       `json:"totalPrice" db:"total_price"`
	Status            BookingStatus `json:"status" db:"status"`
	PaymentStatus     PaymentStatus `json:"paymentStatus" db:"payment_status"`
	PaymentReference  *string       `json:"paymentReference,omitempty" db:"payment_reference"`
	PaystackReference *string       `json:"paystackReference,omitempty" db:"paystack_reference"`
	PaymentAmount     *float64      `json:"paymentAmount,omitempty" db:"payment_amount"`
	PaymentDate       *time.Time    `json:"paymentDate,omitempty" db:"payment_date"`
	CreatedAt         time.Time     `json:"createdAt" db:"created_at"`
}

// CreateBookingRequest represents the request to create a booking. The same
// payload is accepted by the payment initialization endpoint.
type CreateBookingRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Travelers       int     `json:"travelers"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
	TourID          string  `json:"tourId"`
	TourTitle       string  `json:"tourTitle"`
	TotalPrice      float64 `json:"totalPrice"`
}

// HasRequiredFields reports whether all required fields are present.
// Travelers is validated separately so the caller can return a distinct error.
func (r *CreateBookingRequest) HasRequiredFields() bool {
	return r.Name != "" && r.Email != "" && r.Phone != "" &&
		r.TourID != "" && r.TourTitle != "" && r.TotalPrice != 0
}

// UpdateBookingStatusRequest represents the admin request to move a booking
// between statuses.
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required"`
}

// IsValid reports whether the requested status is one an administrator may set.
func (r *UpdateBookingStatusRequest) IsValid() bool {
	switch r.Status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// IsPaid checks if the booking is paid
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentStatusPaid
}

// MarkPaid moves the booking to its terminal (confirmed, paid) state.
// Calling it on an already-paid booking is an error; verification handles
// that case by returning the booking unchanged.
func (b *Booking) MarkPaid(gatewayReference string, paidAt time.Time) error {
	if b.PaymentStatus == PaymentStatusPaid {
		return errors.New("payment already confirmed")
	}

	b.PaymentStatus = PaymentStatusPaid
	b.Status = BookingStatusConfirmed
	b.PaystackReference = &gatewayReference
	b.PaymentDate = &paidAt

	return nil
}

// MarkPaymentFailed records a failed verification. The booking status does
// not advance.
func (b *Booking) MarkPaymentFailed() {
	b.PaymentStatus = PaymentStatusFailed
}
