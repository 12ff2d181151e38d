package services

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tourghana/tour-booking-backend/internal/models"
	"github.com/tourghana/tour-booking-backend/pkg/paystack"
)

// PaymentGateway abstracts the hosted checkout provider
type PaymentGateway interface {
	InitializeTransaction(req paystack.InitializeRequest) (*paystack.InitializeData, error)
	VerifyTransaction(reference string) (*paystack.VerifyData, error)
}

// PaymentBookingStore is the slice of booking persistence the payment flow needs
type PaymentBookingStore interface {
	GetByID(bookingID string) (*models.Booking, error)
	GetByReference(reference string) (*models.Booking, error)
	MarkPaid(bookingID, gatewayReference string, amount float64) error
	MarkPaymentFailed(bookingID string) error
	Delete(bookingID string) error
}

// bookingCreator creates validated pending bookings for the payment flow
type bookingCreator interface {
	CreateBookingForPayment(req *models.CreateBookingRequest, reference string) (*models.Booking, error)
}

// PaymentConfig carries the gateway-facing settings
type PaymentConfig struct {
	Currency    string
	CallbackURL string
}

// PaymentService runs the checkout flow: a pending booking is written first,
// then the gateway transaction is initialized against it. Verification is the
// only path that marks a booking paid.
type PaymentService struct {
	creator  bookingCreator
	bookings PaymentBookingStore
	gateway  PaymentGateway
	config   PaymentConfig
	logger   *logrus.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(creator bookingCreator, bookings PaymentBookingStore, gateway PaymentGateway, config PaymentConfig, logger *logrus.Logger) *PaymentService {
	return &PaymentService{
		creator:  creator,
		bookings: bookings,
		gateway:  gateway,
		config:   config,
		logger:   logger,
	}
}

// InitializeResult is returned to the client to start the hosted checkout
type InitializeResult struct {
	BookingID        string `json:"bookingId"`
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
}

// VerificationResult reports the settled state of a payment
type VerificationResult struct {
	Booking       *models.Booking `json:"booking"`
	Paid          bool            `json:"paid"`
	GatewayStatus string          `json:"gatewayStatus"`
}

// InitializePayment validates the booking request, persists it pending, and
// initializes a gateway transaction. If the gateway call fails the pending
// booking is deleted again so an abandoned checkout leaves no residue.
func (s *PaymentService) InitializePayment(req *models.CreateBookingRequest) (*InitializeResult, error) {
	reference := generateReference()

	booking, err := s.creator.CreateBookingForPayment(req, reference)
	if err != nil {
		return nil, err
	}

	initData, err := s.gateway.InitializeTransaction(paystack.InitializeRequest{
		Email:       booking.Email,
		Amount:      toMinorUnits(booking.TotalPrice),
		Currency:    s.config.Currency,
		Reference:   reference,
		CallbackURL: s.config.CallbackURL,
		Metadata: map[string]interface{}{
			"bookingId":     booking.ID,
			"tourTitle":     booking.TourTitle,
			"travelers":     booking.Travelers,
			"customerName":  booking.Name,
			"customerPhone": booking.Phone,
		},
	})
	if err != nil {
		if delErr := s.bookings.Delete(booking.ID); delErr != nil {
			s.logger.WithFields(logrus.Fields{
				"booking_id": booking.ID,
				"error":      delErr,
			}).Error("Failed to delete booking after gateway error")
		}
		return nil, fmt.Errorf("payment initialization failed: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"reference":  reference,
		"amount":     booking.TotalPrice,
	}).Info("Payment initialized")

	return &InitializeResult{
		BookingID:        booking.ID,
		Reference:        reference,
		AuthorizationURL: initData.AuthorizationURL,
		AccessCode:       initData.AccessCode,
	}, nil
}

// VerifyPayment checks a transaction with the gateway and settles the booking
// accordingly. Verifying an already-paid booking is a no-op and returns the
// stored state, so callback retries and webhook races stay harmless.
func (s *PaymentService) VerifyPayment(reference string) (*VerificationResult, error) {
	booking, err := s.bookings.GetByReference(reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.IsPaid() {
		return &VerificationResult{Booking: booking, Paid: true, GatewayStatus: "success"}, nil
	}

	data, err := s.gateway.VerifyTransaction(reference)
	if err != nil {
		return nil, fmt.Errorf("payment verification failed: %w", err)
	}

	if data.Status != "success" {
		if err := s.bookings.MarkPaymentFailed(booking.ID); err != nil {
			return nil, err
		}
		booking.MarkPaymentFailed()

		s.logger.WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"reference":  reference,
			"status":     data.Status,
		}).Warn("Payment not completed")

		return &VerificationResult{Booking: booking, Paid: false, GatewayStatus: data.Status}, nil
	}

	amount := fromMinorUnits(data.Amount)
	if err := s.bookings.MarkPaid(booking.ID, data.Reference, amount); err != nil {
		return nil, err
	}

	paidAt := parsePaidAt(data.PaidAt)
	if err := booking.MarkPaid(data.Reference, paidAt); err != nil {
		return nil, err
	}
	booking.PaymentAmount = &amount

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"reference":  reference,
		"amount":     amount,
	}).Info("Payment confirmed")

	return &VerificationResult{Booking: booking, Paid: true, GatewayStatus: data.Status}, nil
}

// PaymentStatus returns the stored payment state without contacting the gateway
func (s *PaymentService) PaymentStatus(bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

// generateReference builds a unique transaction reference. The millisecond
// prefix keeps references sortable; the random suffix keeps them unique
// within the same millisecond.
func generateReference() string {
	suffix := make([]byte, 4)
	rand.Read(suffix)
	return fmt.Sprintf("TG_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(suffix))
}

// toMinorUnits converts cedis to pesewas for the gateway
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// fromMinorUnits converts pesewas back to cedis
func fromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}

func parsePaidAt(value string) time.Time {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Now()
}
