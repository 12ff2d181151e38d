package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/tourghana/tour-booking-backend/internal/models"
)

// priceTolerance absorbs float rounding between the client's total and the
// server-side recalculation. Anything beyond a pesewa is a real mismatch.
const priceTolerance = 0.01

// TourLookup provides read access to tours for validation
type TourLookup interface {
	GetByID(tourID string) (*models.Tour, error)
}

// BookingStore provides persistence for bookings
type BookingStore interface {
	Create(booking *models.Booking) error
	GetByID(bookingID string) (*models.Booking, error)
	GetByEmail(email string) ([]models.Booking, error)
}

// BookingService validates and creates bookings against the live tour catalog
type BookingService struct {
	tours    TourLookup
	bookings BookingStore
	logger   *logrus.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(tours TourLookup, bookings BookingStore, logger *logrus.Logger) *BookingService {
	return &BookingService{
		tours:    tours,
		bookings: bookings,
		logger:   logger,
	}
}

// CreateBooking validates the request against the tour catalog and persists a
// new booking in the pending state.
func (s *BookingService) CreateBooking(req *models.CreateBookingRequest) (*models.Booking, error) {
	return s.create(req, "")
}

// CreateBookingForPayment creates a pending booking that already carries the
// payment reference the gateway transaction will be initialized with.
func (s *BookingService) CreateBookingForPayment(req *models.CreateBookingRequest, paymentReference string) (*models.Booking, error) {
	return s.create(req, paymentReference)
}

func (s *BookingService) create(req *models.CreateBookingRequest, paymentReference string) (*models.Booking, error) {
	if _, err := s.validate(req); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Travelers:       req.Travelers,
		SpecialRequests: req.SpecialRequests,
		TourID:          req.TourID,
		TourTitle:       req.TourTitle,
		TotalPrice:      req.TotalPrice,
		Status:          models.BookingStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
	}
	if paymentReference != "" {
		booking.PaymentReference = &paymentReference
	}

	if err := s.bookings.Create(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"tour_id":    booking.TourID,
		"travelers":  booking.Travelers,
	}).Info("Booking created")

	return booking, nil
}

// validate runs the booking checks in a fixed order so the client always sees
// the most specific applicable error.
func (s *BookingService) validate(req *models.CreateBookingRequest) (*models.Tour, error) {
	if !req.HasRequiredFields() {
		return nil, ErrMissingFields
	}

	tour, err := s.tours.GetByID(req.TourID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTourNotFound
		}
		return nil, fmt.Errorf("failed to load tour: %w", err)
	}

	if !tour.IsActive() {
		return nil, ErrTourUnavailable
	}

	if req.Travelers < 1 {
		return nil, ErrInvalidTravelers
	}
	if req.Travelers > tour.MaxGroupSize {
		return nil, &GroupSizeError{Max: tour.MaxGroupSize}
	}

	expected := tour.Price * float64(req.Travelers)
	if math.Abs(expected-req.TotalPrice) > priceTolerance {
		return nil, &PriceMismatchError{Expected: expected, Provided: req.TotalPrice}
	}

	return tour, nil
}

// GetBooking retrieves a booking by ID
func (s *BookingService) GetBooking(bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

// ListBookingsByEmail returns a customer's bookings, newest first
func (s *BookingService) ListBookingsByEmail(email string) ([]models.Booking, error) {
	return s.bookings.GetByEmail(email)
}
