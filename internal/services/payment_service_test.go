package services

import (
	"database/sql"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourghana/tour-booking-backend/internal/models"
	"github.com/tourghana/tour-booking-backend/pkg/paystack"
)

type stubCreator struct {
	booking *models.Booking
	err     error
	gotRef  string
}

func (s *stubCreator) CreateBookingForPayment(req *models.CreateBookingRequest, reference string) (*models.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.gotRef = reference
	booking := *s.booking
	booking.PaymentReference = &reference
	return &booking, nil
}

type stubPaymentStore struct {
	booking     *models.Booking
	deleted     []string
	paid        []string
	failed      []string
	markPaidErr error
	getByRefErr error
	paidAmount  float64
	paidRef     string
}

func (s *stubPaymentStore) GetByID(bookingID string) (*models.Booking, error) {
	if s.booking == nil {
		return nil, sql.ErrNoRows
	}
	return s.booking, nil
}

func (s *stubPaymentStore) GetByReference(reference string) (*models.Booking, error) {
	if s.getByRefErr != nil {
		return nil, s.getByRefErr
	}
	if s.booking == nil {
		return nil, sql.ErrNoRows
	}
	return s.booking, nil
}

func (s *stubPaymentStore) MarkPaid(bookingID, gatewayReference string, amount float64) error {
	if s.markPaidErr != nil {
		return s.markPaidErr
	}
	s.paid = append(s.paid, bookingID)
	s.paidRef = gatewayReference
	s.paidAmount = amount
	return nil
}

func (s *stubPaymentStore) MarkPaymentFailed(bookingID string) error {
	s.failed = append(s.failed, bookingID)
	return nil
}

func (s *stubPaymentStore) Delete(bookingID string) error {
	s.deleted = append(s.deleted, bookingID)
	return nil
}

type stubGateway struct {
	initData  *paystack.InitializeData
	initErr   error
	verify    *paystack.VerifyData
	verifyErr error
	initReq   paystack.InitializeRequest
}

func (s *stubGateway) InitializeTransaction(req paystack.InitializeRequest) (*paystack.InitializeData, error) {
	s.initReq = req
	if s.initErr != nil {
		return nil, s.initErr
	}
	return s.initData, nil
}

func (s *stubGateway) VerifyTransaction(reference string) (*paystack.VerifyData, error) {
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return s.verify, nil
}

func pendingBooking() *models.Booking {
	return &models.Booking{
		ID:            "booking-1",
		Name:          "Kwame Mensah",
		Email:         "kwame@example.com",
		Phone:         "+233201234567",
		Travelers:     2,
		TourID:        "tour-1",
		TourTitle:     "Cape Coast Castle Tour",
		TotalPrice:    400,
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}
}

func newPaymentService(creator *stubCreator, store *stubPaymentStore, gateway *stubGateway) *PaymentService {
	return NewPaymentService(creator, store, gateway, PaymentConfig{
		Currency:    "GHS",
		CallbackURL: "http://localhost:5173/payment/callback",
	}, testLogger())
}

func TestInitializePayment_Success(t *testing.T) {
	creator := &stubCreator{booking: pendingBooking()}
	store := &stubPaymentStore{}
	gateway := &stubGateway{
		initData: &paystack.InitializeData{
			AuthorizationURL: "https://checkout.paystack.com/abc123",
			AccessCode:       "abc123",
		},
	}
	service := newPaymentService(creator, store, gateway)

	result, err := service.InitializePayment(validRequest())
	require.NoError(t, err)
	assert.Equal(t, "booking-1", result.BookingID)
	assert.Equal(t, "https://checkout.paystack.com/abc123", result.AuthorizationURL)

	// reference format: TG_<millis>_<8 hex chars>
	assert.Regexp(t, regexp.MustCompile(`^TG_\d+_[0-9a-f]{8}$`), result.Reference)
	assert.Equal(t, creator.gotRef, result.Reference)

	// amount forwarded to the gateway in minor units
	assert.Equal(t, int64(40000), gateway.initReq.Amount)
	assert.Equal(t, "GHS", gateway.initReq.Currency)
	assert.Equal(t, "kwame@example.com", gateway.initReq.Email)

	assert.Empty(t, store.deleted)
}

func TestInitializePayment_ValidationErrorPassesThrough(t *testing.T) {
	creator := &stubCreator{err: ErrTourNotFound}
	store := &stubPaymentStore{}
	service := newPaymentService(creator, store, &stubGateway{})

	result, err := service.InitializePayment(validRequest())
	assert.ErrorIs(t, err, ErrTourNotFound)
	assert.Nil(t, result)
	assert.Empty(t, store.deleted)
}

func TestInitializePayment_GatewayFailureDeletesBooking(t *testing.T) {
	creator := &stubCreator{booking: pendingBooking()}
	store := &stubPaymentStore{}
	gateway := &stubGateway{initErr: fmt.Errorf("gateway unreachable")}
	service := newPaymentService(creator, store, gateway)

	result, err := service.InitializePayment(validRequest())
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, []string{"booking-1"}, store.deleted)
}

func TestVerifyPayment_Success(t *testing.T) {
	store := &stubPaymentStore{booking: pendingBooking()}
	gateway := &stubGateway{
		verify: &paystack.VerifyData{
			Status:    "success",
			Reference: "TG_1756000000000_a1b2c3d4",
			Amount:    40000,
			PaidAt:    "2026-08-28T10:00:00.000Z",
		},
	}
	service := newPaymentService(&stubCreator{}, store, gateway)

	result, err := service.VerifyPayment("TG_1756000000000_a1b2c3d4")
	require.NoError(t, err)
	assert.True(t, result.Paid)
	assert.Equal(t, models.PaymentStatusPaid, result.Booking.PaymentStatus)
	assert.Equal(t, models.BookingStatusConfirmed, result.Booking.Status)
	require.NotNil(t, result.Booking.PaymentAmount)
	assert.Equal(t, 400.0, *result.Booking.PaymentAmount)
	require.NotNil(t, result.Booking.PaymentDate)
	assert.Equal(t, 2026, result.Booking.PaymentDate.Year())

	assert.Equal(t, []string{"booking-1"}, store.paid)
	assert.Equal(t, 400.0, store.paidAmount)
}

func TestVerifyPayment_AlreadyPaidIsIdempotent(t *testing.T) {
	booking := pendingBooking()
	paidAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	require.NoError(t, booking.MarkPaid("PSK_REF_123", paidAt))

	store := &stubPaymentStore{booking: booking}
	gateway := &stubGateway{verifyErr: fmt.Errorf("should not be called")}
	service := newPaymentService(&stubCreator{}, store, gateway)

	result, err := service.VerifyPayment("TG_1756000000000_a1b2c3d4")
	require.NoError(t, err)
	assert.True(t, result.Paid)
	assert.Empty(t, store.paid)

	// original payment date preserved on re-verification
	require.NotNil(t, result.Booking.PaymentDate)
	assert.Equal(t, paidAt, *result.Booking.PaymentDate)
}

func TestVerifyPayment_GatewayReportsFailure(t *testing.T) {
	store := &stubPaymentStore{booking: pendingBooking()}
	gateway := &stubGateway{
		verify: &paystack.VerifyData{Status: "abandoned", Reference: "TG_x"},
	}
	service := newPaymentService(&stubCreator{}, store, gateway)

	result, err := service.VerifyPayment("TG_x")
	require.NoError(t, err)
	assert.False(t, result.Paid)
	assert.Equal(t, "abandoned", result.GatewayStatus)
	assert.Equal(t, models.PaymentStatusFailed, result.Booking.PaymentStatus)
	assert.Equal(t, models.BookingStatusPending, result.Booking.Status)
	assert.Equal(t, []string{"booking-1"}, store.failed)
}

func TestVerifyPayment_UnknownReference(t *testing.T) {
	service := newPaymentService(&stubCreator{}, &stubPaymentStore{}, &stubGateway{})

	result, err := service.VerifyPayment("TG_unknown")
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Nil(t, result)
}

func TestPaymentStatus(t *testing.T) {
	store := &stubPaymentStore{booking: pendingBooking()}
	service := newPaymentService(&stubCreator{}, store, &stubGateway{})

	booking, err := service.PaymentStatus("booking-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, booking.PaymentStatus)

	store.booking = nil
	booking, err = service.PaymentStatus("missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Nil(t, booking)
}
