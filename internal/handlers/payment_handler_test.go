package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tourghana/tour-booking-backend/internal/models"
	"github.com/tourghana/tour-booking-backend/internal/services"
)

type stubPaymentService struct {
	initResult   *services.InitializeResult
	verifyResult *services.VerificationResult
	booking      *models.Booking
	err          error
}

func (s *stubPaymentService) InitializePayment(req *models.CreateBookingRequest) (*services.InitializeResult, error) {
	return s.initResult, s.err
}

func (s *stubPaymentService) VerifyPayment(reference string) (*services.VerificationResult, error) {
	return s.verifyResult, s.err
}

func (s *stubPaymentService) PaymentStatus(bookingID string) (*models.Booking, error) {
	return s.booking, s.err
}

func paymentRouter(svc *stubPaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewPaymentHandler(svc, testLogger())

	router := gin.New()
	router.POST("/api/payments/initialize", handler.InitializePayment)
	router.GET("/api/payments/verify/:reference", handler.VerifyPayment)
	router.GET("/api/payments/status/:bookingId", handler.PaymentStatus)
	return router
}

func TestInitializePaymentEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &stubPaymentService{initResult: &services.InitializeResult{
			BookingID:        "booking-1",
			Reference:        "TG_1756000000000_a1b2c3d4",
			AuthorizationURL: "https://checkout.paystack.com/abc",
		}}
		router := paymentRouter(svc)

		w := postJSON(router, "/api/payments/initialize", map[string]interface{}{
			"name": "Kwame", "email": "kwame@example.com", "phone": "+233201234567",
			"travelers": 2, "tourId": "tour-1", "tourTitle": "Cape Coast", "totalPrice": 400,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["success"])
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "https://checkout.paystack.com/abc", data["authorizationUrl"])
	})

	t.Run("Validation Failure", func(t *testing.T) {
		svc := &stubPaymentService{err: services.ErrTourUnavailable}
		router := paymentRouter(svc)

		w := postJSON(router, "/api/payments/initialize", map[string]interface{}{"name": "x"})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Tour is not available for booking", body["message"])
	})

	t.Run("Gateway Failure", func(t *testing.T) {
		svc := &stubPaymentService{err: assert.AnError}
		router := paymentRouter(svc)

		w := postJSON(router, "/api/payments/initialize", map[string]interface{}{"name": "x"})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Payment initialization failed. Please try again.", body["message"])
	})
}

func TestVerifyPaymentEndpoint(t *testing.T) {
	t.Run("Paid", func(t *testing.T) {
		svc := &stubPaymentService{verifyResult: &services.VerificationResult{
			Booking: &models.Booking{ID: "booking-1", Status: models.BookingStatusConfirmed},
			Paid:    true,
		}}
		router := paymentRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/payments/verify/TG_x", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Payment verified successfully", body["message"])
	})

	t.Run("Not Completed", func(t *testing.T) {
		svc := &stubPaymentService{verifyResult: &services.VerificationResult{
			Booking:       &models.Booking{ID: "booking-1", PaymentStatus: models.PaymentStatusFailed},
			Paid:          false,
			GatewayStatus: "abandoned",
		}}
		router := paymentRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/payments/verify/TG_x", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Payment not completed", body["message"])
	})

	t.Run("Unknown Reference", func(t *testing.T) {
		svc := &stubPaymentService{err: services.ErrBookingNotFound}
		router := paymentRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/payments/verify/TG_unknown", nil)
		router.ServeHTTP(w, req)

		body := decodeBody(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Booking not found", body["message"])
	})
}

func TestPaymentStatusEndpoint(t *testing.T) {
	svc := &stubPaymentService{booking: &models.Booking{
		ID:            "booking-1",
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		TotalPrice:    400,
	}}
	router := paymentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/payments/status/booking-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "pending", data["paymentStatus"])
	assert.Equal(t, float64(400), data["totalPrice"])
}
