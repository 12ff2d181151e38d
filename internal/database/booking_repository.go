package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/tourghana/tour-booking-backend/internal/models"
)

const bookingColumns = `id, name, email, phone, travelers, special_requests,
	   tour_id, tour_title, total_price, status, payment_status,
	   payment_reference, paystack_reference, payment_amount, payment_date,
	   created_at`

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create creates a new booking
func (r *BookingRepository) Create(booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, name, email, phone, travelers, special_requests,
			tour_id, tour_title, total_price, status, payment_status,
			payment_reference, paystack_reference, payment_amount
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
		RETURNING created_at
	`

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		booking.ID, booking.Name, booking.Email, booking.Phone,
		booking.Travelers, booking.SpecialRequests,
		booking.TourID, booking.TourTitle, booking.TotalPrice,
		booking.Status, booking.PaymentStatus,
		booking.PaymentReference, booking.PaystackReference, booking.PaymentAmount,
	).Scan(&booking.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanBooking(r.db.QueryRow(query, bookingID))
}

// GetByReference retrieves a booking by either the locally generated payment
// reference or the gateway's own reference. Both are matched because the
// gateway reference is assigned in a second phase after initialization.
func (r *BookingRepository) GetByReference(reference string) (*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE payment_reference = $1 OR paystack_reference = $1
	`
	return r.scanBooking(r.db.QueryRow(query, reference))
}

// GetByEmail retrieves all bookings for an email address, newest first
func (r *BookingRepository) GetByEmail(email string) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE email = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// List retrieves bookings page by page, newest first
func (r *BookingRepository) List(limit, offset int) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// MarkPaid moves a booking to (confirmed, paid) and records the payment date,
// the settled amount and the gateway's canonical reference. The payment_status
// guard keeps a repeated verification from overwriting the original payment
// date.
func (r *BookingRepository) MarkPaid(bookingID, gatewayReference string, amount float64) error {
	query := `
		UPDATE bookings
		SET payment_status = 'paid',
			status = 'confirmed',
			payment_date = NOW(),
			paystack_reference = $2,
			payment_amount = $3
		WHERE id = $1
		  AND payment_status != 'paid'
	`

	result, err := r.db.Exec(query, bookingID, gatewayReference, amount)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// MarkPaymentFailed records a failed verification; booking status stays put
func (r *BookingRepository) MarkPaymentFailed(bookingID string) error {
	query := `UPDATE bookings SET payment_status = 'failed' WHERE id = $1`

	result, err := r.db.Exec(query, bookingID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateStatus updates the booking status (administrative path)
func (r *BookingRepository) UpdateStatus(bookingID string, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = $2 WHERE id = $1`

	result, err := r.db.Exec(query, bookingID, status)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes a booking. Used as the compensating action when payment
// initialization fails after the pending record was written.
func (r *BookingRepository) Delete(bookingID string) error {
	result, err := r.db.Exec(`DELETE FROM bookings WHERE id = $1`, bookingID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Count returns the total number of bookings
func (r *BookingRepository) Count() (int64, error) {
	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bookings`).Scan(&count)
	return count, err
}

// CountByStatus returns the number of bookings in a given status
func (r *BookingRepository) CountByStatus(status models.BookingStatus) (int64, error) {
	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bookings WHERE status = $1`, status).Scan(&count)
	return count, err
}

// TotalRevenue returns the sum of total_price over confirmed bookings
func (r *BookingRepository) TotalRevenue() (float64, error) {
	query := `
		SELECT COALESCE(SUM(total_price), 0)
		FROM bookings
		WHERE status = 'confirmed'
	`

	var total float64
	err := r.db.QueryRow(query).Scan(&total)
	return total, err
}

// GetRecent returns the most recently created bookings
func (r *BookingRepository) GetRecent(limit int) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// requireRow converts a zero-row update into a not-found error
func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("booking not found")
	}
	return nil
}

func (r *BookingRepository) scanBooking(row scanner) (*models.Booking, error) {
	booking := &models.Booking{}
	var specialRequests sql.NullString
	var paymentReference sql.NullString
	var paystackReference sql.NullString
	var paymentAmount sql.NullFloat64
	var paymentDate sql.NullTime

	err := row.Scan(
		&booking.ID, &booking.Name, &booking.Email, &booking.Phone,
		&booking.Travelers, &specialRequests,
		&booking.TourID, &booking.TourTitle, &booking.TotalPrice,
		&booking.Status, &booking.PaymentStatus,
		&paymentReference, &paystackReference, &paymentAmount, &paymentDate,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if specialRequests.Valid {
		booking.SpecialRequests = &specialRequests.String
	}
	if paymentReference.Valid {
		booking.PaymentReference = &paymentReference.String
	}
	if paystackReference.Valid {
		booking.PaystackReference = &paystackReference.String
	}
	if paymentAmount.Valid {
		booking.PaymentAmount = &paymentAmount.Float64
	}
	if paymentDate.Valid {
		booking.PaymentDate = &paymentDate.Time
	}

	return booking, nil
}

func (r *BookingRepository) scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	bookings := []models.Booking{}

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}

	return bookings, rows.Err()
}
