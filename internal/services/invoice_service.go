package services

import (
	"bytes"
	"fmt"
	"regexp"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/sirupsen/logrus"
	"github.com/tourghana/tour-booking-backend/internal/models"
)

// InvoiceService renders booking receipts as PDF documents
type InvoiceService struct {
	bookings BookingStore
	logger   *logrus.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(bookings BookingStore, logger *logrus.Logger) *InvoiceService {
	return &InvoiceService{
		bookings: bookings,
		logger:   logger,
	}
}

// GenerateReceipt renders the receipt PDF for a paid booking. Unpaid bookings
// cannot be invoiced.
func (s *InvoiceService) GenerateReceipt(bookingID string) ([]byte, string, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, "", ErrBookingNotFound
	}

	if !booking.IsPaid() {
		return nil, "", ErrPaymentNotConfirmed
	}

	return buildReceiptPDF(booking)
}

func buildReceiptPDF(b *models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	receiptNo := fmt.Sprintf("RCP-%s", safeFilenamePart(b.ID))
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Receipt No : "+receiptNo)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued     : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Name   : %s", b.Name),
		fmt.Sprintf("Email  : %s", b.Email),
		fmt.Sprintf("Phone  : %s", b.Phone),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Booking details:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	desc := fmt.Sprintf("%s - %d traveler(s)", b.TourTitle, b.Travelers)
	pdf.MultiCell(0, 6, desc, "", "", false)
	pdf.Ln(2)

	if b.PaymentReference != nil {
		pdf.Cell(0, 6, "Payment reference : "+*b.PaymentReference)
		pdf.Ln(6)
	}
	if b.PaymentDate != nil {
		pdf.Cell(0, 6, "Paid on           : "+b.PaymentDate.Format("2006-01-02 15:04"))
		pdf.Ln(6)
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total paid: GHS %.2f", b.TotalPrice))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Thank you for booking with us. Please present this receipt at the start of your tour.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%s.pdf", safeFilenamePart(b.ID))
	return buf.Bytes(), filename, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

func safeFilenamePart(s string) string {
	return unsafeFilenameChars.ReplaceAllString(s, "")
}
