package services

import (
	"github.com/sirupsen/logrus"
	"github.com/tourghana/tour-booking-backend/internal/models"
)

// StatsTourStore provides tour counts for the dashboard
type StatsTourStore interface {
	Count() (int64, error)
	CountByStatus(status models.TourStatus) (int64, error)
}

// StatsBookingStore provides booking aggregates for the dashboard
type StatsBookingStore interface {
	Count() (int64, error)
	CountByStatus(status models.BookingStatus) (int64, error)
	TotalRevenue() (float64, error)
	GetRecent(limit int) ([]models.Booking, error)
}

// StatsUserStore provides account counts for the dashboard
type StatsUserStore interface {
	CountByRole(role models.Role) (int64, error)
}

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	TotalTours        int64            `json:"totalTours"`
	ActiveTours       int64            `json:"activeTours"`
	TotalBookings     int64            `json:"totalBookings"`
	PendingBookings   int64            `json:"pendingBookings"`
	ConfirmedBookings int64            `json:"confirmedBookings"`
	CancelledBookings int64            `json:"cancelledBookings"`
	TotalRevenue      float64          `json:"totalRevenue"`
	TotalUsers        int64            `json:"totalUsers"`
	RecentBookings    []models.Booking `json:"recentBookings"`
}

// StatsService assembles admin dashboard aggregates
type StatsService struct {
	tours    StatsTourStore
	bookings StatsBookingStore
	users    StatsUserStore
	logger   *logrus.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(tours StatsTourStore, bookings StatsBookingStore, users StatsUserStore, logger *logrus.Logger) *StatsService {
	return &StatsService{
		tours:    tours,
		bookings: bookings,
		users:    users,
		logger:   logger,
	}
}

// recentBookingCount bounds the dashboard's recent activity list
const recentBookingCount = 5

// GetDashboardStats collects the dashboard aggregates. Revenue only counts
// confirmed bookings.
func (s *StatsService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalTours, err = s.tours.Count(); err != nil {
		return nil, err
	}
	if stats.ActiveTours, err = s.tours.CountByStatus(models.TourStatusActive); err != nil {
		return nil, err
	}
	if stats.TotalBookings, err = s.bookings.Count(); err != nil {
		return nil, err
	}
	if stats.PendingBookings, err = s.bookings.CountByStatus(models.BookingStatusPending); err != nil {
		return nil, err
	}
	if stats.ConfirmedBookings, err = s.bookings.CountByStatus(models.BookingStatusConfirmed); err != nil {
		return nil, err
	}
	if stats.CancelledBookings, err = s.bookings.CountByStatus(models.BookingStatusCancelled); err != nil {
		return nil, err
	}
	if stats.TotalRevenue, err = s.bookings.TotalRevenue(); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.users.CountByRole(models.RoleUser); err != nil {
		return nil, err
	}
	if stats.RecentBookings, err = s.bookings.GetRecent(recentBookingCount); err != nil {
		return nil, err
	}

	return stats, nil
}
