package models

import (
	"errors"
	"time"
)

// TourStatus represents whether a tour is open for booking
type TourStatus string

const (
	TourStatusActive   TourStatus = "active"
	TourStatusInactive TourStatus = "inactive"
)

// Tour represents a bookable travel package
type Tour struct {
	ID             string     `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	City           string     `json:"city" db:"city"`
	Distance       float64    `json:"distance" db:"distance"`
	Price          float64    `json:"price" db:"price"`
	MaxGroupSize   int        `json:"maxGroupSize" db:"max_group_size"`
	Description    string     `json:"description" db:"description"`
	AvailableDates []string   `json:"availableDates" db:"-"`
	Photo          string     `json:"photo" db:"photo"`
	Featured       bool       `json:"featured" db:"featured"`
	Status         TourStatus `json:"status" db:"status"`
	Reviews        []Review   `json:"reviews" db:"-"`
	AvgRating      float64    `json:"avgRating" db:"avg_rating"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsActive reports whether the tour can currently be booked
func (t *Tour) IsActive() bool {
	return t.Status == TourStatusActive
}

// Review is an end-user rating attached to a tour. Reviews are append-only.
type Review struct {
	ID        string    `json:"id" db:"id"`
	TourID    string    `json:"-" db:"tour_id"`
	Name      string    `json:"name" db:"name"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateTourRequest represents the admin request to create a tour.
// The photo path is assigned by the upload handler, never by the client.
type CreateTourRequest struct {
	Title          string
	City           string
	Distance       float64
	Price          float64
	MaxGroupSize   int
	Description    string
	AvailableDates []string
	Featured       bool
}

// Validate validates the create tour request
func (r *CreateTourRequest) Validate() error {
	if r.Title == "" || r.City == "" || r.Description == "" {
		return errors.New("all required fields must be provided")
	}
	if r.Price < 0 {
		return errors.New("price must not be negative")
	}
	if r.MaxGroupSize < 1 {
		return errors.New("maxGroupSize must be at least 1")
	}
	return nil
}

// UpdateTourRequest is an allow-listed partial update. Only the named fields
// can change; reviews, the computed rating and the identifier are
// server-managed and have no counterpart here.
type UpdateTourRequest struct {
	Title          *string
	City           *string
	Distance       *float64
	Price          *float64
	MaxGroupSize   *int
	Description    *string
	AvailableDates []string
	Photo          *string
	Featured       *bool
	Status         *TourStatus
}

// Validate validates the update tour request
func (r *UpdateTourRequest) Validate() error {
	if r.Price != nil && *r.Price < 0 {
		return errors.New("price must not be negative")
	}
	if r.MaxGroupSize != nil && *r.MaxGroupSize < 1 {
		return errors.New("maxGroupSize must be at least 1")
	}
	if r.Status != nil && *r.Status != TourStatusActive && *r.Status != TourStatusInactive {
		return errors.New("status must be active or inactive")
	}
	return nil
}

// IsEmpty reports whether the update carries no changes at all
func (r *UpdateTourRequest) IsEmpty() bool {
	return r.Title == nil && r.City == nil && r.Distance == nil &&
		r.Price == nil && r.MaxGroupSize == nil && r.Description == nil &&
		r.AvailableDates == nil && r.Photo == nil && r.Featured == nil &&
		r.Status == nil
}

// AddReviewRequest represents a review submission
type AddReviewRequest struct {
	Name    string `json:"name"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// Validate validates the review request
func (r *AddReviewRequest) Validate() error {
	if r.Name == "" || r.Rating == 0 {
		return errors.New("name and rating are required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}

// TourListFilter narrows the catalog listing
type TourListFilter struct {
	Status   TourStatus
	Featured *bool
	Page     int
	Limit    int
}

// Pagination is the page envelope returned alongside list results
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"total"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NewPagination derives the page envelope from a total row count
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
