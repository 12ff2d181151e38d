package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tourghana/tour-booking-backend/internal/models"
)

const tourColumns = `id, title, city, distance, price, max_group_size,
	   description, available_dates, photo, featured, status, avg_rating,
	   created_at, updated_at`

// TourRepository handles database operations for the tours table
type TourRepository struct {
	db DB
}

// NewTourRepository creates a new TourRepository
func NewTourRepository(db DB) *TourRepository {
	return &TourRepository{db: db}
}

// Create creates a new tour
func (r *TourRepository) Create(tour *models.Tour) error {
	query := `
		INSERT INTO tours (
			id, title, city, distance, price, max_group_size,
			description, available_dates, photo, featured, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING created_at, updated_at
	`

	if tour.ID == "" {
		tour.ID = uuid.New().String()
	}
	if tour.Status == "" {
		tour.Status = models.TourStatusActive
	}

	err := r.db.QueryRow(
		query,
		tour.ID, tour.Title, tour.City, tour.Distance, tour.Price,
		tour.MaxGroupSize, tour.Description, pq.Array(tour.AvailableDates),
		tour.Photo, tour.Featured, tour.Status,
	).Scan(&tour.CreatedAt, &tour.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tour: %w", err)
	}

	return nil
}

// GetByID retrieves a tour by ID, with its reviews attached
func (r *TourRepository) GetByID(tourID string) (*models.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE id = $1`

	tour, err := r.scanTour(r.db.QueryRow(query, tourID))
	if err != nil {
		return nil, err
	}

	reviews, err := r.getReviews(tourID)
	if err != nil {
		return nil, err
	}
	tour.Reviews = reviews

	return tour, nil
}

// List retrieves a page of tours matching the filter, newest first,
// together with the total row count for the page envelope
func (r *TourRepository) List(filter models.TourListFilter) ([]models.Tour, int64, error) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		conditions = append(conditions, fmt.Sprintf("featured = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM tours`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(
		`SELECT %s FROM tours%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		tourColumns, where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tours, err := r.scanTours(rows)
	if err != nil {
		return nil, 0, err
	}

	if err := r.attachReviews(tours); err != nil {
		return nil, 0, err
	}

	return tours, total, nil
}

// GetFeatured retrieves active featured tours
func (r *TourRepository) GetFeatured(limit int) ([]models.Tour, error) {
	query := `
		SELECT ` + tourColumns + `
		FROM tours
		WHERE featured = true AND status = 'active'
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tours, err := r.scanTours(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachReviews(tours); err != nil {
		return nil, err
	}

	return tours, nil
}

// Update applies an allow-listed partial update to a tour
func (r *TourRepository) Update(tourID string, req *models.UpdateTourRequest) error {
	setClauses := []string{}
	args := []interface{}{}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Title != nil {
		addSet("title", *req.Title)
	}
	if req.City != nil {
		addSet("city", *req.City)
	}
	if req.Distance != nil {
		addSet("distance", *req.Distance)
	}
	if req.Price != nil {
		addSet("price", *req.Price)
	}
	if req.MaxGroupSize != nil {
		addSet("max_group_size", *req.MaxGroupSize)
	}
	if req.Description != nil {
		addSet("description", *req.Description)
	}
	if req.AvailableDates != nil {
		addSet("available_dates", pq.Array(req.AvailableDates))
	}
	if req.Photo != nil {
		addSet("photo", *req.Photo)
	}
	if req.Featured != nil {
		addSet("featured", *req.Featured)
	}
	if req.Status != nil {
		addSet("status", *req.Status)
	}

	if len(setClauses) == 0 {
		return fmt.Errorf("no fields to update")
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, tourID)
	query := fmt.Sprintf(
		"UPDATE tours SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), len(args),
	)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("tour not found")
	}

	return nil
}

// Delete removes a tour and, via cascade, its reviews
func (r *TourRepository) Delete(tourID string) error {
	result, err := r.db.Exec(`DELETE FROM tours WHERE id = $1`, tourID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("tour not found")
	}

	return nil
}

// AddReview appends a review and recomputes the tour's average rating in the
// same transaction, so the stored average never drifts from the review rows.
func (r *TourRepository) AddReview(tourID string, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	review.TourID = tourID

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(
		`INSERT INTO tour_reviews (id, tour_id, name, rating, comment)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		review.ID, review.TourID, review.Name, review.Rating, review.Comment,
	).Scan(&review.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE tours
		 SET avg_rating = (
			SELECT COALESCE(AVG(rating), 0) FROM tour_reviews WHERE tour_id = $1
		 ),
		 updated_at = NOW()
		 WHERE id = $1`,
		tourID,
	)
	if err != nil {
		return fmt.Errorf("failed to update average rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review: %w", err)
	}

	return nil
}

// Count returns the total number of tours
func (r *TourRepository) Count() (int64, error) {
	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM tours`).Scan(&count)
	return count, err
}

// CountByStatus returns the number of tours in a given status
func (r *TourRepository) CountByStatus(status models.TourStatus) (int64, error) {
	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM tours WHERE status = $1`, status).Scan(&count)
	return count, err
}

func (r *TourRepository) getReviews(tourID string) ([]models.Review, error) {
	query := `
		SELECT id, tour_id, name, rating, comment, created_at
		FROM tour_reviews
		WHERE tour_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var review models.Review
		err := rows.Scan(
			&review.ID, &review.TourID, &review.Name,
			&review.Rating, &review.Comment, &review.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}

// attachReviews loads the reviews for a page of tours in one query
func (r *TourRepository) attachReviews(tours []models.Tour) error {
	if len(tours) == 0 {
		return nil
	}

	ids := make([]string, len(tours))
	index := make(map[string]int, len(tours))
	for i, tour := range tours {
		ids[i] = tour.ID
		index[tour.ID] = i
	}

	query := `
		SELECT id, tour_id, name, rating, comment, created_at
		FROM tour_reviews
		WHERE tour_id = ANY($1)
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var review models.Review
		err := rows.Scan(
			&review.ID, &review.TourID, &review.Name,
			&review.Rating, &review.Comment, &review.CreatedAt,
		)
		if err != nil {
			return err
		}
		if i, ok := index[review.TourID]; ok {
			tours[i].Reviews = append(tours[i].Reviews, review)
		}
	}

	return rows.Err()
}

func (r *TourRepository) scanTour(row scanner) (*models.Tour, error) {
	tour := &models.Tour{}
	var dates pq.StringArray

	err := row.Scan(
		&tour.ID, &tour.Title, &tour.City, &tour.Distance, &tour.Price,
		&tour.MaxGroupSize, &tour.Description, &dates, &tour.Photo,
		&tour.Featured, &tour.Status, &tour.AvgRating,
		&tour.CreatedAt, &tour.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tour.AvailableDates = []string(dates)
	tour.Reviews = []models.Review{}

	return tour, nil
}

func (r *TourRepository) scanTours(rows *sql.Rows) ([]models.Tour, error) {
	tours := []models.Tour{}

	for rows.Next() {
		tour, err := r.scanTour(rows)
		if err != nil {
			return nil, err
		}
		tours = append(tours, *tour)
	}

	return tours, rows.Err()
}
