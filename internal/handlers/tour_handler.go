package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tourghana/tour-booking-backend/internal/config"
	"github.com/tourghana/tour-booking-backend/internal/models"
)

// defaultPageSize matches the catalog grid on the frontend
const defaultPageSize = 8

// TourStore is the tour persistence surface the handler needs
type TourStore interface {
	Create(tour *models.Tour) error
	GetByID(tourID string) (*models.Tour, error)
	List(filter models.TourListFilter) ([]models.Tour, int64, error)
	GetFeatured(limit int) ([]models.Tour, error)
	Update(tourID string, req *models.UpdateTourRequest) error
	Delete(tourID string) error
	AddReview(tourID string, review *models.Review) error
}

// TourHandler handles tour catalog operations
type TourHandler struct {
	tours  TourStore
	upload config.UploadConfig
	logger *logrus.Logger
}

// NewTourHandler creates a new TourHandler
func NewTourHandler(tours TourStore, upload config.UploadConfig, logger *logrus.Logger) *TourHandler {
	return &TourHandler{
		tours:  tours,
		upload: upload,
		logger: logger,
	}
}

// ListTours returns a catalog page with the pagination envelope
func (h *TourHandler) ListTours(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 || limit > 100 {
		limit = defaultPageSize
	}

	filter := models.TourListFilter{Page: page, Limit: limit}
	if status := c.Query("status"); status != "" {
		filter.Status = models.TourStatus(status)
	}
	if featured := c.Query("featured"); featured != "" {
		value := featured == "true"
		filter.Featured = &value
	}

	tours, total, err := h.tours.List(filter)
	if err != nil {
		h.logger.WithField("error", err).Error("Failed to list tours")
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(tours),
		"total":      total,
		"pagination": models.NewPagination(page, limit, total),
		"data":       tours,
	})
}

// GetTour returns a single tour with its reviews
func (h *TourHandler) GetTour(c *gin.Context) {
	tour, err := h.tours.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			fail(c, "Tour not found")
			return
		}
		h.logger.WithField("error", err).Error("Failed to get tour")
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": tour})
}

// GetFeaturedTours returns the active featured tours
func (h *TourHandler) GetFeaturedTours(c *gin.Context) {
	tours, err := h.tours.GetFeatured(defaultPageSize)
	if err != nil {
		h.logger.WithField("error", err).Error("Failed to get featured tours")
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(tours),
		"data":    tours,
	})
}

// CreateTour creates a tour from a multipart form (admin)
func (h *TourHandler) CreateTour(c *gin.Context) {
	req := models.CreateTourRequest{
		Title:       c.PostForm("title"),
		City:        c.PostForm("city"),
		Description: c.PostForm("description"),
	}
	req.Distance, _ = strconv.ParseFloat(c.PostForm("distance"), 64)
	req.Price, _ = strconv.ParseFloat(c.PostForm("price"), 64)
	req.MaxGroupSize, _ = strconv.Atoi(c.PostForm("maxGroupSize"))
	req.Featured = c.PostForm("featured") == "true"
	req.AvailableDates = splitDates(c.PostForm("availableDates"))

	if err := req.Validate(); err != nil {
		fail(c, err.Error())
		return
	}

	photo, err := h.savePhoto(c)
	if err != nil {
		fail(c, err.Error())
		return
	}

	tour := &models.Tour{
		Title:          req.Title,
		City:           req.City,
		Distance:       req.Distance,
		Price:          req.Price,
		MaxGroupSize:   req.MaxGroupSize,
		Description:    req.Description,
		AvailableDates: req.AvailableDates,
		Photo:          photo,
		Featured:       req.Featured,
		Status:         models.TourStatusActive,
	}

	if err := h.tours.Create(tour); err != nil {
		h.logger.WithField("error", err).Error("Failed to create tour")
		serverError(c)
		return
	}

	tour.Reviews = []models.Review{}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": tour})
}

// updatableTourFields is the allow-list for tour updates. Anything else in
// the form is rejected rather than ignored, so a client cannot silently try
// to write reviews, ratings or identifiers.
var updatableTourFields = map[string]bool{
	"title":          true,
	"city":           true,
	"distance":       true,
	"price":          true,
	"maxGroupSize":   true,
	"description":    true,
	"availableDates": true,
	"featured":       true,
	"status":         true,
}

// UpdateTour applies an allow-listed partial update (admin)
func (h *TourHandler) UpdateTour(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		fail(c, "Invalid form data")
		return
	}

	form := c.Request.MultipartForm
	for key := range form.Value {
		if !updatableTourFields[key] {
			fail(c, fmt.Sprintf("Field '%s' cannot be updated", key))
			return
		}
	}

	req := &models.UpdateTourRequest{}
	if v, ok := formValue(form.Value, "title"); ok {
		req.Title = &v
	}
	if v, ok := formValue(form.Value, "city"); ok {
		req.City = &v
	}
	if v, ok := formValue(form.Value, "description"); ok {
		req.Description = &v
	}
	if v, ok := formValue(form.Value, "distance"); ok {
		distance, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fail(c, "distance must be a number")
			return
		}
		req.Distance = &distance
	}
	if v, ok := formValue(form.Value, "price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fail(c, "price must be a number")
			return
		}
		req.Price = &price
	}
	if v, ok := formValue(form.Value, "maxGroupSize"); ok {
		size, err := strconv.Atoi(v)
		if err != nil {
			fail(c, "maxGroupSize must be a number")
			return
		}
		req.MaxGroupSize = &size
	}
	if v, ok := formValue(form.Value, "availableDates"); ok {
		req.AvailableDates = splitDates(v)
	}
	if v, ok := formValue(form.Value, "featured"); ok {
		featured := v == "true"
		req.Featured = &featured
	}
	if v, ok := formValue(form.Value, "status"); ok {
		status := models.TourStatus(v)
		req.Status = &status
	}

	if _, hasPhoto := c.Request.MultipartForm.File["photo"]; hasPhoto {
		photo, err := h.savePhoto(c)
		if err != nil {
			fail(c, err.Error())
			return
		}
		req.Photo = &photo
	}

	if err := req.Validate(); err != nil {
		fail(c, err.Error())
		return
	}
	if req.IsEmpty() {
		fail(c, "No fields to update")
		return
	}

	tourID := c.Param("id")
	if err := h.tours.Update(tourID, req); err != nil {
		if strings.Contains(err.Error(), "tour not found") {
			fail(c, "Tour not found")
			return
		}
		h.logger.WithField("error", err).Error("Failed to update tour")
		serverError(c)
		return
	}

	tour, err := h.tours.GetByID(tourID)
	if err != nil {
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": tour})
}

// DeleteTour removes a tour and its reviews (admin)
func (h *TourHandler) DeleteTour(c *gin.Context) {
	if err := h.tours.Delete(c.Param("id")); err != nil {
		if strings.Contains(err.Error(), "tour not found") {
			fail(c, "Tour not found")
			return
		}
		h.logger.WithField("error", err).Error("Failed to delete tour")
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Tour deleted successfully"})
}

// AddReview appends a review to a tour (authenticated users)
func (h *TourHandler) AddReview(c *gin.Context) {
	var req models.AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		fail(c, err.Error())
		return
	}

	tourID := c.Param("id")
	if _, err := h.tours.GetByID(tourID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			fail(c, "Tour not found")
			return
		}
		serverError(c)
		return
	}

	review := &models.Review{
		Name:    req.Name,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := h.tours.AddReview(tourID, review); err != nil {
		h.logger.WithField("error", err).Error("Failed to add review")
		serverError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": review})
}

// savePhoto stores an uploaded tour image and returns its public path.
// A missing file is not an error; the photo simply stays empty.
func (h *TourHandler) savePhoto(c *gin.Context) (string, error) {
	file, err := c.FormFile("photo")
	if err != nil {
		return "", nil
	}

	if file.Size > int64(h.upload.MaxSizeMB)*1024*1024 {
		return "", fmt.Errorf("image must be smaller than %dMB", h.upload.MaxSizeMB)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", fmt.Errorf("unsupported image type: %s", ext)
	}

	name := uuid.New().String() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.upload.Dir, name)); err != nil {
		return "", fmt.Errorf("failed to store image")
	}

	return h.upload.PublicPath + "/" + name, nil
}

func formValue(values map[string][]string, key string) (string, bool) {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func splitDates(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	dates := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			dates = append(dates, trimmed)
		}
	}
	return dates
}
