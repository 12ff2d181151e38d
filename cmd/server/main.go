package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tourghana/tour-booking-backend/internal/config"
	"github.com/tourghana/tour-booking-backend/internal/database"
	"github.com/tourghana/tour-booking-backend/internal/handlers"
	"github.com/tourghana/tour-booking-backend/internal/middleware"
	"github.com/tourghana/tour-booking-backend/internal/models"
	"github.com/tourghana/tour-booking-backend/internal/services"
	"github.com/tourghana/tour-booking-backend/pkg/jwt"
	"github.com/tourghana/tour-booking-backend/pkg/paystack"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Tour Ghana Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Make sure the upload directory exists before serving or writing to it
	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		logger.Fatalf("Failed to create upload directory: %v", err)
	}

	// Initialize repositories
	tourRepository := database.NewTourRepository(db)
	bookingRepository := database.NewBookingRepository(db)
	userRepository := database.NewUserRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.TokenExpiry)

	paystackClient := paystack.NewClient(paystack.Config{
		SecretKey: cfg.Paystack.SecretKey,
		BaseURL:   cfg.Paystack.BaseURL,
	})

	bookingService := services.NewBookingService(tourRepository, bookingRepository, logger)
	paymentService := services.NewPaymentService(
		bookingService,
		bookingRepository,
		paystackClient,
		services.PaymentConfig{
			Currency:    cfg.Paystack.Currency,
			CallbackURL: cfg.Server.FrontendURL + "/payment-success",
		},
		logger,
	)
	statsService := services.NewStatsService(tourRepository, bookingRepository, userRepository, logger)
	invoiceService := services.NewInvoiceService(bookingRepository, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	tourHandler := handlers.NewTourHandler(tourRepository, cfg.Upload, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, invoiceService, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)
	authHandler := handlers.NewAuthHandler(userRepository, jwtService, cfg.Security.BcryptCost, logger)
	adminHandler := handlers.NewAdminHandler(statsService, bookingRepository, userRepository, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(middleware.RequestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// Tour photos are served straight from disk
	router.Static(cfg.Upload.PublicPath, cfg.Upload.Dir)

	api := router.Group("/api")
	{
		// Tour catalog (public reads, admin writes)
		tours := api.Group("/tours")
		{
			tours.GET("", tourHandler.ListTours)
			tours.GET("/featured", tourHandler.GetFeaturedTours)
			tours.GET("/:id", tourHandler.GetTour)
			tours.POST("/:id/reviews", middleware.AuthMiddleware(jwtService), tourHandler.AddReview)

			toursAdmin := tours.Group("")
			toursAdmin.Use(middleware.AuthMiddleware(jwtService), middleware.RequireRole(models.RoleAdmin))
			{
				toursAdmin.POST("", tourHandler.CreateTour)
				toursAdmin.PUT("/:id", tourHandler.UpdateTour)
				toursAdmin.DELETE("/:id", tourHandler.DeleteTour)
			}
		}

		// Bookings
		bookings := api.Group("/bookings")
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("/user", bookingHandler.GetUserBookings)
			bookings.GET("/:id/invoice", middleware.AuthMiddleware(jwtService), bookingHandler.GetInvoice)
		}

		// Payments
		payments := api.Group("/payments")
		{
			payments.POST("/initialize", paymentHandler.InitializePayment)
			payments.GET("/verify/:reference", paymentHandler.VerifyPayment)
			payments.GET("/status/:bookingId", paymentHandler.PaymentStatus)
		}

		// Accounts
		api.POST("/user/register", authHandler.Register)
		api.POST("/user/login", authHandler.Login)
		api.POST("/admin/login", authHandler.AdminLogin)

		// Admin panel (all protected)
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtService), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/stats", adminHandler.GetStats)
			admin.GET("/bookings", adminHandler.ListBookings)
			admin.PUT("/bookings/:id/status", adminHandler.UpdateBookingStatus)
			admin.GET("/users", adminHandler.ListUsers)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
