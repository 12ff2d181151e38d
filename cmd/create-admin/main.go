package main

import (
	"fmt"
	"log"
	"os"

	"github.com/tourghana/tour-booking-backend/internal/config"
	"github.com/tourghana/tour-booking-backend/internal/database"
	"github.com/tourghana/tour-booking-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Creates an administrator account from ADMIN_NAME, ADMIN_EMAIL and
// ADMIN_PASSWORD. Run once after provisioning the database.
func main() {
	name := os.Getenv("ADMIN_NAME")
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")

	if name == "" || email == "" || password == "" {
		log.Fatal("ADMIN_NAME, ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}
	if len(password) < 6 {
		log.Fatal("ADMIN_PASSWORD must be at least 6 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	users := database.NewUserRepository(db)

	if _, err := users.GetByEmail(email); err == nil {
		log.Fatalf("An account with email %s already exists", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BcryptCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := users.Create(admin); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	fmt.Println("Admin account created")
	fmt.Printf("  ID:    %s\n", admin.ID)
	fmt.Printf("  Email: %s\n", admin.Email)
}
