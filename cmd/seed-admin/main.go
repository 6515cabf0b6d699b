package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"visa-center.backend/internal/config"
	"visa-center.backend/internal/domain/entities"
	"visa-center.backend/internal/infrastructure/repositories"
	"visa-center.backend/pkg/crypto"
)

// Seeds the initial admin account from ADMIN_EMAIL / ADMIN_USERNAME /
// ADMIN_PASSWORD. Safe to run repeatedly; an existing account is left
// untouched.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	email := os.Getenv("ADMIN_EMAIL")
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || username == "" || password == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.URL()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()
	userRepo := repositories.NewUserRepository(db)

	exists, err := userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		log.Fatalf("failed to check admin account: %v", err)
	}
	if exists {
		log.Printf("Admin account %s already exists, nothing to do", email)
		return
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin := &entities.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FirstName:    "Admin",
		LastName:     "User",
		Role:         entities.UserRoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatalf("failed to create admin account: %v", err)
	}
	log.Printf("Admin account %s created", email)
}
