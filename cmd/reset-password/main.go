package main

import (
	"context"
	"flag"
	"log"

	"go-sales-inventory/internal/config"
	"go-sales-inventory/internal/repository"
	"go-sales-inventory/internal/service"
	"go-sales-inventory/pkg/database"
	"go-sales-inventory/pkg/jwt"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	email := flag.String("email", cfg.Auth.AdminEmail, "email of the user to reset")
	password := flag.String("password", "", "new password (min 6 characters)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("usage: reset-password -email user@example.com -password <new password>")
	}

	// 2. Setup Database
	db := database.ConnectDB(cfg.DB)
	defer database.Close(db)

	// 3. Reset
	authService := service.NewAuthService(repository.NewUserRepo(db), jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))
	if err := authService.ResetPassword(context.Background(), *email, *password); err != nil {
		log.Fatalf("Failed to reset password for %s: %v", *email, err)
	}

	log.Printf("Password for %s has been reset", *email)
}
