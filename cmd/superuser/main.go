package main

import (
	"flag"
	"fmt"
	"os"

	"savora/internal/database"
	"savora/internal/logger"
	"savora/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Superuser creation error: %v", err)
	}
}

func run() error {
	email := flag.String("email", "", "email address for the superuser")
	password := flag.String("password", "", "password for the superuser")
	name := flag.String("name", "Admin", "display name for the superuser")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		return fmt.Errorf("both -email and -password are required")
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	userService := services.NewUserService(dbManager.DB())
	user, err := userService.CreateSuperuser(*email, *password, *name)
	if err != nil {
		return fmt.Errorf("failed to create superuser: %w", err)
	}

	logger.Get().Infof("Superuser %s created with id %d", user.Email, user.ID)
	return nil
}
