package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	api "inbox-backend/cmd/api"
	authdomain "inbox-backend/internal/auth/domain"
	authRepo "inbox-backend/internal/auth/repository"
	authUsecase "inbox-backend/internal/auth/usecase"
	emailUsecase "inbox-backend/internal/email/usecase"
	"inbox-backend/pkg/config"
	"inbox-backend/pkg/database"
	"inbox-backend/pkg/gmail"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("[WARN] Failed to close database: %v", err)
		}
	}()

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.LinkedAccount{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	linkedAccountRepo := authRepo.NewLinkedAccountRepository(db)

	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Printf("[WARN] GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET not set, Google linking will fail")
	}

	// Gmail service backs the link flow, token refresh and the mail client
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI,
		gmail.WithRateLimit(cfg.GmailRPS, cfg.GmailBurst),
	)
	refresher := gmail.NewRefresher(linkedAccountRepo, gmailService)
	gateway := gmail.NewGateway(refresher, gmailService)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, linkedAccountRepo, gmailService, cfg)
	emailUsecaseInstance := emailUsecase.NewEmailUsecase(linkedAccountRepo, gateway, cfg.RecentLimit)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, emailUsecaseInstance, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := handler.Start(ctx, ":"+cfg.Port); err != nil {
		log.Printf("[ERROR] Server error: %v", err)
	}
}
