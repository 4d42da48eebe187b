package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/outreach-tracker/internal/auth"
	"github.com/justsurfingit/outreach-tracker/internal/config"
	"github.com/justsurfingit/outreach-tracker/internal/database"
	"github.com/justsurfingit/outreach-tracker/internal/handlers"
	"github.com/justsurfingit/outreach-tracker/internal/logging"
	"github.com/justsurfingit/outreach-tracker/internal/services"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	defer logging.Setup("[api] ", cfg.LogFile).Close()

	ctx := context.Background()

	// 2. Database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	repo := database.NewApplicationRepository(db)

	// 3. Core services
	llmService, err := services.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal(err)
	}
	appService := services.NewApplicationService(repo)

	// 4. Gmail, optional: actions that send mail fail until it is configured
	var gmailService *gmail.Service
	httpClient, err := auth.GetGmailClient(ctx, cfg.GmailCredentials, cfg.GmailToken)
	if err != nil {
		log.Printf("Gmail disabled: %v", err)
	} else if gmailService, err = gmail.NewService(ctx, option.WithHTTPClient(httpClient)); err != nil {
		log.Printf("Failed to create Gmail Service: %v", err)
		gmailService = nil
	} else {
		log.Println("Gmail Service connected successfully.")
	}
	emailService := services.NewEmailService(gmailService, cfg.GmailSender)
	actionService := services.NewActionService(appService, llmService, emailService)

	// 5. Handlers
	appHandler := handlers.NewApplicationHandler(appService, actionService, cfg.UserID)

	// 6. Router & CORS
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	if cfg.AllowAllOrigins() {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 7. Routes
	r.GET("/health", handlers.HealthCheck)
	appHandler.Register(r)

	log.Printf("Server starting on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}
