package main

import (
	"fmt"
	"log"

	_ "github.com/getjaleel/tax-manager/docs"
	"github.com/getjaleel/tax-manager/internal/config"
	"github.com/getjaleel/tax-manager/internal/database"
	"github.com/getjaleel/tax-manager/internal/extraction"
	"github.com/getjaleel/tax-manager/internal/handler"
	"github.com/getjaleel/tax-manager/internal/middleware"
	"github.com/getjaleel/tax-manager/internal/ocr"
	"github.com/getjaleel/tax-manager/internal/repository"
	"github.com/getjaleel/tax-manager/internal/server"
	"github.com/getjaleel/tax-manager/internal/service"
	"github.com/getjaleel/tax-manager/internal/storage"
)

// @title Tax Manager API
// @version 1.0
// @description Invoice OCR extraction, GST tracking and tax calculations for Australian sole traders
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to PostgreSQL
	log.Println("Connecting to database...")
	db, err := database.NewPostgresDB(cfg.PostgresURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := repository.NewPostgresInvoiceRepository(db.GetPool())
	taxRepo := repository.NewPostgresTaxRepository(db.GetPool())
	userRepo := repository.NewPostgresUserRepository(db.GetPool())

	// Initialize OCR sidecar client
	ocrClient := ocr.NewClient(&ocr.Config{
		BaseURL: cfg.OCRServiceURL,
		Timeout: cfg.OCRTimeout,
	})
	if err := ocrClient.HealthCheck(); err != nil {
		log.Printf("Warning: OCR sidecar health check failed: %v", err)
	}

	// Initialize S3 uploader. Uploads are optional: without credentials
	// invoices are stored without a file URL.
	var store service.DocumentStore
	s3Uploader, err := storage.NewS3Uploader(&storage.Config{
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		AccessKeySecret: cfg.S3SecretAccessKey,
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
	})
	if err != nil {
		log.Printf("Warning: S3 uploader disabled: %v", err)
	} else {
		store = s3Uploader
	}

	// Build the extraction engine with the default pattern library
	extractor := extraction.NewExtractor(&extraction.Config{})

	// Initialize services
	log.Println("Creating services...")
	invoiceService := service.NewInvoiceService(invoiceRepo, ocrClient, store, extractor, cfg.MaxWorkers)
	taxService := service.NewTaxService(invoiceRepo, taxRepo)
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:           userRepo,
		GoogleClientID:     cfg.GoogleClientID,
		GoogleClientSecret: cfg.GoogleClientSecret,
		GoogleRedirectURL:  cfg.GoogleRedirectURL,
		JWTSecret:          cfg.JWTSecret,
	})

	// Create handlers
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	taxHandler := handler.NewTaxHandler(taxService)
	authHandler := handler.NewAuthHandler(authService)

	// Create and configure server
	log.Println("Configuring server...")
	appServer := server.NewServer(cfg)

	authMiddleware := middleware.AuthMiddleware(authService)
	optionalAuthMiddleware := middleware.OptionalAuthMiddleware(authService)
	router := appServer.GetRouter()
	authHandler.RegisterRoutes(router, authMiddleware)
	invoiceHandler.RegisterRoutes(router, authMiddleware)
	taxHandler.RegisterRoutes(router, authMiddleware, optionalAuthMiddleware)

	// Start server (blocking call)
	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server shutdown complete")
}
