package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/PRIYADHARSANK/Study-Tool/internal/api"
	"github.com/PRIYADHARSANK/Study-Tool/internal/config"
	"github.com/PRIYADHARSANK/Study-Tool/internal/llm"
	"github.com/PRIYADHARSANK/Study-Tool/internal/repository"
	"github.com/PRIYADHARSANK/Study-Tool/internal/service"
	"github.com/PRIYADHARSANK/Study-Tool/internal/speech"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	sessionRepo := repository.NewSessionRepository(db)

	// Initialize model provider
	provider, err := llm.NewProvider(context.Background(), cfg.LLM, logger)
	if err != nil {
		logger.Fatal("Failed to initialize model provider", zap.Error(err))
	}

	// Initialize services
	studyService := service.NewStudyService(
		sessionRepo,
		service.NewIngestService(logger),
		service.NewFlowService(provider, logger),
		service.NewExportService(),
		speech.Noop{},
		logger,
	)

	// Setup router
	router := api.SetupRouter(studyService, logger, api.RouterConfig{
		AllowOrigins:  cfg.CORS.AllowOrigins,
		MaxUploadSize: cfg.Upload.MaxSizeBytes,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting study tool server",
			zap.String("address", cfg.Address()),
			zap.String("provider", cfg.LLM.Provider),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
