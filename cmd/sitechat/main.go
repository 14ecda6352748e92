package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sitechat/internal/api"
	"sitechat/internal/api/handlers"
	"sitechat/internal/repository"
	"sitechat/internal/service"
	"sitechat/pkg/auth"
	"sitechat/pkg/config"
	"sitechat/pkg/logger"
	"sitechat/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting sitechat service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	projectRepo := repository.NewProjectRepository(db, appLogger)
	docRepo := repository.NewDocumentRepository(db, appLogger)
	chatLogRepo := repository.NewChatLogRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)

	llmService, err := service.NewLLMService(&cfg.OpenAI, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}

	vectorService, err := service.NewVectorService(&cfg.Qdrant, cfg.RAG.PayloadMaxChars, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize vector service", zap.Error(err))
	}

	projectService := service.NewProjectService(projectRepo, appLogger)
	ingestionService := service.NewIngestionService(projectRepo, docRepo, llmService, vectorService, &cfg.Crawler, appLogger)
	chatService := service.NewChatService(projectRepo, chatLogRepo, llmService, llmService, vectorService, &cfg.RAG, appLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	projectHandler := handlers.NewProjectHandler(projectService, chatService, appLogger)
	ingestionHandler := handlers.NewIngestionHandler(ingestionService, appLogger)
	chatHandler := handlers.NewChatHandler(chatService, projectService, appLogger)

	// Setup router
	app := api.SetupRouter(authHandler, projectHandler, ingestionHandler, chatHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
