// Seeds a demo user and project so the widget can be tried locally
// without going through registration. Prints the project API key.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"sitechat/internal/models"
	"sitechat/internal/repository"
	"sitechat/pkg/auth"
	"sitechat/pkg/config"
	"sitechat/pkg/logger"
	"sitechat/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "demo-password-123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db, appLogger)
	projectRepo := repository.NewProjectRepository(db, appLogger)

	user, err := userRepo.GetByEmail(ctx, demoEmail)
	if err != nil {
		hashed, err := auth.HashPassword(demoPassword)
		if err != nil {
			appLogger.Fatal("Failed to hash password", zap.Error(err))
		}

		now := time.Now()
		user = &models.User{
			ID:        uuid.New(),
			Email:     demoEmail,
			Password:  hashed,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			appLogger.Fatal("Failed to create demo user", zap.Error(err))
		}
		appLogger.Info("Demo user created", zap.String("email", demoEmail))
	}

	projects, err := projectRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		appLogger.Fatal("Failed to list projects", zap.Error(err))
	}
	if len(projects) > 0 {
		fmt.Printf("Demo project already exists\nAPI key: %s\n", projects[0].APIKey)
		return
	}

	now := time.Now()
	project := &models.Project{
		ID:         uuid.New(),
		UserID:     user.ID,
		Name:       "Demo Project",
		Language:   models.LanguageEnglish,
		WebsiteURL: "https://example.com",
		APIKey:     uuid.NewString(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := projectRepo.Create(ctx, project); err != nil {
		appLogger.Fatal("Failed to create demo project", zap.Error(err))
	}

	fmt.Printf("Demo user: %s / %s\nAPI key: %s\n", demoEmail, demoPassword, project.APIKey)
}
