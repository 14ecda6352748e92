package api

import (
	"time"

	"sitechat/internal/api/handlers"
	"sitechat/pkg/auth"
	"sitechat/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	projectHandler *handlers.ProjectHandler,
	ingestionHandler *handlers.IngestionHandler,
	chatHandler *handlers.ChatHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Api-Key",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public widget surface, rate limited per API key.
	chatLimiter := limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if key := c.Get("X-Api-Key"); key != "" {
				return key
			}
			return c.IP()
		},
	})
	widgetLimiter := limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
	})

	v1 := app.Group("/v1")
	v1.Post("/chat", chatLimiter, chatHandler.Chat)
	v1.Get("/widget/config", widgetLimiter, chatHandler.WidgetConfig)

	// Auth
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Authenticated dashboard API.
	api := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	projects := api.Group("/projects")
	projects.Post("/", projectHandler.Create)
	projects.Get("/", projectHandler.List)
	projects.Get("/:id", projectHandler.Get)
	projects.Delete("/:id", projectHandler.Delete)
	projects.Get("/:id/history", projectHandler.History)

	// Crawling is expensive, so the cap is per hour.
	crawlLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: time.Hour,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID, ok := c.Locals("userID").(string); ok && userID != "" {
				return userID
			}
			return c.IP()
		},
	})
	api.Post("/ingestion/crawl", crawlLimiter, ingestionHandler.Crawl)

	return app
}
