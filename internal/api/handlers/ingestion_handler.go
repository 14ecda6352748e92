package handlers

import (
	"errors"

	"sitechat/internal/dto"
	"sitechat/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type IngestionHandler struct {
	ingestionService *service.IngestionService
	logger           *zap.Logger
}

func NewIngestionHandler(ingestionService *service.IngestionService, logger *zap.Logger) *IngestionHandler {
	return &IngestionHandler{
		ingestionService: ingestionService,
		logger:           logger,
	}
}

// Crawl runs synchronously: the response is only sent once every reachable
// page has been fetched and indexed.
func (h *IngestionHandler) Crawl(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.CrawlRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project id",
		})
	}

	resp, err := h.ingestionService.Crawl(c.Context(), userID, projectID, req.WebsiteURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Project not found",
			})
		case errors.Is(err, service.ErrInvalidURL):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Website URL is not allowed",
			})
		default:
			h.logger.Error("Website crawl failed",
				zap.String("project_id", req.ProjectID),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Website crawl failed",
			})
		}
	}

	return c.JSON(resp)
}
