package handlers

import (
	"errors"

	"sitechat/internal/dto"
	"sitechat/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService    *service.ChatService
	projectService *service.ProjectService
	logger         *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, projectService *service.ProjectService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService:    chatService,
		projectService: projectService,
		logger:         logger,
	}
}

// Chat is the public widget endpoint, authenticated by the X-Api-Key
// header alone.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	apiKey := c.Get("X-Api-Key")
	if apiKey == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing API key",
		})
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	resp, err := h.chatService.Chat(c.Context(), apiKey, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAPIKey) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid API key",
			})
		}
		h.logger.Error("Chat request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Chat request failed",
		})
	}

	return c.JSON(resp)
}

// WidgetConfig serves the public widget bootstrap data.
func (h *ChatHandler) WidgetConfig(c *fiber.Ctx) error {
	apiKey := c.Get("X-Api-Key")
	if apiKey == "" {
		apiKey = c.Query("api_key")
	}
	if apiKey == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing API key",
		})
	}

	resp, err := h.projectService.WidgetConfig(c.Context(), apiKey)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAPIKey) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid API key",
			})
		}
		h.logger.Error("Widget config fetch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Widget config fetch failed",
		})
	}

	return c.JSON(resp)
}
