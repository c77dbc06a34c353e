package handlers

import (
	"log"

	"kmonitor/internal/models"
	"kmonitor/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const defaultMessageLimit = 50

// ChatHandler handles HTTP requests for the conversation.
type ChatHandler struct {
	service  *services.ChatService
	validate *validator.Validate
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the chat routes with the Fiber app.
func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	chatRoutes := router.Group("/chat")
	chatRoutes.Get("/messages", h.HandleListMessages)
	chatRoutes.Post("/messages", h.HandleAppendMessage)
	chatRoutes.Post("/process", h.HandleProcessMessage)
}

// HandleListMessages returns the caller's most recent messages in
// chronological order. The window defaults to the last 50.
func (h *ChatHandler) HandleListMessages(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultMessageLimit)
	messages, err := h.service.ListMessages(currentUserID(c), limit)
	if err != nil {
		log.Printf("Error listing chat messages: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve messages",
		})
	}
	return c.JSON(messages)
}

// HandleAppendMessage persists a single message without processing it.
func (h *ChatHandler) HandleAppendMessage(c *fiber.Ctx) error {
	var insert models.InsertChatMessage
	if err := c.BodyParser(&insert); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(insert); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid message data",
			"errors":  validationMessages(err),
		})
	}

	message, err := h.service.Append(currentUserID(c), &insert)
	if err != nil {
		log.Printf("Error creating chat message: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create message",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

// ProcessRequest is the body accepted by the chat processing endpoint.
type ProcessRequest struct {
	Content string `json:"content" validate:"required"`
	Type    string `json:"type" validate:"omitempty,oneof=user kmonitor"`
}

// HandleProcessMessage persists the inbound message, runs the responder
// and returns both the stored message and the synthesized reply.
func (h *ChatHandler) HandleProcessMessage(c *fiber.Ctx) error {
	var req ProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid message data",
			"errors":  validationMessages(err),
		})
	}
	if req.Type == "" {
		req.Type = models.MessageTypeUser
	}

	userMessage, aiMessage, err := h.service.ProcessMessage(currentUserID(c), req.Content, req.Type)
	if err != nil {
		log.Printf("Error processing chat message: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not process message",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"userMessage": userMessage,
		"aiMessage":   aiMessage,
	})
}
