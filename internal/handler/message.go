package handler

import (
	"context"
	"log"
	"strconv"

	"supportchat-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

// MessageQuerier is the slice of the message store the HTTP surface
// needs. Implemented by repository.MessageRepository.
type MessageQuerier interface {
	ListForParticipant(ctx context.Context, userID string, limit, offset int) ([]model.ChatMessage, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.ChatMessage, error)
	ListConversation(ctx context.Context, userID1, userID2 string) ([]model.ChatMessage, error)
	DeleteByID(ctx context.Context, id int64) error
}

type MessageHandler struct {
	store MessageQuerier
}

func NewMessageHandler(store MessageQuerier) *MessageHandler {
	return &MessageHandler{store: store}
}

// GetUserMessages returns history where the user is sender or recipient.
// GET /api/v1/messages/user/:userId?limit=100&skip=0
func (h *MessageHandler) GetUserMessages(c *fiber.Ctx) error {
	userID := c.Params("userId")
	limit := parseBounded(c.Query("limit"), 100, 500)
	skip := parseBounded(c.Query("skip"), 0, 1<<30)

	msgs, err := h.store.ListForParticipant(c.Context(), userID, limit, skip)
	if err != nil {
		log.Printf("[Chat] user history query error: %v", err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "failed to get messages"})
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}

	return c.JSON(fiber.Map{"success": true, "messages": msgs, "count": len(msgs)})
}

// GetAllMessages returns global history for the support side.
// GET /api/v1/messages/all?limit=500&skip=0
func (h *MessageHandler) GetAllMessages(c *fiber.Ctx) error {
	limit := parseBounded(c.Query("limit"), 500, 1000)
	skip := parseBounded(c.Query("skip"), 0, 1<<30)

	msgs, err := h.store.ListAll(c.Context(), limit, skip)
	if err != nil {
		log.Printf("[Chat] all history query error: %v", err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "failed to get messages"})
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}

	return c.JSON(fiber.Map{"success": true, "messages": msgs, "count": len(msgs)})
}

// GetConversation returns the exchange between two users, chronological.
// GET /api/v1/messages/conversation/:userId1/:userId2
func (h *MessageHandler) GetConversation(c *fiber.Ctx) error {
	msgs, err := h.store.ListConversation(c.Context(), c.Params("userId1"), c.Params("userId2"))
	if err != nil {
		log.Printf("[Chat] conversation query error: %v", err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "failed to get conversation"})
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}

	return c.JSON(fiber.Map{"success": true, "messages": msgs, "count": len(msgs)})
}

// DeleteMessage removes one message by id.
// DELETE /api/v1/messages/:messageId
func (h *MessageHandler) DeleteMessage(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("messageId"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "invalid message id"})
	}

	if err := h.store.DeleteByID(c.Context(), id); err != nil {
		log.Printf("[Chat] delete error for id=%d: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "failed to delete message"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Message deleted successfully"})
}

// parseBounded parses a positive query integer, falling back and capping.
func parseBounded(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	if v > max {
		return max
	}
	return v
}
