package handler

import (
	"context"
	"encoding/json"
	"log"

	"supportchat-backend/internal/model"
	"supportchat-backend/internal/service"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type WSHandler struct {
	hub    *service.Hub
	router *service.Router
}

func NewWSHandler(hub *service.Hub, router *service.Router) *WSHandler {
	return &WSHandler{hub: hub, router: router}
}

func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(h.handleConnection)(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *WSHandler) handleConnection(c *websocket.Conn) {
	client := &service.Client{
		ID:   uuid.NewString(),
		Conn: c,
		Send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer func() {
		h.router.HandleDisconnect(client.ID)
		h.hub.Unregister(client.ID)
	}()

	// Writer goroutine
	go func() {
		defer c.Close()
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	// Reader loop: one event at a time, so a connection's own events are
	// handled in the order received.
	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			break
		}

		var event model.WSEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			log.Printf("[Ws] dropping malformed frame from %s", client.ID)
			continue
		}
		h.dispatch(client.ID, event)
	}
}

func (h *WSHandler) dispatch(connID string, event model.WSEvent) {
	ctx := context.Background()

	switch event.Type {
	case model.EventJoinChat:
		var req model.JoinChatRequest
		if !decode(connID, event.Data, &req) {
			return
		}
		h.router.HandleJoin(ctx, connID, req)

	case model.EventSendMessage:
		var req model.SendMessageRequest
		if !decode(connID, event.Data, &req) {
			return
		}
		h.router.HandleSend(ctx, connID, req)

	case model.EventTyping:
		var req model.TypingRequest
		if !decode(connID, event.Data, &req) {
			return
		}
		h.router.HandleTyping(connID, req)

	case model.EventAdminJoinUserChat:
		var req model.AdminJoinUserChatRequest
		if !decode(connID, event.Data, &req) {
			return
		}
		h.router.HandleAdminJoinUserChat(ctx, connID, req)

	default:
		log.Printf("[Ws] unknown event type %q from %s", event.Type, connID)
	}
}

func decode(connID string, data json.RawMessage, dst any) bool {
	if len(data) == 0 {
		log.Printf("[Ws] dropping event with empty payload from %s", connID)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("[Ws] dropping undecodable payload from %s: %v", connID, err)
		return false
	}
	return true
}
