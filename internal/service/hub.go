package service

import (
	"encoding/json"
	"log"
	"sync"

	"supportchat-backend/internal/model"

	"github.com/gofiber/contrib/websocket"
)

// Client is one live websocket connection. The hub only ever touches the
// Send channel; the handler's writer goroutine drains it onto the socket.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// Hub owns the connection set and the subscription relation
// (connection x room). Delivery is best-effort: a client whose send
// buffer is full is skipped, never waited on.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // conn id -> client
	rooms   map[string]map[string]*Client // room -> conn id -> client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	total := len(h.clients)
	h.mu.Unlock()
	log.Printf("[Hub] %s connected (total: %d)", c.ID, total)
}

// Unregister drops the client from every room and closes its send
// channel. Safe to call for an unknown connection.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	client, ok := h.clients[connID]
	if ok {
		delete(h.clients, connID)
		for room, members := range h.rooms {
			delete(members, connID)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
		close(client.Send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	if ok {
		log.Printf("[Hub] %s disconnected (total: %d)", connID, total)
	}
}

// Subscribe adds a registered connection to a room. Subscribing twice or
// subscribing an unknown connection is a no-op.
func (h *Hub) Subscribe(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[connID]
	if !ok {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[room] = members
	}
	members[connID] = client
}

// SendTo delivers one event to a single connection.
func (h *Hub) SendTo(connID string, event model.WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[connID]
	if !ok {
		return
	}
	select {
	case client.Send <- data:
	default:
	}
}

// BroadcastToRoom delivers one event to every member of a room, skipping
// excludeConnID when non-empty.
func (h *Hub) BroadcastToRoom(room string, event model.WSEvent, excludeConnID string) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for connID, client := range h.rooms[room] {
		if connID == excludeConnID {
			continue
		}
		select {
		case client.Send <- data:
		default:
		}
	}
}

// RoomCount returns the number of connections subscribed to a room.
func (h *Hub) RoomCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
