package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"supportchat-backend/internal/model"
)

// MessageStore is the durable message log consumed by the router.
// Implemented by repository.MessageRepository.
type MessageStore interface {
	Insert(ctx context.Context, senderID, senderName, senderRole, text string, recipientID *string) (*model.ChatMessage, error)
	ListForParticipant(ctx context.Context, userID string, limit, offset int) ([]model.ChatMessage, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.ChatMessage, error)
}

// UserDirectory is the durable user registry consumed by the router.
// Implemented by repository.UserRepository.
type UserDirectory interface {
	FindOrCreate(ctx context.Context, userID, displayName, role string) (*model.UserRecord, error)
	TouchLastSeen(ctx context.Context, userID string) error
}

var (
	ErrNotJoined         = errors.New("connection has not joined")
	ErrRecipientRequired = errors.New("recipient required for support sends")
)

// History bounds for socket hydration.
const (
	historyLimitUser   = 50
	historyLimitGlobal = 200
)

// Router maps live connections to rooms and fans messages out to the
// right recipients. Regular users get a dedicated room; admin/support
// connections share the admin room and are members of every online
// user's room.
type Router struct {
	store     MessageStore
	directory UserDirectory
	presence  *Presence
	hub       *Hub
}

func NewRouter(store MessageStore, directory UserDirectory, presence *Presence, hub *Hub) *Router {
	return &Router{
		store:     store,
		directory: directory,
		presence:  presence,
		hub:       hub,
	}
}

// HandleJoin resolves the user, assigns a room, registers presence and
// hydrates history. Any failure surfaces as a generic error event on the
// joining connection; state committed before the failure is kept, a
// re-join simply overwrites it.
func (r *Router) HandleJoin(ctx context.Context, connID string, req model.JoinChatRequest) {
	user, err := r.directory.FindOrCreate(ctx, req.UserID, req.UserName, req.UserType)
	if err != nil {
		log.Printf("[Router] join failed for %q: %v", req.UserID, err)
		r.sendError(connID, "Failed to join chat")
		return
	}

	if err := r.completeJoin(ctx, connID, user); err != nil {
		log.Printf("[Router] join failed for %q: %v", user.UserID, err)
		r.sendError(connID, "Failed to join chat")
	}
}

func (r *Router) completeJoin(ctx context.Context, connID string, user *model.UserRecord) error {
	support := model.IsSupportRole(user.Role)
	room := model.UserRoom(user.UserID)
	if support {
		room = model.AdminRoom
	}
	r.hub.Subscribe(connID, room)

	// Support joins the room of every user online right now. Users who
	// join later are back-filled below when their own join runs.
	if support {
		for _, s := range r.presence.List() {
			if !model.IsSupportRole(s.Role) {
				r.hub.Subscribe(connID, s.Room)
			}
		}
	}

	r.presence.Put(&model.Session{
		ConnID:      connID,
		UserID:      user.UserID,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		Room:        room,
	})

	if !support {
		for _, s := range r.presence.List() {
			if model.IsSupportRole(s.Role) {
				r.hub.Subscribe(s.ConnID, room)
			}
		}
		r.hub.BroadcastToRoom(model.AdminRoom, model.NewEvent(model.EventNewUserOnline, model.PresenceChange{
			UserID:    user.UserID,
			UserName:  user.DisplayName,
			Timestamp: time.Now(),
		}), "")
	}

	// Every join refreshes the admin room's roster, so a support
	// connection joining late still learns who is already online.
	r.broadcastRoster()

	r.hub.SendTo(connID, model.NewEvent(model.EventJoinedChat, model.JoinedChat{
		Message: "Successfully joined chat",
		Room:    room,
		User: model.UserSummary{
			UserID:   user.UserID,
			UserName: user.DisplayName,
			UserType: user.Role,
		},
	}))

	var history []model.ChatMessage
	var err error
	if support {
		history, err = r.store.ListAll(ctx, historyLimitGlobal, 0)
	} else {
		history, err = r.store.ListForParticipant(ctx, user.UserID, historyLimitUser, 0)
	}
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if history == nil {
		history = []model.ChatMessage{}
	}
	r.hub.SendTo(connID, model.NewEvent(model.EventMessageHistory, history))
	return nil
}

// HandleSend persists the message, echoes it to the sender and fans it
// out. Persistence failure aborts the whole send; fan-out is best-effort
// once the row is stored.
func (r *Router) HandleSend(ctx context.Context, connID string, req model.SendMessageRequest) {
	sess, ok := r.presence.Get(connID)
	if !ok {
		log.Printf("[Router] send before join on %s: %v", connID, ErrNotJoined)
		r.sendError(connID, "You must join chat first")
		return
	}

	support := model.IsSupportRole(sess.Role)
	var recipient *string
	if req.RecipientID != nil && *req.RecipientID != "" {
		recipient = req.RecipientID
	}
	if support && recipient == nil {
		log.Printf("[Router] support send without recipient on %s: %v", connID, ErrRecipientRequired)
		r.sendError(connID, "recipient required")
		return
	}

	msg, err := r.store.Insert(ctx, sess.UserID, sess.DisplayName, sess.Role, req.Text, recipient)
	if err != nil {
		log.Printf("[Router] persist failed for %s: %v", sess.UserID, err)
		r.sendError(connID, "Failed to send message")
		return
	}

	// Sender sees its own message without waiting for fan-out.
	newMsg := model.NewEvent(model.EventNewMessage, msg)
	r.hub.SendTo(connID, newMsg)

	if support {
		// Targeted reply into the user's room.
		r.hub.BroadcastToRoom(model.UserRoom(*recipient), newMsg, connID)
		return
	}

	// User message goes to the support pool and the user's own room, the
	// latter so other connections sharing that room stay in sync.
	r.hub.BroadcastToRoom(model.AdminRoom, newMsg, connID)
	r.hub.BroadcastToRoom(sess.Room, newMsg, connID)
	r.hub.BroadcastToRoom(model.AdminRoom, model.NewEvent(model.EventUserMessageNotification, model.UserMessageNotification{
		UserID:   sess.UserID,
		UserName: sess.DisplayName,
		Message:  *msg,
	}), connID)
}

// HandleTyping relays a typing indicator to everyone else in the target
// room. Stateless: nothing is persisted, unjoined senders are dropped.
func (r *Router) HandleTyping(connID string, req model.TypingRequest) {
	sess, ok := r.presence.Get(connID)
	if !ok {
		return
	}

	room := model.AdminRoom
	if model.IsSupportRole(sess.Role) {
		if req.RecipientID == nil || *req.RecipientID == "" {
			return
		}
		room = model.UserRoom(*req.RecipientID)
	}

	r.hub.BroadcastToRoom(room, model.NewEvent(model.EventTyping, model.TypingEvent{
		UserID:   sess.UserID,
		UserName: sess.DisplayName,
		IsTyping: req.IsTyping,
	}), connID)
}

// HandleAdminJoinUserChat subscribes a support connection to one user's
// room on demand and streams that user's history back. Requests from
// non-support sessions are ignored. Presence is not touched.
func (r *Router) HandleAdminJoinUserChat(ctx context.Context, connID string, req model.AdminJoinUserChatRequest) {
	sess, ok := r.presence.Get(connID)
	if !ok || !model.IsSupportRole(sess.Role) {
		return
	}

	room := model.UserRoom(req.UserID)
	r.hub.Subscribe(connID, room)

	msgs, err := r.store.ListForParticipant(ctx, req.UserID, historyLimitUser, 0)
	if err != nil {
		log.Printf("[Router] user chat history failed for %q: %v", req.UserID, err)
		r.sendError(connID, "Failed to join user chat")
		return
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}

	r.hub.SendTo(connID, model.NewEvent(model.EventUserChatHistory, model.UserChatHistory{
		UserID:   req.UserID,
		Messages: msgs,
	}))
	r.hub.SendTo(connID, model.NewEvent(model.EventJoinedUserChat, model.JoinedUserChat{
		UserID: req.UserID,
		Room:   room,
	}))
}

// HandleDisconnect drops the session and, for regular users, updates the
// durable last-seen stamp and tells the support pool. Idempotent: a
// connection that never joined or was already removed produces nothing.
func (r *Router) HandleDisconnect(connID string) {
	sess, ok := r.presence.Remove(connID)
	if !ok {
		return
	}
	log.Printf("[Router] %s left (%s)", sess.DisplayName, sess.Role)

	if model.IsSupportRole(sess.Role) {
		return
	}

	// Off the critical path: the connection is already gone, a failure
	// here is only worth a log line.
	go func(userID string) {
		if err := r.directory.TouchLastSeen(context.Background(), userID); err != nil {
			log.Printf("[Router] last-seen update failed for %q: %v", userID, err)
		}
	}(sess.UserID)

	r.hub.BroadcastToRoom(model.AdminRoom, model.NewEvent(model.EventUserOffline, model.PresenceChange{
		UserID:    sess.UserID,
		UserName:  sess.DisplayName,
		Timestamp: time.Now(),
	}), "")
	r.broadcastRoster()
}

// broadcastRoster pushes the current set of online regular users to the
// admin room, each exactly once.
func (r *Router) broadcastRoster() {
	roster := make([]model.OnlineUser, 0)
	for _, s := range r.presence.List() {
		if model.IsSupportRole(s.Role) {
			continue
		}
		roster = append(roster, model.OnlineUser{
			UserID:   s.UserID,
			UserName: s.DisplayName,
			Room:     s.Room,
		})
	}
	r.hub.BroadcastToRoom(model.AdminRoom, model.NewEvent(model.EventOnlineUsers, roster), "")
}

func (r *Router) sendError(connID, message string) {
	r.hub.SendTo(connID, model.NewEvent(model.EventError, model.ErrorEvent{Message: message}))
}
