package model

import (
	"encoding/json"
	"time"
)

// WSEvent is the wire envelope for every websocket frame, inbound and
// outbound.
type WSEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound event types.
const (
	EventJoinChat          = "join-chat"
	EventSendMessage       = "send-message"
	EventTyping            = "typing"
	EventAdminJoinUserChat = "admin-join-user-chat"
)

// Outbound event types.
const (
	EventJoinedChat              = "joined-chat"
	EventMessageHistory          = "message-history"
	EventNewMessage              = "new-message"
	EventUserMessageNotification = "user-message-notification"
	EventNewUserOnline           = "new-user-online"
	EventUserOffline             = "user-offline"
	EventOnlineUsers             = "online-users"
	EventUserChatHistory         = "user-chat-history"
	EventJoinedUserChat          = "joined-user-chat"
	EventError                   = "error"
)

// NewEvent wraps a payload into the wire envelope.
func NewEvent(eventType string, payload any) WSEvent {
	data, err := json.Marshal(payload)
	if err != nil {
		return WSEvent{Type: eventType}
	}
	return WSEvent{Type: eventType, Data: data}
}

type JoinChatRequest struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	UserType string `json:"user_type"`
}

type SendMessageRequest struct {
	Text        string  `json:"text"`
	RecipientID *string `json:"recipient_id"`
}

type TypingRequest struct {
	IsTyping    bool    `json:"is_typing"`
	RecipientID *string `json:"recipient_id"`
}

type AdminJoinUserChatRequest struct {
	UserID string `json:"user_id"`
}

type UserSummary struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	UserType string `json:"user_type"`
}

type JoinedChat struct {
	Message string      `json:"message"`
	Room    string      `json:"room"`
	User    UserSummary `json:"user"`
}

type UserMessageNotification struct {
	UserID   string      `json:"user_id"`
	UserName string      `json:"user_name"`
	Message  ChatMessage `json:"message"`
}

type TypingEvent struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	IsTyping bool   `json:"is_typing"`
}

// PresenceChange is the payload of new-user-online and user-offline.
type PresenceChange struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Timestamp time.Time `json:"timestamp"`
}

type UserChatHistory struct {
	UserID   string        `json:"user_id"`
	Messages []ChatMessage `json:"messages"`
}

type JoinedUserChat struct {
	UserID string `json:"user_id"`
	Room   string `json:"room"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}
