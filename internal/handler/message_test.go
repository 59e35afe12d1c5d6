package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"supportchat-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

type fakeQuerier struct {
	msgs      []model.ChatMessage
	err       error
	deletedID int64
}

func (f *fakeQuerier) ListForParticipant(_ context.Context, userID string, limit, offset int) ([]model.ChatMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.ChatMessage
	for _, m := range f.msgs {
		if m.SenderID == userID || (m.RecipientID != nil && *m.RecipientID == userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeQuerier) ListAll(_ context.Context, limit, offset int) ([]model.ChatMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.msgs, nil
}

func (f *fakeQuerier) ListConversation(_ context.Context, userID1, userID2 string) ([]model.ChatMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.msgs, nil
}

func (f *fakeQuerier) DeleteByID(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deletedID = id
	return nil
}

func newTestApp(store *fakeQuerier) *fiber.App {
	app := fiber.New()
	h := NewMessageHandler(store)
	app.Get("/api/v1/messages/user/:userId", h.GetUserMessages)
	app.Get("/api/v1/messages/all", h.GetAllMessages)
	app.Get("/api/v1/messages/conversation/:userId1/:userId2", h.GetConversation)
	app.Delete("/api/v1/messages/:messageId", h.DeleteMessage)
	return app
}

type messagesResponse struct {
	Success  bool                `json:"success"`
	Messages []model.ChatMessage `json:"messages"`
	Count    int                 `json:"count"`
	Error    string              `json:"error"`
}

func decodeBody(t *testing.T, body io.Reader) messagesResponse {
	t.Helper()
	var resp messagesResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	return resp
}

func TestGetUserMessages(t *testing.T) {
	store := &fakeQuerier{msgs: []model.ChatMessage{
		{ID: 1, SenderID: "alice", SenderName: "Alice", Text: "hi", CreatedAt: time.Now()},
		{ID: 2, SenderID: "bob", SenderName: "Bob", Text: "other", CreatedAt: time.Now()},
	}}
	app := newTestApp(store)

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/messages/user/alice", nil))
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("status = %d", res.StatusCode)
	}
	resp := decodeBody(t, res.Body)
	if !resp.Success || resp.Count != 1 || resp.Messages[0].SenderID != "alice" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestGetUserMessagesEmpty(t *testing.T) {
	app := newTestApp(&fakeQuerier{})

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/messages/user/ghost", nil))
	if err != nil {
		t.Fatal(err)
	}
	resp := decodeBody(t, res.Body)
	if !resp.Success || resp.Count != 0 || resp.Messages == nil {
		t.Errorf("empty history should still be a JSON array: %+v", resp)
	}
}

func TestGetAllMessagesStoreError(t *testing.T) {
	app := newTestApp(&fakeQuerier{err: errors.New("db down")})

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/messages/all", nil))
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != 500 {
		t.Fatalf("status = %d, want 500", res.StatusCode)
	}
	resp := decodeBody(t, res.Body)
	if resp.Success || resp.Error == "" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestDeleteMessage(t *testing.T) {
	store := &fakeQuerier{}
	app := newTestApp(store)

	res, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/messages/42", nil))
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if store.deletedID != 42 {
		t.Errorf("deleted id = %d, want 42", store.deletedID)
	}
}

func TestDeleteMessageInvalidID(t *testing.T) {
	app := newTestApp(&fakeQuerier{})

	res, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/messages/not-a-number", nil))
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
}
