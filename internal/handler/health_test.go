package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestHealth(t *testing.T) {
	app := fiber.New()
	h := NewHealthHandler(nil) // liveness never touches the pool
	app.Get("/health", h.Health)

	res, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("status = %d", res.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["service"] != "supportchat-backend" {
		t.Errorf("unexpected health payload: %+v", body)
	}
	if body["uptime"] == "" {
		t.Error("health payload should report uptime")
	}
}
