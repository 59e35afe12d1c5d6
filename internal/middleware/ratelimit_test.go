package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestRateLimitCapsRequests(t *testing.T) {
	app := fiber.New()
	app.Get("/limited", RateLimit(2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	for i := 0; i < 2; i++ {
		res, err := app.Test(httptest.NewRequest("GET", "/limited", nil))
		if err != nil {
			t.Fatal(err)
		}
		if res.StatusCode != 200 {
			t.Fatalf("request %d status = %d, want 200", i+1, res.StatusCode)
		}
	}

	res, err := app.Test(httptest.NewRequest("GET", "/limited", nil))
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != 429 {
		t.Fatalf("status = %d after exceeding the limit, want 429", res.StatusCode)
	}
}
