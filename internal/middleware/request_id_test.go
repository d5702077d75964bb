package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	var seen string
	app.Get("/test", func(c *fiber.Ctx) error {
		seen = GetRequestID(c)
		return c.SendStatus(200)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)

	header := resp.Header.Get("X-Request-ID")
	assert.NotEmpty(t, header)
	assert.Equal(t, header, seen)

	_, err = uuid.Parse(header)
	assert.NoError(t, err)
}

func TestRequestIDPreservesExisting(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "client-supplied-id", resp.Header.Get("X-Request-ID"))
}
