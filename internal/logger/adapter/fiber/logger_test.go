package fiber

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/logger"
)

func newTestApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(New(cfg))

	app.Get("/dashboard", func(c *fiber.Ctx) error {
		c.Locals("user", models.User{ID: 7, Status: models.StatusAnimateur})
		return c.SendString("ok")
	})

	app.Get("/checkalive", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	return app
}

func TestMiddlewareSetsPerformanceHeader(t *testing.T) {
	app := newTestApp(Config{Config: logger.Log{}})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/dashboard", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Performance"))
}

// the handler stores the authenticated member in locals; logging it must not
// disturb the response
func TestMiddlewareWithAuthenticatedMember(t *testing.T) {
	app := newTestApp(Config{
		Config:        logger.Log{DisableCheckAlive: true},
		CheckAliveURI: "/checkalive",
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/checkalive", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
