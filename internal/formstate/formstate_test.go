package formstate

import (
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()

	_, ok := repo.Get(KeyQRName)
	assert.False(t, ok)

	repo.Set(KeyQRName, "Quarterly report")
	repo.Set(KeySelfDestruct, "true")

	v, ok := repo.Get(KeyQRName)
	require.True(t, ok)
	assert.Equal(t, "Quarterly report", v)
	assert.Equal(t, 2, repo.Len())

	repo.Clear()
	assert.Equal(t, 0, repo.Len())
}

func TestSessionRepositoryPersistsAcrossRequests(t *testing.T) {
	app := fiber.New()
	sessionMiddleware, _ := session.NewWithStore(session.Config{CookieHTTPOnly: true})
	app.Use(sessionMiddleware)

	app.Post("/set", func(c fiber.Ctx) error {
		repo := NewSessionRepository(session.FromContext(c))
		repo.Set(KeyQRName, "Menu")
		repo.Set(KeyContentType, "pdf")
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/get", func(c fiber.Ctx) error {
		repo := NewSessionRepository(session.FromContext(c))
		v, _ := repo.Get(KeyQRName)
		return c.SendString(v)
	})
	app.Post("/clear", func(c fiber.Ctx) error {
		repo := NewSessionRepository(session.FromContext(c))
		repo.Clear()
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(mustRequest(t, http.MethodPost, "/set"))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	assert.Equal(t, "Menu", get(t, app, cookies))

	req := mustRequest(t, http.MethodPost, "/clear")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	_, err = app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "", get(t, app, cookies))
}

func get(t *testing.T, app *fiber.App, cookies []*http.Cookie) string {
	t.Helper()
	req := mustRequest(t, http.MethodGet, "/get")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func mustRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, target, nil)
	require.NoError(t, err)
	return req
}
