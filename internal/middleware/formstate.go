package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"zaplink/internal/formstate"
)

const formStateKey = "formstate"

// FormState attaches the wizard's session-backed repository to the request.
// It must run after the session middleware.
func FormState(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		c.Locals(formStateKey, formstate.NewSessionRepository(sess))
	}
	return c.Next()
}

// Repository returns the repository attached by FormState, or a throwaway
// in-memory one when the request has no session.
func Repository(c fiber.Ctx) formstate.Repository {
	if repo, ok := c.Locals(formStateKey).(formstate.Repository); ok {
		return repo
	}
	return formstate.NewMemoryRepository()
}

// SessionID returns the session id of the request, or "" without a session.
func SessionID(c fiber.Ctx) string {
	if repo, ok := c.Locals(formStateKey).(*formstate.SessionRepository); ok {
		return repo.ID()
	}
	return ""
}

// SecurityHeaders sets headers every HTML response should carry.
func SecurityHeaders(c fiber.Ctx) error {
	c.Set("X-Content-Type-Options", "nosniff")
	c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	c.Set("X-Frame-Options", "DENY")
	return c.Next()
}
