package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"zaplink/internal/models"
)

// Backend is the remote ZapLink API as seen by the handlers.
// *zapapi.Client implements it.
type Backend interface {
	Upload(ctx context.Context, req *models.UploadRequest) (*models.SubmissionResult, error)
	Resolve(ctx context.Context, shortID, password string) (models.Content, error)
	Shorten(ctx context.Context, longURL string) (*models.ShortenResult, error)
}

// Notification kinds understood by the layout's toast area.
const (
	notifySuccess = "success"
	notifyError   = "error"
)

// notify adds a transient notification to template data.
func notify(data fiber.Map, kind, message string) fiber.Map {
	data["Notice"] = fiber.Map{"Kind": kind, "Message": message}
	return data
}
