package handlers

import (
	"github.com/gofiber/fiber/v3"

	"zaplink/internal/config"
	"zaplink/internal/registry"
)

// PageHandler serves the static content pages.
type PageHandler struct {
	cfg   *config.Config
	types *registry.Registry
}

// NewPageHandler creates a new page handler.
func NewPageHandler(cfg *config.Config, types *registry.Registry) *PageHandler {
	return &PageHandler{cfg: cfg, types: types}
}

// Index lists the content types a zap can be created from.
func (h *PageHandler) Index(c fiber.Ctx) error {
	return c.Render("index", MergeBranding(fiber.Map{
		"Title": "Home",
		"Types": h.types.Home(),
	}, h.cfg))
}

// HowItWorks explains the three steps.
func (h *PageHandler) HowItWorks(c fiber.Ctx) error {
	return c.Render("how_it_works", MergeBranding(fiber.Map{
		"Title": "How It Works",
	}, h.cfg))
}

// About describes the project.
func (h *PageHandler) About(c fiber.Ctx) error {
	return c.Render("about", MergeBranding(fiber.Map{
		"Title": "About",
	}, h.cfg))
}
