package handlers

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"zaplink/internal/config"
	"zaplink/internal/validation"
	"zaplink/internal/wizard"
)

// ShortenHandler serves the URL-shortener page.
type ShortenHandler struct {
	cfg     *config.Config
	backend Backend
	logger  zerolog.Logger
}

// NewShortenHandler creates a new shorten handler.
func NewShortenHandler(cfg *config.Config, backend Backend, logger zerolog.Logger) *ShortenHandler {
	return &ShortenHandler{cfg: cfg, backend: backend, logger: logger}
}

// Show renders the empty shortener form.
func (h *ShortenHandler) Show(c fiber.Ctx) error {
	return c.Render("shorten", MergeBranding(fiber.Map{
		"Title": "URL Shortener",
	}, h.cfg))
}

// Shorten asks the backend for a short link to the posted URL.
func (h *ShortenHandler) Shorten(c fiber.Ctx) error {
	longURL := strings.TrimSpace(c.FormValue("url"))
	data := fiber.Map{
		"Title": "URL Shortener",
		"URL":   longURL,
	}

	if ok, _ := validation.ValidateURL(longURL); !ok {
		notify(data, notifyError, wizard.MsgURLInvalid)
		return c.Status(fiber.StatusUnprocessableEntity).Render("shorten", MergeBranding(data, h.cfg))
	}

	result, err := h.backend.Shorten(c.Context(), longURL)
	if err != nil {
		h.logger.Error().Err(err).Msg("shorten failed")
		notify(data, notifyError, strings.Replace(wizard.FailureMessage(err), "Upload", "Shortening", 1))
		return c.Status(fiber.StatusBadGateway).Render("shorten", MergeBranding(data, h.cfg))
	}

	data["ShortURL"] = result.ShortURL
	if validation.IsImageDataURI(result.QRCodeImage) {
		data["QRCode"] = template.URL(result.QRCodeImage)
	}
	data["CustomizeURL"] = "/customize?" + url.Values{
		"shortUrl": {result.ShortURL},
		"name":     {"Short link"},
		"type":     {"url"},
	}.Encode()
	notify(data, notifySuccess, "Short link created.")
	return c.Render("shorten", MergeBranding(data, h.cfg))
}
