package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"zaplink/internal/config"
	"zaplink/internal/metrics"
	"zaplink/internal/models"
	"zaplink/internal/resolve"
	"zaplink/internal/validation"
)

// ZapHandler serves short-link visits.
type ZapHandler struct {
	cfg     *config.Config
	backend Backend
	logger  zerolog.Logger
}

// NewZapHandler creates a new zap handler.
func NewZapHandler(cfg *config.Config, backend Backend, logger zerolog.Logger) *ZapHandler {
	return &ZapHandler{cfg: cfg, backend: backend, logger: logger}
}

// View resolves a short link. An ?error= indicator from a previous redirect
// is shown without contacting the backend.
func (h *ZapHandler) View(c fiber.Ctx) error {
	shortID := c.Params("shortId")
	errorParam := c.Query("error")
	if errorParam == "" && !validation.ValidateShortID(shortID) {
		s, _ := resolve.FromErrorParam("notfound")
		return h.respond(c, shortID, s, false)
	}

	m := resolve.NewMachine(h.backend, shortID)
	return h.respond(c, shortID, m.Start(c.Context(), errorParam), errorParam != "")
}

// Unlock retries the resolve with the posted password.
func (h *ZapHandler) Unlock(c fiber.Ctx) error {
	shortID := c.Params("shortId")
	if !validation.ValidateShortID(shortID) {
		return fiber.NewError(fiber.StatusNotFound, resolve.MsgNotFound)
	}

	m := resolve.NewMachine(h.backend, shortID)
	m.Resume()
	return h.respond(c, shortID, m.SubmitPassword(c.Context(), c.FormValue("password")), false)
}

func (h *ZapHandler) respond(c fiber.Ctx, shortID string, s resolve.State, fromParam bool) error {
	switch s.Phase {
	case resolve.Resolved:
		metrics.RecordResolve("resolved")
		return h.deliver(c, shortID, s.Content)
	case resolve.PasswordRequired:
		metrics.RecordResolve("password_required")
		return c.Status(fiber.StatusUnauthorized).Render("zap_password", MergeBranding(fiber.Map{
			"Title":   s.Heading(),
			"Heading": s.Heading(),
			"ShortID": shortID,
			"Message": s.Message,
		}, h.cfg))
	default:
		metrics.RecordResolve(s.ErrorKind.String())
		status := errorStatus(s.ErrorKind)
		if fromParam && s.ErrorKind == resolve.Unknown {
			status = fiber.StatusBadRequest
		}
		return h.renderError(c, status, s)
	}
}

// deliver sends resolved content to the visitor.
func (h *ZapHandler) deliver(c fiber.Ctx, shortID string, content models.Content) error {
	var (
		page []byte
		err  error
	)
	switch v := content.(type) {
	case models.RedirectContent:
		if ok, _ := validation.ValidateURL(v.URL); !ok {
			h.logger.Warn().Str("short_id", shortID).Msg("backend returned a non-http redirect target")
			return h.renderError(c, fiber.StatusBadGateway, unexpected())
		}
		return c.Redirect().To(v.URL)
	case models.DocumentContent:
		page, err = resolve.RenderDocument(v)
	case models.ImageContent:
		page, err = resolve.RenderImage(v)
	default:
		return h.renderError(c, fiber.StatusBadGateway, unexpected())
	}
	if err != nil {
		h.logger.Warn().Err(err).Str("short_id", shortID).Msg("rendering resolved content")
		return h.renderError(c, fiber.StatusBadGateway, unexpected())
	}

	c.Set("Content-Security-Policy", resolve.ContentSecurityPolicy)
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page)
}

func (h *ZapHandler) renderError(c fiber.Ctx, status int, s resolve.State) error {
	return c.Status(status).Render("zap_error", MergeBranding(fiber.Map{
		"Title":   s.Heading(),
		"Heading": s.Heading(),
		"Message": s.Message,
		"Kind":    s.ErrorKind.String(),
	}, h.cfg))
}

func unexpected() resolve.State {
	return resolve.State{Phase: resolve.Error, ErrorKind: resolve.Unknown, Message: resolve.MsgUnexpected}
}

// errorStatus maps a terminal error to the page's HTTP status.
func errorStatus(kind resolve.ErrorKind) int {
	switch kind {
	case resolve.Expired:
		return fiber.StatusGone
	case resolve.ViewLimitExceeded:
		return fiber.StatusForbidden
	case resolve.NotFound:
		return fiber.StatusNotFound
	case resolve.IncorrectPassword:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusBadGateway
	}
}
