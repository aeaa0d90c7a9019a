package handlers

import (
	"errors"
	"html/template"
	"io"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"zaplink/internal/config"
	"zaplink/internal/metrics"
	"zaplink/internal/models"
	"zaplink/internal/qrrender"
	"zaplink/internal/validation"
)

// DemoShortURL is encoded when the customize page is opened without a zap.
const DemoShortURL = "https://zaplink.example.com/demo123"

// customizeView is everything the customize page renders from.
type customizeView struct {
	Result models.SubmissionResult
	QR     qrrender.Config
	Notice string
	Error  string
}

// CustomizeHandler serves the QR customize screen (step 3 of 3).
type CustomizeHandler struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// NewCustomizeHandler creates a new customize handler.
func NewCustomizeHandler(cfg *config.Config, logger zerolog.Logger) *CustomizeHandler {
	return &CustomizeHandler{cfg: cfg, logger: logger}
}

// Show renders the default code for the link in the query string.
func (h *CustomizeHandler) Show(c fiber.Ctx) error {
	return renderCustomize(c, h.cfg, customizeView{
		Result: models.SubmissionResult{
			ShortURL: c.Query("shortUrl"),
			Name:     c.Query("name"),
			Type:     c.Query("type"),
			ZapID:    c.Query("zapId"),
		},
		QR: qrrender.DefaultConfig(),
	})
}

// Preview re-renders the code with the posted frame, colors and logo.
func (h *CustomizeHandler) Preview(c fiber.Ctx) error {
	view := customizeView{Result: postedResult(c)}
	qr, err := h.parse(c)
	view.QR = qr
	if err != nil {
		view.Error = err.Error()
		return renderCustomizeStatus(c, h.cfg, fiber.StatusUnprocessableEntity, view)
	}
	return renderCustomize(c, h.cfg, view)
}

// Download exports the customized code as a PNG attachment.
func (h *CustomizeHandler) Download(c fiber.Ctx) error {
	result := postedResult(c)
	qr, err := h.parse(c)
	if err != nil {
		return renderCustomizeStatus(c, h.cfg, fiber.StatusUnprocessableEntity, customizeView{
			Result: result,
			QR:     qr,
			Error:  err.Error(),
		})
	}

	surface, err := qrrender.Render(result.ShortURL, qr)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	png, err := qrrender.Export(surface)
	if err != nil {
		h.logger.Error().Err(err).Msg("qr export failed")
		return fiber.NewError(fiber.StatusInternalServerError, "Could not export the QR code")
	}

	metrics.RecordQRExport(string(qr.FrameStyle), "png")
	c.Attachment(qrrender.DownloadName(result.Name))
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// parse reads the render config. An uploaded logo replaces the one carried
// over from the previous preview.
func (h *CustomizeHandler) parse(c fiber.Ctx) (qrrender.Config, error) {
	logo, err := postedLogo(c)
	if err != nil {
		return qrrender.DefaultConfig(), err
	}
	return qrrender.ParseConfig(func(key string) string { return c.FormValue(key) }, logo)
}

func postedLogo(c fiber.Ctx) (*qrrender.Logo, error) {
	if c.FormValue("removeLogo") != "" {
		return nil, nil
	}
	fh, err := c.FormFile("logo")
	if err != nil || fh.Size == 0 {
		return qrrender.DecodeLogoBase64(c.FormValue("logoData"))
	}
	if fh.Size > qrrender.MaxLogoBytes {
		return nil, qrrender.ErrLogoTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, qrrender.MaxLogoBytes+1))
	if err != nil {
		return nil, err
	}
	return qrrender.DecodeLogo(data)
}

func postedResult(c fiber.Ctx) models.SubmissionResult {
	r := models.SubmissionResult{
		ZapID:    c.FormValue("zapId"),
		ShortURL: strings.TrimSpace(c.FormValue("shortUrl")),
		Name:     c.FormValue("name"),
		Type:     c.FormValue("type"),
	}
	if r.ShortURL == "" {
		r.ShortURL = DemoShortURL
	}
	return r
}

func renderCustomize(c fiber.Ctx, cfg *config.Config, view customizeView) error {
	return renderCustomizeStatus(c, cfg, fiber.StatusOK, view)
}

func renderCustomizeStatus(c fiber.Ctx, cfg *config.Config, status int, view customizeView) error {
	result := view.Result
	if strings.TrimSpace(result.ShortURL) == "" {
		result.ShortURL = DemoShortURL
	}

	data := fiber.Map{
		"Title":       "Customize QR",
		"Step":        "Step 3 of 3",
		"Result":      result,
		"Demo":        result.ShortURL == DemoShortURL,
		"FrameStyles": qrrender.FrameStyles,
		"Frame":       string(view.QR.FrameStyle),
		"FrameText":   view.QR.FrameText,
		"FrameColor":  view.QR.FrameColor.Hex(),
		"TextColor":   view.QR.TextColor.Hex(),
		"Background":  view.QR.BackgroundColor.Hex(),
		"Transparent": view.QR.TransparentBackground,
		"MaxText":     qrrender.MaxFrameTextLength,
	}
	if view.QR.Logo != nil {
		data["LogoData"] = view.QR.Logo.DataURI()
	}
	if validation.IsImageDataURI(result.QRCodeImage) {
		data["BackendQR"] = template.URL(result.QRCodeImage)
	}

	surface, err := qrrender.Render(result.ShortURL, view.QR)
	switch {
	case err == nil:
		data["SVG"] = template.HTML(surface.SVG())
	case errors.Is(err, qrrender.ErrUnknownFrame):
		view.Error = err.Error()
	default:
		view.Error = "Could not render a QR code for this link"
	}

	if view.Error != "" {
		notify(data, notifyError, view.Error)
	} else if view.Notice != "" {
		notify(data, notifySuccess, view.Notice)
	}
	return c.Status(status).Render("customize", MergeBranding(data, cfg))
}
