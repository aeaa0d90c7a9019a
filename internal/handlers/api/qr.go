package api

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"zaplink/internal/metrics"
	"zaplink/internal/qrrender"
)

// qrRequest is the JSON body of the QR render endpoints.
type qrRequest struct {
	ShortURL              string `json:"shortUrl"`
	Name                  string `json:"name"`
	FrameStyle            string `json:"frameStyle"`
	FrameText             string `json:"frameText"`
	FrameColor            string `json:"frameColor"`
	TextColor             string `json:"textColor"`
	BackgroundColor       string `json:"backgroundColor"`
	TransparentBackground bool   `json:"transparentBackground"`
	// Logo is base64 or a data: URI.
	Logo string `json:"logo"`
}

func (r qrRequest) field(key string) string {
	switch key {
	case "frameStyle":
		return r.FrameStyle
	case "frameText":
		return r.FrameText
	case "frameColor":
		return r.FrameColor
	case "textColor":
		return r.TextColor
	case "backgroundColor":
		return r.BackgroundColor
	case "transparentBackground":
		return strconv.FormatBool(r.TransparentBackground)
	}
	return ""
}

// QRHandler renders QR codes for API clients.
type QRHandler struct{}

// NewQRHandler creates a new API QR handler.
func NewQRHandler() *QRHandler {
	return &QRHandler{}
}

func (h *QRHandler) surface(c fiber.Ctx) (*qrrender.Surface, qrRequest, error) {
	var req qrRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return nil, req, newAPIError(fiber.StatusBadRequest, codeInvalidBody, "invalid request body")
	}
	if strings.TrimSpace(req.ShortURL) == "" {
		return nil, req, newAPIError(fiber.StatusBadRequest, codeMissingURL, "shortUrl is required")
	}

	logo, err := qrrender.DecodeLogoBase64(req.Logo)
	if err != nil {
		return nil, req, newAPIError(fiber.StatusUnprocessableEntity, codeInvalidQR, err.Error())
	}
	cfg, err := qrrender.ParseConfig(req.field, logo)
	if err != nil {
		return nil, req, newAPIError(fiber.StatusUnprocessableEntity, codeInvalidQR, err.Error())
	}
	s, err := qrrender.Render(req.ShortURL, cfg)
	if err != nil {
		return nil, req, newAPIError(fiber.StatusUnprocessableEntity, codeInvalidQR, err.Error())
	}
	return s, req, nil
}

// SVG returns the vector surface.
func (h *QRHandler) SVG(c fiber.Ctx) error {
	s, _, err := h.surface(c)
	if err != nil {
		return sendError(c, err)
	}
	metrics.RecordQRExport(string(s.FrameStyle), "svg")
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.SendString(s.SVG())
}

// PNG returns the exported raster image.
func (h *QRHandler) PNG(c fiber.Ctx) error {
	s, req, err := h.surface(c)
	if err != nil {
		return sendError(c, err)
	}
	png, err := qrrender.Export(s)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, codeExportFailed, "failed to export QR code")
	}
	metrics.RecordQRExport(string(s.FrameStyle), "png")
	c.Attachment(qrrender.DownloadName(req.Name))
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
