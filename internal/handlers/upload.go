package handlers

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"zaplink/internal/config"
	"zaplink/internal/formstate"
	"zaplink/internal/metrics"
	"zaplink/internal/middleware"
	"zaplink/internal/models"
	"zaplink/internal/registry"
	"zaplink/internal/wizard"
)

// MsgSubmissionInProgress is shown when a second submit arrives for a session
// whose upload has not finished.
const MsgSubmissionInProgress = "A submission is already in progress"

// UploadHandler serves the upload wizard (step 2 of 3).
type UploadHandler struct {
	cfg      *config.Config
	types    *registry.Registry
	backend  Backend
	logger   zerolog.Logger
	inflight sync.Map
	now      func() time.Time
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(cfg *config.Config, types *registry.Registry, backend Backend, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		cfg:     cfg,
		types:   types,
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
}

func (h *UploadHandler) wizard(c fiber.Ctx) *wizard.Wizard {
	return wizard.New(middleware.Repository(c), h.types, wizard.Options{
		ExclusiveProtection: h.cfg.ExclusiveProtection,
		TextMaxLength:       h.cfg.TextMaxLength,
	})
}

// Show renders the wizard for ?type=, restoring persisted fields.
func (h *UploadHandler) Show(c fiber.Ctx) error {
	w := h.wizard(c)
	w.Enter(c.Query("type"))
	return h.render(c, fiber.StatusOK, w, wizard.Payload{}, nil)
}

// Submit validates the wizard and uploads the zap. On success the customize
// page is rendered directly with the backend result.
func (h *UploadHandler) Submit(c fiber.Ctx) error {
	w := h.wizard(c)
	w.Enter(c.FormValue(formstate.KeyContentType))

	values := make(map[string]string, len(formstate.Keys)+1)
	for _, k := range formstate.Keys {
		values[k] = c.FormValue(k)
	}
	values[wizard.FieldPassword] = c.FormValue(wizard.FieldPassword)
	w.ApplyForm(values)

	payload, err := h.payload(c, w)
	if err != nil {
		return h.render(c, fiber.StatusRequestEntityTooLarge, w, payload, err)
	}

	if id := middleware.SessionID(c); id != "" {
		if _, busy := h.inflight.LoadOrStore(id, struct{}{}); busy {
			return h.render(c, fiber.StatusConflict, w, payload, errors.New(MsgSubmissionInProgress))
		}
		defer h.inflight.Delete(id)
	}

	ct := w.Type()
	result, err := w.Submit(c.Context(), h.backend, payload, h.now())
	if err != nil {
		var ve *wizard.ValidationError
		if errors.As(err, &ve) {
			metrics.RecordUpload(ct.WireType(), "invalid")
			return h.render(c, fiber.StatusUnprocessableEntity, w, payload, ve)
		}
		metrics.RecordUpload(ct.WireType(), "failed")
		h.logger.Error().Err(err).Str("type", ct.ID).Msg("upload failed")
		return h.render(c, fiber.StatusBadGateway, w, payload, errors.New(wizard.FailureMessage(err)))
	}

	metrics.RecordUpload(ct.WireType(), "success")
	return renderCustomize(c, h.cfg, customizeView{Result: *result, Notice: "Your zap has been created."})
}

// Reset clears the persisted wizard ("create another").
func (h *UploadHandler) Reset(c fiber.Ctx) error {
	w := h.wizard(c)
	typeID := w.State().ContentType
	w.Reset()
	if typeID == "" {
		return c.Redirect().To("/")
	}
	return c.Redirect().To("/upload?type=" + typeID)
}

// payload reads the content matching the type's modality from the form.
func (h *UploadHandler) payload(c fiber.Ctx, w *wizard.Wizard) (wizard.Payload, error) {
	switch w.Type().Modality {
	case registry.URLInput:
		return wizard.Payload{URL: c.FormValue("url")}, nil
	case registry.TextInput:
		return wizard.Payload{Text: c.FormValue("textContent")}, nil
	}

	fh, err := c.FormFile("file")
	if err != nil || fh.Size == 0 {
		return wizard.Payload{}, nil
	}
	limit := int64(h.cfg.MaxUploadBytes())
	if fh.Size > limit {
		return wizard.Payload{}, errors.New("File is too large")
	}

	f, err := fh.Open()
	if err != nil {
		return wizard.Payload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return wizard.Payload{}, err
	}
	if int64(len(data)) > limit {
		return wizard.Payload{}, errors.New("File is too large")
	}

	w.ChooseFile(fh.Filename)
	return wizard.Payload{File: &models.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}}, nil
}

func (h *UploadHandler) render(c fiber.Ctx, status int, w *wizard.Wizard, p wizard.Payload, err error) error {
	ct := w.Type()
	data := fiber.Map{
		"Title":               "Upload " + ct.Label,
		"Type":                ct,
		"State":               w.State(),
		"URL":                 p.URL,
		"Text":                p.Text,
		"CanGenerate":         w.CanGenerate(p),
		"MaxUploadMB":         h.cfg.MaxUploadMB,
		"TextMaxLength":       h.cfg.TextMaxLength,
		"ExclusiveProtection": h.cfg.ExclusiveProtection,
		"IsFile":              ct.Modality == registry.FileInput,
		"IsURL":               ct.Modality == registry.URLInput,
		"IsText":              ct.Modality == registry.TextInput,
		"ErrorField":          "",
	}
	if err != nil {
		var ve *wizard.ValidationError
		if errors.As(err, &ve) {
			data["ErrorField"] = ve.Field
		}
		notify(data, notifyError, err.Error())
	}
	return c.Status(status).Render("upload", MergeBranding(data, h.cfg))
}
