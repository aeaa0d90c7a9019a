package api

import (
	"encoding/json"
	"errors"
	"slices"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"zaplink/internal/config"
	"zaplink/internal/formstate"
	"zaplink/internal/middleware"
	"zaplink/internal/models"
	"zaplink/internal/registry"
	"zaplink/internal/wizard"
)

// Keys in a PATCH body that describe the payload instead of a wizard field.
const (
	hintURL      = "url"
	hintText     = "textContent"
	hintFileName = "fileName"
)

// fieldOrder applies the type first, since switching it clears every
// other field, and each toggle before the value it guards.
var fieldOrder = []string{
	formstate.KeyContentType,
	formstate.KeyQRName,
	formstate.KeyPasswordProtect,
	wizard.FieldPassword,
	formstate.KeySelfDestruct,
	formstate.KeyDestructViews,
	formstate.KeyDestructTime,
	formstate.KeyViewsValue,
	formstate.KeyTimeValue,
}

// WizardHandler reads and mutates the session's persisted wizard fields.
type WizardHandler struct {
	cfg   *config.Config
	types *registry.Registry
}

// NewWizardHandler creates a new API wizard handler.
func NewWizardHandler(cfg *config.Config, types *registry.Registry) *WizardHandler {
	return &WizardHandler{cfg: cfg, types: types}
}

func (h *WizardHandler) wizard(c fiber.Ctx) *wizard.Wizard {
	return wizard.New(middleware.Repository(c), h.types, wizard.Options{
		ExclusiveProtection: h.cfg.ExclusiveProtection,
		TextMaxLength:       h.cfg.TextMaxLength,
	})
}

// Get returns the persisted fields. The url, textContent and fileName query
// parameters stand in for the payload when computing canGenerate.
func (h *WizardHandler) Get(c fiber.Ctx) error {
	w := h.wizard(c)
	p := payloadHint(c.Query(hintURL), c.Query(hintText), c.Query(hintFileName))
	return jsonSuccess(c, stateResponse(w, p))
}

// Patch applies a JSON object of field values, in the same order a form
// submission would, and returns the resulting state.
func (h *WizardHandler) Patch(c fiber.Ctx) error {
	var body map[string]any
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, codeInvalidBody, "invalid request body")
	}

	for k := range body {
		switch k {
		case hintURL, hintText, hintFileName:
		default:
			if _, err := fieldValue(body[k]); err != nil {
				return jsonError(c, fiber.StatusBadRequest, codeInvalidField, k+": "+err.Error())
			}
			if !slices.Contains(fieldOrder, k) {
				return jsonError(c, fiber.StatusBadRequest, codeUnknownField, wizard.ErrUnknownField.Error()+": "+k)
			}
		}
	}

	w := h.wizard(c)
	for _, k := range fieldOrder {
		raw, ok := body[k]
		if !ok {
			continue
		}
		v, _ := fieldValue(raw)
		if err := w.Apply(k, v); err != nil {
			return jsonError(c, fiber.StatusBadRequest, codeInvalidField, err.Error())
		}
	}

	url, _ := fieldValue(body[hintURL])
	text, _ := fieldValue(body[hintText])
	name, _ := fieldValue(body[hintFileName])
	if name != "" {
		w.ChooseFile(name)
	}
	return jsonSuccess(c, stateResponse(w, payloadHint(url, text, name)))
}

var errFieldType = errors.New("must be a string, number or boolean")

// fieldValue converts a JSON value to the textual form a form post carries.
func fieldValue(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", errFieldType
	}
}

func payloadHint(url, text, fileName string) wizard.Payload {
	p := wizard.Payload{URL: url, Text: text}
	if fileName != "" {
		p.File = &models.File{Name: fileName}
	}
	return p
}

func stateResponse(w *wizard.Wizard, p wizard.Payload) models.WizardStateResponse {
	s := w.State()
	return models.WizardStateResponse{
		QRName:          s.QRName,
		ContentType:     s.ContentType,
		PasswordProtect: s.PasswordProtect,
		SelfDestruct:    s.SelfDestruct,
		DestructViews:   s.DestructByViews,
		DestructTime:    s.DestructByTime,
		ViewsValue:      s.ViewsValue,
		TimeValue:       s.TimeValue,
		CanGenerate:     w.CanGenerate(p),
	}
}
