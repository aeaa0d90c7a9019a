package api

import (
	"github.com/gofiber/fiber/v3"

	"zaplink/internal/models"
	"zaplink/internal/registry"
)

// ContentTypeHandler exposes the content type registry.
type ContentTypeHandler struct {
	types *registry.Registry
}

// NewContentTypeHandler creates a new API content type handler.
func NewContentTypeHandler(types *registry.Registry) *ContentTypeHandler {
	return &ContentTypeHandler{types: types}
}

// List returns every registered content type.
func (h *ContentTypeHandler) List(c fiber.Ctx) error {
	all := h.types.All()
	resp := make([]models.ContentTypeResponse, 0, len(all))
	for _, t := range all {
		resp = append(resp, contentTypeResponse(t))
	}
	return jsonSuccess(c, resp)
}

// Get returns the constraints for one type. Unknown ids return the
// permissive entry rather than 404.
func (h *ContentTypeHandler) Get(c fiber.Ctx) error {
	return jsonSuccess(c, contentTypeResponse(h.types.Lookup(c.Params("type"))))
}

func contentTypeResponse(t registry.ContentType) models.ContentTypeResponse {
	exts := t.Extensions
	if exts == nil {
		exts = []string{}
	}
	return models.ContentTypeResponse{
		ID:         t.ID,
		Label:      t.Label,
		Extensions: exts,
		HelpText:   t.HelpText,
		Accept:     t.Accept,
		Modality:   t.Modality.String(),
	}
}
