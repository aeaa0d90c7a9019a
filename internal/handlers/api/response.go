package api

import (
	"github.com/gofiber/fiber/v3"
)

// Error codes carried in the "code" field of error envelopes.
const (
	codeInvalidBody  = "invalid_body"
	codeUnknownField = "unknown_field"
	codeInvalidField = "invalid_field"
	codeMissingURL   = "missing_short_url"
	codeInvalidQR    = "invalid_qr_config"
	codeExportFailed = "export_failed"
	codeInternal     = "internal"
)

// apiError is a failure the handler has already classified.
type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string { return e.message }

func newAPIError(status int, code, message string) *apiError {
	return &apiError{status: status, code: code, message: message}
}

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
// code is stable for clients; message is for humans.
func jsonError(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"code":   code,
		"error":  message,
	})
}

// sendError writes err, classified or not, as an error envelope.
func sendError(c fiber.Ctx, err error) error {
	if e, ok := err.(*apiError); ok {
		return jsonError(c, e.status, e.code, e.message)
	}
	return jsonError(c, fiber.StatusInternalServerError, codeInternal, err.Error())
}
