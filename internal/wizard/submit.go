package wizard

import (
	"context"
	"errors"
	"strings"
	"time"

	"zaplink/internal/models"
	"zaplink/internal/registry"
	"zaplink/internal/validation"
)

// Payload is the content being shared. Only the member matching the content
// type's modality is read.
type Payload struct {
	File *models.File
	URL  string
	Text string
}

// ValidationError is a local, pre-network rejection of one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Uploader sends an upload request to the backend.
type Uploader interface {
	Upload(ctx context.Context, req *models.UploadRequest) (*models.SubmissionResult, error)
}

// Validation messages.
const (
	MsgURLInvalid         = "Please enter a valid http:// or https:// link"
	MsgFileMissing        = "Please choose a file to upload"
	MsgInvalidFileType    = "Invalid file type."
	MsgPasswordMissing    = "Please enter a password"
	MsgSelfDestructNone   = "Choose a view limit or an expiry time for self-destruct"
	MsgViewLimitInvalid   = "View limit must be a positive whole number"
	MsgExpiryHoursInvalid = "Expiry time must be a positive whole number of hours"
	MsgExpiryHoursTooLong = "Expiry time can be at most 87600 hours (10 years)"
)

// MaxExpiryHours caps the self-destruct timer at ten years.
const MaxExpiryHours = 87600

// CanGenerate reports whether the submit control should be enabled: every
// required field is filled in. It does not check formats; Validate does.
func (w *Wizard) CanGenerate(p Payload) bool {
	s := w.state
	if strings.TrimSpace(s.QRName) == "" {
		return false
	}
	if !hasPayload(w.Type().Modality, p) {
		return false
	}
	if s.PasswordProtect && strings.TrimSpace(s.Password) == "" {
		return false
	}
	if s.SelfDestruct {
		views := s.DestructByViews && strings.TrimSpace(s.ViewsValue) != ""
		hours := s.DestructByTime && strings.TrimSpace(s.TimeValue) != ""
		if !views && !hours {
			return false
		}
	}
	return true
}

func hasPayload(m registry.Modality, p Payload) bool {
	switch m {
	case registry.URLInput:
		return strings.TrimSpace(p.URL) != ""
	case registry.TextInput:
		return strings.TrimSpace(p.Text) != ""
	default:
		return p.File != nil
	}
}

// Validate checks the wizard and payload in order: name, payload, password,
// self-destruct. The first failing rule is returned as a *ValidationError.
func (w *Wizard) Validate(p Payload) error {
	s := w.state
	ct := w.Type()

	if ok, msg := validation.ValidateName(s.QRName); !ok {
		return &ValidationError{Field: "qrName", Message: msg}
	}

	switch ct.Modality {
	case registry.URLInput:
		if ok, _ := validation.ValidateURL(strings.TrimSpace(p.URL)); !ok {
			return &ValidationError{Field: "url", Message: MsgURLInvalid}
		}
	case registry.TextInput:
		if ok, msg := validation.ValidateText(p.Text, w.opts.TextMaxLength); !ok {
			return &ValidationError{Field: "textContent", Message: msg}
		}
	default:
		if p.File == nil {
			return &ValidationError{Field: "file", Message: MsgFileMissing}
		}
		if !ct.AcceptsFile(p.File.Name) {
			msg := ct.HelpText
			if msg == "" {
				msg = MsgInvalidFileType
			}
			return &ValidationError{Field: "file", Message: msg}
		}
	}

	if s.PasswordProtect && strings.TrimSpace(s.Password) == "" {
		return &ValidationError{Field: "password", Message: MsgPasswordMissing}
	}

	if s.SelfDestruct {
		if !s.DestructByViews && !s.DestructByTime {
			return &ValidationError{Field: "selfDestruct", Message: MsgSelfDestructNone}
		}
		if s.DestructByViews {
			if _, ok := validation.ParsePositiveInt(s.ViewsValue); !ok {
				return &ValidationError{Field: "viewsValue", Message: MsgViewLimitInvalid}
			}
		}
		if s.DestructByTime {
			hours, ok := validation.ParsePositiveInt(s.TimeValue)
			if !ok {
				return &ValidationError{Field: "timeValue", Message: MsgExpiryHoursInvalid}
			}
			if hours > MaxExpiryHours {
				return &ValidationError{Field: "timeValue", Message: MsgExpiryHoursTooLong}
			}
		}
	}

	return nil
}

// BuildRequest validates and assembles the upload request. The expiry is
// converted to an absolute timestamp relative to now.
func (w *Wizard) BuildRequest(p Payload, now time.Time) (*models.UploadRequest, error) {
	if err := w.Validate(p); err != nil {
		return nil, err
	}

	s := w.state
	ct := w.Type()
	req := &models.UploadRequest{
		Name: strings.TrimSpace(s.QRName),
		Type: ct.WireType(),
	}

	switch ct.Modality {
	case registry.URLInput:
		req.OriginalURL = strings.TrimSpace(p.URL)
	case registry.TextInput:
		req.TextContent = p.Text
	default:
		req.File = p.File
	}

	if s.PasswordProtect {
		req.Password = s.Password
	}

	if s.SelfDestruct {
		if s.DestructByViews {
			req.ViewLimit, _ = validation.ParsePositiveInt(s.ViewsValue)
		}
		if s.DestructByTime {
			hours, _ := validation.ParsePositiveInt(s.TimeValue)
			expires := now.Add(time.Duration(hours) * time.Hour).UTC()
			req.ExpiresAt = &expires
		}
	}

	return req, nil
}

// Submit validates, builds and sends the request. Wizard state is left intact
// on every outcome so a failed upload can be retried without re-entering data.
func (w *Wizard) Submit(ctx context.Context, up Uploader, p Payload, now time.Time) (*models.SubmissionResult, error) {
	req, err := w.BuildRequest(p, now)
	if err != nil {
		return nil, err
	}
	return up.Upload(ctx, req)
}

// backendMessenger is implemented by backend errors that carry a server-provided message.
type backendMessenger interface {
	BackendMessage() string
}

// FailureMessage formats a failed upload for the user, using the backend's
// message when it sent one.
func FailureMessage(err error) string {
	var bm backendMessenger
	if errors.As(err, &bm) && bm.BackendMessage() != "" {
		return "Upload failed: " + bm.BackendMessage()
	}
	return "Upload failed: the server could not be reached. Please try again."
}
