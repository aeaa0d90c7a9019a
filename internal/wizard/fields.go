package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"zaplink/internal/formstate"
)

// ErrUnknownField is returned by Apply for a field the wizard does not own.
var ErrUnknownField = errors.New("unknown wizard field")

// Field names accepted by Apply. They match the persisted keys, plus password.
const FieldPassword = "password"

// Apply sets one field from its textual form, as posted by a form or the JSON API.
func (w *Wizard) Apply(field, value string) error {
	switch field {
	case formstate.KeyQRName:
		w.SetName(value)
	case FieldPassword:
		w.SetPassword(value)
	case formstate.KeyPasswordProtect:
		w.SetPasswordProtect(checked(value))
	case formstate.KeySelfDestruct:
		w.SetSelfDestruct(checked(value))
	case formstate.KeyDestructViews:
		w.SetDestructByViews(checked(value))
	case formstate.KeyDestructTime:
		w.SetDestructByTime(checked(value))
	case formstate.KeyViewsValue:
		w.SetViewsValue(strings.TrimSpace(value))
	case formstate.KeyTimeValue:
		w.SetTimeValue(strings.TrimSpace(value))
	case formstate.KeyContentType:
		w.Enter(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// ApplyForm applies a whole submitted form. Checkboxes missing from values are
// treated as unchecked. Toggles are applied before the values they guard.
func (w *Wizard) ApplyForm(values map[string]string) {
	w.SetName(values[formstate.KeyQRName])
	w.SetPasswordProtect(checked(values[formstate.KeyPasswordProtect]))
	w.SetPassword(values[FieldPassword])
	w.SetSelfDestruct(checked(values[formstate.KeySelfDestruct]))
	w.SetDestructByViews(checked(values[formstate.KeyDestructViews]))
	w.SetDestructByTime(checked(values[formstate.KeyDestructTime]))
	if w.state.DestructByViews {
		w.SetViewsValue(strings.TrimSpace(values[formstate.KeyViewsValue]))
	}
	if w.state.DestructByTime {
		w.SetTimeValue(strings.TrimSpace(values[formstate.KeyTimeValue]))
	}
}

// checked interprets checkbox and JSON boolean values.
func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "yes":
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
