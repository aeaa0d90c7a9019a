// Package wizard implements the upload wizard: field mutations persisted after every
// change, modality-specific validation, and building the backend upload request.
package wizard

import (
	"strconv"
	"strings"

	"zaplink/internal/formstate"
	"zaplink/internal/registry"
	"zaplink/internal/validation"
)

// Options tune wizard behaviour.
type Options struct {
	// ExclusiveProtection makes password protection and self-destruct clear each other.
	ExclusiveProtection bool
	// TextMaxLength is the ceiling for text content, in characters.
	TextMaxLength int
}

// DefaultTextMaxLength applies when Options.TextMaxLength is unset.
const DefaultTextMaxLength = 10000

// State holds the wizard fields. Password is never persisted.
type State struct {
	QRName          string
	ContentType     string
	PasswordProtect bool
	Password        string
	SelfDestruct    bool
	DestructByViews bool
	ViewsValue      string
	DestructByTime  bool
	TimeValue       string
}

// Wizard is one user's upload flow, backed by a form state repository.
type Wizard struct {
	repo  formstate.Repository
	types *registry.Registry
	opts  Options
	state State
}

// New restores a wizard from repo.
func New(repo formstate.Repository, types *registry.Registry, opts Options) *Wizard {
	if opts.TextMaxLength <= 0 {
		opts.TextMaxLength = DefaultTextMaxLength
	}
	w := &Wizard{repo: repo, types: types, opts: opts}
	w.load()
	return w
}

func (w *Wizard) load() {
	w.state = State{
		QRName:          w.str(formstate.KeyQRName),
		ContentType:     w.str(formstate.KeyContentType),
		PasswordProtect: w.flag(formstate.KeyPasswordProtect),
		SelfDestruct:    w.flag(formstate.KeySelfDestruct),
		DestructByViews: w.flag(formstate.KeyDestructViews),
		DestructByTime:  w.flag(formstate.KeyDestructTime),
		ViewsValue:      w.str(formstate.KeyViewsValue),
		TimeValue:       w.str(formstate.KeyTimeValue),
	}
}

func (w *Wizard) str(key string) string {
	v, _ := w.repo.Get(key)
	return v
}

func (w *Wizard) flag(key string) bool {
	v, _ := w.repo.Get(key)
	b, _ := strconv.ParseBool(v)
	return b
}

func (w *Wizard) putString(key, v string) {
	w.repo.Set(key, v)
}

func (w *Wizard) putFlag(key string, v bool) {
	w.repo.Set(key, strconv.FormatBool(v))
}

// State returns a copy of the current fields.
func (w *Wizard) State() State {
	return w.state
}

// Type returns the registry entry of the selected content type.
func (w *Wizard) Type() registry.ContentType {
	return w.types.Lookup(w.state.ContentType)
}

// Enter starts the wizard for typeID. Switching to a different type than the
// one stored clears every persisted field first. An empty typeID keeps the
// stored type, or falls back to the default.
func (w *Wizard) Enter(typeID string) {
	typeID = strings.ToLower(strings.TrimSpace(typeID))
	if typeID == "" {
		typeID = w.state.ContentType
	}
	if typeID == "" {
		typeID = registry.DefaultTypeID
	}
	if w.state.ContentType != "" && w.state.ContentType != typeID {
		w.Reset()
	}
	w.state.ContentType = typeID
	w.putString(formstate.KeyContentType, typeID)
}

// Reset clears all fields, as on "create another".
func (w *Wizard) Reset() {
	w.repo.Clear()
	w.state = State{}
}

// SetName sets the QR code label.
func (w *Wizard) SetName(name string) {
	w.state.QRName = name
	w.putString(formstate.KeyQRName, name)
}

// ChooseFile records a picked file. The file name becomes the label when none is set.
func (w *Wizard) ChooseFile(fileName string) {
	if w.state.QRName == "" && fileName != "" {
		w.SetName(fileName)
	}
}

// SetPasswordProtect toggles password protection.
func (w *Wizard) SetPasswordProtect(on bool) {
	w.state.PasswordProtect = on
	w.putFlag(formstate.KeyPasswordProtect, on)
	if !on {
		w.state.Password = ""
	}
	if on && w.opts.ExclusiveProtection && w.state.SelfDestruct {
		w.SetSelfDestruct(false)
	}
}

// SetPassword sets the password used when protection is on.
func (w *Wizard) SetPassword(password string) {
	w.state.Password = password
}

// SetSelfDestruct toggles self-destruct. Turning it off clears both sub-options.
func (w *Wizard) SetSelfDestruct(on bool) {
	w.state.SelfDestruct = on
	w.putFlag(formstate.KeySelfDestruct, on)
	if !on {
		w.SetDestructByViews(false)
		w.SetDestructByTime(false)
		return
	}
	if w.opts.ExclusiveProtection && w.state.PasswordProtect {
		w.SetPasswordProtect(false)
	}
}

// SetDestructByViews toggles the view-count rule. Turning it off clears its value.
func (w *Wizard) SetDestructByViews(on bool) {
	w.state.DestructByViews = on
	w.putFlag(formstate.KeyDestructViews, on)
	if !on {
		w.state.ViewsValue = ""
		w.putString(formstate.KeyViewsValue, "")
	}
}

// SetDestructByTime toggles the time-window rule. Turning it off clears its value.
func (w *Wizard) SetDestructByTime(on bool) {
	w.state.DestructByTime = on
	w.putFlag(formstate.KeyDestructTime, on)
	if !on {
		w.state.TimeValue = ""
		w.putString(formstate.KeyTimeValue, "")
	}
}

// SetViewsValue sets the view limit text. Non-numeric input is ignored and false is returned.
func (w *Wizard) SetViewsValue(v string) bool {
	if !validation.IsDigits(v) {
		return false
	}
	w.state.ViewsValue = v
	w.putString(formstate.KeyViewsValue, v)
	return true
}

// SetTimeValue sets the hours-until-expiry text. Non-numeric input is ignored and false is returned.
func (w *Wizard) SetTimeValue(v string) bool {
	if !validation.IsDigits(v) {
		return false
	}
	w.state.TimeValue = v
	w.putString(formstate.KeyTimeValue, v)
	return true
}
