// Package registry maps content type identifiers to upload constraints.
package registry

import (
	"path/filepath"
	"slices"
	"strings"

	"zaplink/internal/config"
)

// Modality is the input used to collect a zap's payload.
type Modality int

const (
	FileInput Modality = iota
	URLInput
	TextInput
)

func (m Modality) String() string {
	switch m {
	case URLInput:
		return "url"
	case TextInput:
		return "text"
	default:
		return "file"
	}
}

// ParseModality converts a config value into a Modality, defaulting to FileInput.
func ParseModality(s string) Modality {
	switch strings.ToLower(s) {
	case "url":
		return URLInput
	case "text":
		return TextInput
	default:
		return FileInput
	}
}

// ContentType describes what a content type accepts.
type ContentType struct {
	ID         string
	Label      string
	Extensions []string // Lowercase with leading dot. Empty means unrestricted.
	HelpText   string
	Accept     string // HTML accept attribute for the file picker
	Modality   Modality
	Home       bool
}

// Restricted reports whether the type limits file extensions.
func (t ContentType) Restricted() bool {
	return len(t.Extensions) > 0
}

// AcceptsFile reports whether a file name is allowed for this type.
func (t ContentType) AcceptsFile(name string) bool {
	if !t.Restricted() {
		return true
	}
	return slices.Contains(t.Extensions, strings.ToLower(filepath.Ext(name)))
}

// WireType is the upper-cased identifier the backend expects in the "type" field.
func (t ContentType) WireType() string {
	return strings.ToUpper(t.ID)
}

// DefaultTypeID is used when a wizard is entered without a type.
const DefaultTypeID = "pdf"

var defaults = []ContentType{
	{ID: "pdf", Label: "PDF", Extensions: []string{".pdf"}, HelpText: "Supports: .pdf only", Accept: ".pdf", Home: true},
	{ID: "image", Label: "Image", Extensions: []string{".jpg", ".jpeg", ".png", ".webp"}, HelpText: "Supports: .jpg, .jpeg, .png, .webp", Accept: "image/*", Home: true},
	{ID: "video", Label: "Video", Extensions: []string{".mp4", ".avi", ".mov", ".wmv", ".flv"}, HelpText: "Supports: .mp4, .avi, .mov, .wmv, .flv", Accept: "video/*", Home: true},
	{ID: "audio", Label: "Audio", Extensions: []string{".mp3", ".wav", ".ogg", ".m4a"}, HelpText: "Supports: .mp3, .wav, .ogg, .m4a", Accept: "audio/*", Home: true},
	{ID: "url", Label: "URL", HelpText: "Enter a valid http:// or https:// link", Modality: URLInput, Home: true},
	{ID: "text", Label: "Text", HelpText: "Type or paste the text to share", Modality: TextInput, Home: true},
	{ID: "document", Label: "Document", Extensions: []string{".doc", ".docx", ".txt", ".rtf"}, HelpText: "Supports: .doc, .docx, .txt, .rtf", Accept: ".doc,.docx,.txt,.rtf", Home: true},
	{ID: "presentation", Label: "Presentation", Extensions: []string{".ppt", ".pptx"}, HelpText: "Supports: .ppt, .pptx", Accept: ".ppt,.pptx", Home: true},
	{ID: "spreadsheet", Label: "Spreadsheet", Extensions: []string{".xls", ".xlsx", ".csv"}, HelpText: "Supports: .xls, .xlsx, .csv", Accept: ".xls,.xlsx,.csv"},
	{ID: "archive", Label: "Archive", Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz"}, HelpText: "Supports: .zip, .rar, .7z, .tar, .gz", Accept: ".zip,.rar,.7z,.tar,.gz"},
	{ID: "zip", Label: "ZIP", Extensions: []string{".zip", ".rar"}, HelpText: "Supports: .zip, .rar", Accept: ".zip,.rar"},
	{ID: "docx", Label: "DOCX", Extensions: []string{".doc", ".docx"}, HelpText: "Supports: .doc, .docx", Accept: ".docx"},
	{ID: "pptx", Label: "PPTX", Extensions: []string{".ppt", ".pptx"}, HelpText: "Supports: .ppt, .pptx", Accept: ".pptx"},
}

// Registry is a read-only lookup table of content types.
type Registry struct {
	types map[string]ContentType
	order []string
}

// Default returns the built-in registry.
func Default() *Registry {
	r := &Registry{types: make(map[string]ContentType, len(defaults))}
	for _, t := range defaults {
		r.add(t)
	}
	return r
}

// FromConfig returns the built-in registry with overrides from the content types file applied.
func FromConfig(f *config.ContentTypesFile) *Registry {
	r := Default()
	if f == nil {
		return r
	}
	for _, o := range f.Types {
		id := normalize(o.ID)
		if id == "" {
			continue
		}
		t, ok := r.types[id]
		if !ok {
			t = ContentType{ID: id, Label: id, Modality: ParseModality(o.Modality)}
		} else if o.Modality != "" {
			t.Modality = ParseModality(o.Modality)
		}
		if o.Label != "" {
			t.Label = o.Label
		}
		if o.Extensions != nil {
			t.Extensions = normalizeExtensions(o.Extensions)
		}
		if o.HelpText != "" {
			t.HelpText = o.HelpText
		}
		if o.Accept != "" {
			t.Accept = o.Accept
		}
		t.Home = t.Home || o.Home
		r.add(t)
	}
	return r
}

func (r *Registry) add(t ContentType) {
	if _, exists := r.types[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	r.types[t.ID] = t
}

// Lookup returns the constraints for id. Unknown ids get a permissive
// entry that accepts any file, so a registry miss never blocks an upload.
func (r *Registry) Lookup(id string) ContentType {
	id = normalize(id)
	t, ok := r.types[id]
	if !ok {
		return permissive(id)
	}
	t.Extensions = slices.Clone(t.Extensions)
	return t
}

// Known reports whether id has an explicit entry.
func (r *Registry) Known(id string) bool {
	_, ok := r.types[normalize(id)]
	return ok
}

// Home returns the types shown on the home page, in display order.
func (r *Registry) Home() []ContentType {
	var out []ContentType
	for _, id := range r.order {
		if r.types[id].Home {
			out = append(out, r.Lookup(id))
		}
	}
	return out
}

// All returns every registered type in registration order.
func (r *Registry) All() []ContentType {
	out := make([]ContentType, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.Lookup(id))
	}
	return out
}

func permissive(id string) ContentType {
	label := "File"
	if id != "" {
		label = strings.ToUpper(id)
	}
	return ContentType{
		ID:       id,
		Label:    label,
		HelpText: "Various file types",
		Accept:   "*",
		Modality: FileInput,
	}
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
