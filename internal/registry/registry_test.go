package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaplink/internal/config"
)

func TestLookupKnownTypes(t *testing.T) {
	r := Default()

	tests := []struct {
		id       string
		modality Modality
		file     string
		accepted bool
	}{
		{"pdf", FileInput, "report.pdf", true},
		{"pdf", FileInput, "report.PDF", true},
		{"pdf", FileInput, "report.docx", false},
		{"image", FileInput, "cat.webp", true},
		{"image", FileInput, "cat.gif", false},
		{"presentation", FileInput, "deck.pptx", true},
		{"document", FileInput, "notes.rtf", true},
		{"url", URLInput, "anything.bin", true},
		{"text", TextInput, "anything.bin", true},
	}

	for _, tt := range tests {
		t.Run(tt.id+"/"+tt.file, func(t *testing.T) {
			ct := r.Lookup(tt.id)
			assert.Equal(t, tt.id, ct.ID)
			assert.Equal(t, tt.modality, ct.Modality)
			assert.Equal(t, tt.accepted, ct.AcceptsFile(tt.file))
		})
	}
}

func TestLookupUnknownIsPermissive(t *testing.T) {
	r := Default()

	ct := r.Lookup("hologram")

	assert.False(t, r.Known("hologram"))
	assert.Equal(t, "hologram", ct.ID)
	assert.Equal(t, FileInput, ct.Modality)
	assert.False(t, ct.Restricted())
	assert.True(t, ct.AcceptsFile("whatever.xyz"))
	assert.True(t, ct.AcceptsFile("no-extension"))
	assert.Equal(t, "Various file types", ct.HelpText)
}

func TestLookupIsIdempotent(t *testing.T) {
	r := Default()

	first := r.Lookup("image")
	first.Extensions[0] = ".exe"
	second := r.Lookup("image")
	third := r.Lookup("image")

	assert.Equal(t, second, third)
	assert.Equal(t, ".jpg", second.Extensions[0])
}

func TestLookupNormalizesID(t *testing.T) {
	r := Default()
	assert.Equal(t, r.Lookup("pdf"), r.Lookup("  PDF "))
}

func TestHomeOrder(t *testing.T) {
	var ids []string
	for _, ct := range Default().Home() {
		ids = append(ids, ct.ID)
	}
	assert.Equal(t, []string{"pdf", "image", "video", "audio", "url", "text", "document", "presentation"}, ids)
}

func TestWireType(t *testing.T) {
	assert.Equal(t, "URL", Default().Lookup("url").WireType())
	assert.Equal(t, "PRESENTATION", Default().Lookup("presentation").WireType())
}

func TestFromConfig(t *testing.T) {
	f := &config.ContentTypesFile{Types: []config.ContentTypeConfig{
		{ID: "ebook", Label: "E-Book", Extensions: []string{"EPUB", ".mobi"}, Home: true},
		{ID: "pdf", HelpText: "PDF up to 50MB"},
		{ID: "video", Extensions: []string{}},
		{ID: " "},
	}}

	r := FromConfig(f)

	ebook := r.Lookup("ebook")
	require.True(t, r.Known("ebook"))
	assert.Equal(t, []string{".epub", ".mobi"}, ebook.Extensions)
	assert.True(t, ebook.AcceptsFile("book.EPUB"))

	pdf := r.Lookup("pdf")
	assert.Equal(t, "PDF up to 50MB", pdf.HelpText)
	assert.Equal(t, []string{".pdf"}, pdf.Extensions)

	assert.False(t, r.Lookup("video").Restricted())

	home := r.Home()
	assert.Equal(t, "ebook", home[len(home)-1].ID)
}

func TestFromConfigNil(t *testing.T) {
	assert.Equal(t, Default().All(), FromConfig(nil).All())
}
