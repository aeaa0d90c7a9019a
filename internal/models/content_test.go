package models

import "testing"

func TestContentKinds(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		want    ContentKind
	}{
		{"redirect", RedirectContent{ContentKind: KindRedirect, URL: "https://example.com"}, KindRedirect},
		{"file", RedirectContent{ContentKind: KindFile, URL: "https://cdn.example.com/f.pdf"}, KindFile},
		{"text", DocumentContent{ContentKind: KindText, Body: "hi"}, KindText},
		{"document", DocumentContent{ContentKind: KindDocument, Body: "hi"}, KindDocument},
		{"image", ImageContent{DataURI: "data:image/png;base64,AA=="}, KindImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.content.Kind(); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}
