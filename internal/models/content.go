package models

// ContentKind is the backend's label for resolved zap content.
type ContentKind string

const (
	KindRedirect ContentKind = "redirect"
	KindFile     ContentKind = "file"
	KindText     ContentKind = "text"
	KindDocument ContentKind = "document"
	KindImage    ContentKind = "image"
)

// Content is resolved zap content. The concrete type is one of
// RedirectContent, DocumentContent or ImageContent.
type Content interface {
	Kind() ContentKind
	isContent()
}

// RedirectContent sends the visitor to URL (redirect and file kinds).
type RedirectContent struct {
	ContentKind ContentKind
	URL         string
}

func (c RedirectContent) Kind() ContentKind { return c.ContentKind }
func (RedirectContent) isContent()          {}

// DocumentContent is text rendered into an isolated page (text and document kinds).
type DocumentContent struct {
	ContentKind ContentKind
	Name        string
	Body        string
}

func (c DocumentContent) Kind() ContentKind { return c.ContentKind }
func (DocumentContent) isContent()          {}

// ImageContent is an image delivered as a data URI.
type ImageContent struct {
	Name    string
	DataURI string
}

func (ImageContent) Kind() ContentKind { return KindImage }
func (ImageContent) isContent()        {}
