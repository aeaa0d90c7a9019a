package resolve

import (
	"bytes"
	"errors"
	"text/template"

	"zaplink/internal/models"
	"zaplink/internal/sanitize"
	"zaplink/internal/validation"
)

// ContentSecurityPolicy is sent with isolated views. Inline styles are the
// only thing the page may load besides data: images.
const ContentSecurityPolicy = "default-src 'none'; style-src 'unsafe-inline'; img-src data:; base-uri 'none'; form-action 'none'"

// ErrUnsafeImage is returned when image data is not an image data URI.
var ErrUnsafeImage = errors.New("image data is not a data:image URI")

// Fields are escaped with sanitize.EscapeHTML before they reach the template.
var documentTmpl = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Name}}</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
  line-height: 1.6;
  color: #e5e7eb;
  max-width: 800px;
  margin: 0 auto;
  padding: 20px;
  background-color: #111827;
  min-height: 100vh;
}
.container {
  background: #1f2937;
  padding: 30px;
  border-radius: 12px;
  box-shadow: 0 4px 20px rgba(0,0,0,0.3);
  border: 1px solid #374151;
}
h1 {
  color: #f9fafb;
  margin-bottom: 20px;
  border-bottom: 2px solid #3b82f6;
  padding-bottom: 10px;
  font-size: 2rem;
  font-weight: 600;
}
.content {
  white-space: pre-wrap;
  word-wrap: break-word;
  font-size: 16px;
  color: #d1d5db;
  line-height: 1.7;
}
.footer {
  margin-top: 30px;
  padding-top: 20px;
  border-top: 1px solid #374151;
  text-align: center;
  color: #9ca3af;
  font-size: 14px;
}
@media (max-width: 768px) {
  body { padding: 15px; }
  .container { padding: 20px; }
  h1 { font-size: 1.5rem; }
}
</style>
</head>
<body>
<div class="container">
<h1>{{.Name}}</h1>
<div class="content">{{.Body}}</div>
<div class="footer">Powered by ZapLink</div>
</div>
</body>
</html>
`))

var imageTmpl = template.Must(template.New("image").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Name}}</title>
</head>
<body style="margin: 0; display: flex; justify-content: center; align-items: center; min-height: 100vh; background-color: #111827;">
<img src="{{.Src}}" alt="{{.Name}}" style="max-width: 100%; max-height: 100vh;">
</body>
</html>
`))

// RenderDocument renders text or document content into a standalone page.
func RenderDocument(c models.DocumentContent) ([]byte, error) {
	name := c.Name
	if name == "" {
		name = "Untitled"
	}
	var buf bytes.Buffer
	err := documentTmpl.Execute(&buf, struct{ Name, Body string }{
		Name: sanitize.EscapeHTML(name),
		Body: sanitize.EscapeHTML(c.Body),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderImage renders an image data URI into a standalone page.
func RenderImage(c models.ImageContent) ([]byte, error) {
	if !validation.IsImageDataURI(c.DataURI) {
		return nil, ErrUnsafeImage
	}
	name := c.Name
	if name == "" {
		name = "Image"
	}
	var buf bytes.Buffer
	err := imageTmpl.Execute(&buf, struct{ Name, Src string }{
		Name: sanitize.EscapeHTML(name),
		Src:  sanitize.EscapeHTML(c.DataURI),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
