package resolve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaplink/internal/models"
)

func TestRenderDocumentEscapesFields(t *testing.T) {
	out, err := RenderDocument(models.DocumentContent{
		ContentKind: models.KindText,
		Name:        `<img src=x onerror="alert(1)">`,
		Body:        `<script>alert('x')</script> & "quoted"`,
	})
	require.NoError(t, err)
	html := string(out)

	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<img src=x")
	assert.Contains(t, html, "&lt;script&gt;alert(&#039;x&#039;)&lt;/script&gt; &amp; &quot;quoted&quot;")
	assert.Contains(t, html, "<title>&lt;img src=x onerror=&quot;alert(1)&quot;&gt;</title>")
	assert.Contains(t, html, "Powered by ZapLink")
}

func TestRenderDocumentDefaultName(t *testing.T) {
	out, err := RenderDocument(models.DocumentContent{ContentKind: models.KindDocument, Body: "hi"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<h1>Untitled</h1>")
}

func TestRenderImage(t *testing.T) {
	out, err := RenderImage(models.ImageContent{Name: `cat" onload="x`, DataURI: "data:image/png;base64,AA=="})
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, `src="data:image/png;base64,AA=="`)
	assert.Contains(t, html, `alt="cat&quot; onload=&quot;x"`)
	assert.Equal(t, 1, strings.Count(html, "<img "))
}

func TestRenderImageRejectsNonImageURI(t *testing.T) {
	for _, uri := range []string{"javascript:alert(1)", "data:text/html;base64,PHNjcmlwdD4=", "https://example.com/x.png"} {
		_, err := RenderImage(models.ImageContent{DataURI: uri})
		assert.ErrorIs(t, err, ErrUnsafeImage, uri)
	}
}
