package handlers

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaplink/internal/config"
	"zaplink/internal/middleware"
	"zaplink/internal/qrrender"
	"zaplink/internal/registry"
	"zaplink/internal/resolve"
	"zaplink/internal/testutil"
)

// recordingViews renders the view name followed by the sorted bindings,
// one key=value per line.
type recordingViews struct{}

func (recordingViews) Load() error { return nil }

func (recordingViews) Render(w io.Writer, name string, binding any, _ ...string) error {
	fmt.Fprintf(w, "view=%s\n", name)
	m, _ := binding.(fiber.Map)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s=%v\n", k, m[k])
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		SiteTitle:     "ZapLink",
		TextMaxLength: 10000,
		MaxUploadMB:   5,
	}
}

func newTestApp(t *testing.T, backend *testutil.Backend) *fiber.App {
	t.Helper()

	cfg := testConfig()
	types := registry.Default()
	logger := zerolog.Nop()

	app := fiber.New(fiber.Config{Views: recordingViews{}})
	sessionMiddleware, _ := session.NewWithStore()
	app.Use(sessionMiddleware)
	app.Use(middleware.FormState)

	upload := NewUploadHandler(cfg, types, backend.Client, logger)
	customize := NewCustomizeHandler(cfg, logger)
	zaps := NewZapHandler(cfg, backend.Client, logger)
	shorten := NewShortenHandler(cfg, backend.Client, logger)
	pages := NewPageHandler(cfg, types)

	app.Get("/", pages.Index)
	app.Get("/upload", upload.Show)
	app.Post("/upload", upload.Submit)
	app.Post("/upload/reset", upload.Reset)
	app.Get("/customize", customize.Show)
	app.Post("/customize", customize.Preview)
	app.Post("/customize/download", customize.Download)
	app.Get("/zaps/:shortId", zaps.View)
	app.Post("/zaps/:shortId", zaps.Unlock)
	app.Get("/shorten", shorten.Show)
	app.Post("/shorten", shorten.Shorten)
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request, cookies ...*http.Cookie) (*http.Response, string) {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func multipartRequest(t *testing.T, target string, values map[string]string, fileName string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range values {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestIndexListsHomeTypes(t *testing.T) {
	app := newTestApp(t, testutil.NewBackend(t))

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "view=index")
	assert.Contains(t, body, "PDF")
	assert.Contains(t, body, "Presentation")
}

func TestUploadShowUnknownTypeIsPermissive(t *testing.T) {
	app := newTestApp(t, testutil.NewBackend(t))

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/upload?type=spreadsheet-xyz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "view=upload")
	assert.Contains(t, body, "IsFile=true")
	assert.Contains(t, body, "Various file types")
}

func TestUploadRejectsEmptyNameWithoutBackendCall(t *testing.T) {
	backend := testutil.NewBackend(t)
	app := newTestApp(t, backend)

	resp, body := do(t, app, formRequest("/upload", url.Values{
		"contentType": {"url"},
		"qrName":      {""},
		"url":         {"https://example.com/path"},
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "ErrorField=qrName")
	assert.Empty(t, backend.Requests())
}

func TestUploadRejectsNonHTTPURL(t *testing.T) {
	backend := testutil.NewBackend(t)
	app := newTestApp(t, backend)

	resp, body := do(t, app, formRequest("/upload", url.Values{
		"contentType": {"url"},
		"qrName":      {"Docs"},
		"url":         {"ftp://example.com"},
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Please enter a valid http:// or https:// link")
	assert.Empty(t, backend.Requests())
}

func TestUploadSelfDestructWithoutOptionIsBlocked(t *testing.T) {
	backend := testutil.NewBackend(t)
	app := newTestApp(t, backend)

	resp, body := do(t, app, formRequest("/upload", url.Values{
		"contentType":  {"text"},
		"qrName":       {"Note"},
		"textContent":  {"hello"},
		"selfDestruct": {"on"},
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "CanGenerate=false")
	assert.Empty(t, backend.Requests())
}

func TestUploadURLRendersCustomize(t *testing.T) {
	backend := testutil.NewBackend(t)
	app := newTestApp(t, backend)

	resp, body := do(t, app, formRequest("/upload", url.Values{
		"contentType":   {"url"},
		"qrName":        {"Docs"},
		"url":           {"https://example.com/path"},
		"selfDestruct":  {"on"},
		"destructViews": {"on"},
		"viewsValue":    {"3"},
	}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "view=customize")
	assert.Contains(t, body, "https://zaplink.example.com/abc123")
	assert.Contains(t, body, "Step=Step 3 of 3")

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/zaps/upload", reqs[0].Path)
	assert.Equal(t, "Docs", reqs[0].Form["name"])
	assert.Equal(t, "URL", reqs[0].Form["type"])
	assert.Equal(t, "https://example.com/path", reqs[0].Form["originalUrl"])
	assert.Equal(t, "3", reqs[0].Form["viewLimit"])
}

func TestUploadFile(t *testing.T) {
	backend := testutil.NewBackend(t)
	app := newTestApp(t, backend)

	req := multipartRequest(t, "/upload", map[string]string{
		"contentType": "pdf",
		"qrName":      "Report",
	}, "report.pdf", []byte("%PDF-1.4"))
	resp, body := do(t, app, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode, body)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "report.pdf", reqs[0].FileName)
	assert.Equal(t, "PDF", reqs[0].Form["type"])
}

func TestUploadFileWrongExtension(t *testing.T) {
	backend := testutil.NewBackend(t)
	app := newTestApp(t, backend)

	req := multipartRequest(t, "/upload", map[string]string{
		"contentType": "pdf",
		"qrName":      "Report",
	}, "report.docx", []byte("PK"))
	resp, body := do(t, app, req)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Supports: .pdf only")
	assert.Empty(t, backend.Requests())
}

func TestUploadFailureKeepsWizardState(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.OnUpload(testutil.Response{
		Status: http.StatusInternalServerError,
		Body:   map[string]any{"message": "Storage full"},
	})
	app := newTestApp(t, backend)

	resp, body := do(t, app, formRequest("/upload", url.Values{
		"contentType": {"text"},
		"qrName":      {"Shopping list"},
		"textContent": {"milk"},
	}))
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "Upload failed: Storage full")

	_, body = do(t, app, httptest.NewRequest(http.MethodGet, "/upload", nil), resp.Cookies()...)
	assert.Contains(t, body, "Shopping list")
	assert.Contains(t, body, "IsText=true")
}

func TestUploadResetClearsState(t *testing.T) {
	app := newTestApp(t, testutil.NewBackend(t))

	resp, _ := do(t, app, formRequest("/upload", url.Values{
		"contentType": {"text"},
		"qrName":      {"Shopping list"},
	}))
	cookies := resp.Cookies()

	resp, _ = do(t, app, formRequest("/upload/reset", nil), cookies...)
	assert.Equal(t, "/upload?type=text", resp.Header.Get("Location"))

	_, body := do(t, app, httptest.NewRequest(http.MethodGet, "/upload?type=text", nil), cookies...)
	assert.NotContains(t, body, "Shopping list")
}

func TestZapErrorParamSkipsBackend(t *testing.T) {
	backend := testutil.NewBackend(t)
	app := newTestApp(t, backend)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/zaps/abc123?error=expired", nil))
	assert.Equal(t, http.StatusGone, resp.StatusCode)
	assert.Contains(t, body, "view=zap_error")
	assert.Contains(t, body, "Heading=Link Expired")
	assert.Empty(t, backend.Requests())
}

func TestZapNotFound(t *testing.T) {
	app := newTestApp(t, testutil.NewBackend(t))

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/zaps/missing", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Heading=Not Found")
}

func TestZapPasswordFlow(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Protect("secret", "hunter2", testutil.Response{
		Status: http.StatusOK,
		Body:   map[string]any{"type": "text", "name": "Plan", "content": `<script>alert("x")</script> & more`},
	})
	app := newTestApp(t, backend)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/zaps/secret", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "view=zap_password")
	assert.Contains(t, body, "Message=\n")

	resp, body = do(t, app, formRequest("/zaps/secret", url.Values{"password": {"wrong"}}))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Message=Incorrect password. Please try again.")

	resp, body = do(t, app, formRequest("/zaps/secret", url.Values{"password": {"hunter2"}}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Security-Policy"), "default-src 'none'")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt; &amp; more")
}

func TestZapEmptyPasswordSkipsBackend(t *testing.T) {
	backend := testutil.NewBackend(t)
	app := newTestApp(t, backend)

	_, body := do(t, app, formRequest("/zaps/secret", url.Values{"password": {"  "}}))
	assert.Contains(t, body, "Message=Password required.")
	assert.Empty(t, backend.Requests())
}

func TestZapRedirect(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.OnResolve("go", testutil.Response{
		Status: http.StatusOK,
		Body:   map[string]any{"type": "redirect", "url": "https://example.com/landing"},
	})
	app := newTestApp(t, backend)

	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/zaps/go", nil))
	assert.GreaterOrEqual(t, resp.StatusCode, 300)
	assert.Less(t, resp.StatusCode, 400)
	assert.Equal(t, "https://example.com/landing", resp.Header.Get("Location"))
}

func TestZapRedirectRejectsScriptURL(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.OnResolve("bad", testutil.Response{
		Status: http.StatusOK,
		Body:   map[string]any{"type": "redirect", "url": "javascript:alert(1)"},
	})
	app := newTestApp(t, backend)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/zaps/bad", nil))
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "view=zap_error")
	assert.Empty(t, resp.Header.Get("Location"))
}

func TestZapNonJSONAnswerIsNotForwarded(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Protect("doc", "hunter2", testutil.Response{
		Status:      http.StatusOK,
		Raw:         []byte("%PDF-1.7"),
		ContentType: "application/pdf",
	})
	app := newTestApp(t, backend)

	resp, body := do(t, app, formRequest("/zaps/doc", url.Values{"password": {"hunter2"}}))
	assert.Empty(t, resp.Header.Get("Location"))
	assert.NotContains(t, body, "hunter2")
	assert.Contains(t, body, "Message="+resolve.MsgUnexpected)
	assert.Len(t, backend.Requests(), 1)
}

func TestZapViewLimitOnRetry(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.OnResolve("gone", testutil.Response{
		Status: http.StatusGone,
		Body:   map[string]any{"message": "This zap has expired"},
	})
	app := newTestApp(t, backend)

	resp, body := do(t, app, formRequest("/zaps/gone", url.Values{"password": {"pw"}}))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "Heading=View Limit Exceeded")
}

func TestCustomizeDemoLink(t *testing.T) {
	app := newTestApp(t, testutil.NewBackend(t))

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/customize", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Demo=true")
	assert.Contains(t, body, DemoShortURL)
	assert.Contains(t, body, "<svg")
}

func TestCustomizePreviewInvalidColor(t *testing.T) {
	app := newTestApp(t, testutil.NewBackend(t))

	resp, body := do(t, app, formRequest("/customize", url.Values{
		"shortUrl":   {"https://zaplink.example.com/abc123"},
		"frameStyle": {"rounded"},
		"frameColor": {"not-a-color"},
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "invalid color")
}

func TestCustomizeDownload(t *testing.T) {
	app := newTestApp(t, testutil.NewBackend(t))

	resp, body := do(t, app, formRequest("/customize/download", url.Values{
		"shortUrl":   {"https://zaplink.example.com/abc123"},
		"name":       {"My Menu"},
		"frameStyle": {"rounded"},
		"frameText":  {"Scan me"},
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "zaplink-qr-My-Menu.png")

	img, err := png.Decode(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, qrrender.CanvasSize, img.Bounds().Dx())
	assert.Equal(t, qrrender.CanvasSize+qrrender.CaptionHeight, img.Bounds().Dy())
}

func TestShortenValidatesURL(t *testing.T) {
	backend := testutil.NewBackend(t)
	app := newTestApp(t, backend)

	resp, _ := do(t, app, formRequest("/shorten", url.Values{"url": {"example.com"}}))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, backend.Requests())

	resp, body := do(t, app, formRequest("/shorten", url.Values{"url": {"https://example.com/long"}}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "ShortURL=https://zaplink.example.com/s/xyz")
	assert.Contains(t, body, "CustomizeURL=/customize?")
}
