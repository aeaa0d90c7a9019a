// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"zaplink/internal/db"
	"zaplink/internal/zapapi"
)

// TestDB connects to TEST_DATABASE_URL, runs migrations and skips the test
// when the variable is unset. Session rows are removed on cleanup.
func TestDB(t *testing.T) *db.DB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		database.Pool.Exec(ctx, "DELETE FROM sessions")
		database.Close()
	})

	return database
}

// Request is one call received by the fake backend.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Form holds the non-file multipart fields of an upload.
	Form map[string]string
	// FileName is the name of the uploaded file part, if any.
	FileName string
}

// Response is a canned backend reply.
type Response struct {
	Status   int
	Body     any
	Location string
	// Raw, when set, is sent as-is with ContentType instead of Body as JSON.
	Raw         []byte
	ContentType string
}

// Backend is a fake ZapLink API on an httptest server. Unconfigured short
// links resolve to 404; uploads and shortens succeed by default.
type Backend struct {
	Server *httptest.Server
	Client *zapapi.Client

	mu        sync.Mutex
	requests  []Request
	upload    Response
	shorten   Response
	resolves  map[string]Response
	passwords map[string]string
}

// NewBackend starts a fake backend and a client pointed at it.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		upload: Response{Status: http.StatusOK, Body: map[string]any{"data": map[string]any{
			"zapId":    "zap-1",
			"shortUrl": "https://zaplink.example.com/abc123",
			"qrCode":   "data:image/png;base64,iVBORw0KGgo=",
			"type":     "PDF",
			"name":     "Report",
		}}},
		shorten: Response{Status: http.StatusOK, Body: map[string]any{"data": map[string]any{
			"shortUrl": "https://zaplink.example.com/s/xyz",
			"qrCode":   "data:image/png;base64,iVBORw0KGgo=",
		}}},
		resolves:  make(map[string]Response),
		passwords: make(map[string]string),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)

	b.Client = zapapi.NewClient(zapapi.Config{
		BaseURL: b.Server.URL,
		Timeout: 5 * time.Second,
		Logger:  zerolog.Nop(),
	})
	return b
}

// OnUpload sets the reply to uploads.
func (b *Backend) OnUpload(r Response) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.upload = r
}

// OnShorten sets the reply to shorten requests.
func (b *Backend) OnShorten(r Response) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shorten = r
}

// OnResolve sets the reply for shortID.
func (b *Backend) OnResolve(shortID string, r Response) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resolves[shortID] = r
}

// Protect makes shortID answer 401 until password is sent, then reply r.
// A wrong password answers "Incorrect password".
func (b *Backend) Protect(shortID, password string, r Response) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.passwords[shortID] = password
	b.resolves[shortID] = r
}

// Requests returns every call received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	rec := Request{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query()}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(64 << 20); err == nil {
			rec.Form = make(map[string]string)
			for k, v := range r.MultipartForm.Value {
				rec.Form[k] = v[0]
			}
			if fh := r.MultipartForm.File["file"]; len(fh) > 0 {
				rec.FileName = fh[0].Filename
			}
		}
	}

	b.mu.Lock()
	b.requests = append(b.requests, rec)
	var resp Response
	switch {
	case r.URL.Path == "/api/zaps/upload":
		resp = b.upload
	case r.URL.Path == "/api/zaps/shorten":
		resp = b.shorten
	case strings.HasPrefix(r.URL.Path, "/api/zaps/"):
		resp = b.resolve(strings.TrimPrefix(r.URL.Path, "/api/zaps/"), r.URL.Query().Get("password"))
	default:
		resp = Response{Status: http.StatusNotFound, Body: map[string]any{"message": "Not found"}}
	}
	b.mu.Unlock()

	if resp.Location != "" {
		w.Header().Set("Location", resp.Location)
	}
	if resp.Raw != nil {
		w.Header().Set("Content-Type", resp.ContentType)
		w.WriteHeader(resp.Status)
		_, _ = w.Write(resp.Raw)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	if resp.Body != nil {
		_ = json.NewEncoder(w).Encode(resp.Body)
	}
}

// resolve must be called with mu held.
func (b *Backend) resolve(shortID, password string) Response {
	resp, ok := b.resolves[shortID]
	if !ok {
		return Response{Status: http.StatusNotFound, Body: map[string]any{"message": "Zap not found"}}
	}
	want, protected := b.passwords[shortID]
	switch {
	case !protected:
		return resp
	case password == "":
		return Response{Status: http.StatusUnauthorized, Body: map[string]any{"message": "Password required"}}
	case password != want:
		return Response{Status: http.StatusUnauthorized, Body: map[string]any{"message": "Incorrect password"}}
	default:
		return resp
	}
}
