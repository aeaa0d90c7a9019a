// Package formstate persists upload wizard fields for the lifetime of a browser session,
// so a reload or an accidental navigation does not lose what the user typed.
package formstate

import (
	"sync"

	"github.com/gofiber/fiber/v3/middleware/session"
)

// Persisted field keys.
const (
	KeyQRName          = "qrName"
	KeyPasswordProtect = "passwordProtect"
	KeySelfDestruct    = "selfDestruct"
	KeyDestructViews   = "destructViews"
	KeyDestructTime    = "destructTime"
	KeyViewsValue      = "viewsValue"
	KeyTimeValue       = "timeValue"
	KeyContentType     = "contentType"
)

// Keys lists every key owned by the wizard.
var Keys = []string{
	KeyQRName,
	KeyPasswordProtect,
	KeySelfDestruct,
	KeyDestructViews,
	KeyDestructTime,
	KeyViewsValue,
	KeyTimeValue,
	KeyContentType,
}

// Repository is a session-scoped key-value store for wizard fields.
type Repository interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Clear()
}

// MemoryRepository is an in-process Repository, used in tests and when no session exists.
type MemoryRepository struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: make(map[string]string)}
}

func (r *MemoryRepository) Get(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	return v, ok
}

func (r *MemoryRepository) Set(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
}

func (r *MemoryRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.values)
}

// Len returns the number of stored keys.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// SessionRepository stores wizard fields in the Fiber session of the current request.
// The session middleware saves changes when the handler returns.
type SessionRepository struct {
	sess *session.Middleware
}

// NewSessionRepository wraps a session obtained from session.FromContext.
func NewSessionRepository(sess *session.Middleware) *SessionRepository {
	return &SessionRepository{sess: sess}
}

func (r *SessionRepository) Get(key string) (string, bool) {
	v, ok := r.sess.Get(key).(string)
	return v, ok
}

func (r *SessionRepository) Set(key, value string) {
	r.sess.Set(key, value)
}

// Clear removes the wizard keys only; other session data is left alone.
func (r *SessionRepository) Clear() {
	for _, k := range Keys {
		r.sess.Delete(k)
	}
}

// ID returns the session id, used to scope per-session guards.
func (r *SessionRepository) ID() string {
	return r.sess.ID()
}
