package db

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
)

// SessionStorage keeps wizard sessions in postgres. It implements
// fiber.Storage. Expiry is stored as a unix timestamp; zero means none.
type SessionStorage struct {
	db     *DB
	closed atomic.Bool
	now    func() time.Time
}

// NewSessionStorage creates a storage over database. The pool stays owned by
// the caller.
func NewSessionStorage(database *DB) *SessionStorage {
	return &SessionStorage{db: database, now: time.Now}
}

// GetWithContext returns nil, nil for a missing or expired key.
func (s *SessionStorage) GetWithContext(ctx context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrStorageClosed
	}
	if key == "" {
		return nil, nil
	}

	var (
		val []byte
		exp int64
	)
	err := s.db.Pool.QueryRow(ctx, `SELECT v, e FROM sessions WHERE k = $1`, key).Scan(&val, &exp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if exp != 0 && exp <= s.now().Unix() {
		return nil, nil
	}
	return val, nil
}

// Get returns nil, nil for a missing or expired key.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	return s.GetWithContext(context.Background(), key)
}

// SetWithContext stores val under key. A zero exp never expires.
func (s *SessionStorage) SetWithContext(ctx context.Context, key string, val []byte, exp time.Duration) error {
	if s.closed.Load() {
		return ErrStorageClosed
	}
	if key == "" || len(val) == 0 {
		return nil
	}

	var expiry int64
	if exp > 0 {
		expiry = s.now().Add(exp).Unix()
	}
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO sessions (k, v, e, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, e = EXCLUDED.e, updated_at = NOW()
	`, key, val, expiry)
	return err
}

// Set stores val under key. A zero exp never expires.
func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.SetWithContext(context.Background(), key, val, exp)
}

// DeleteWithContext removes key.
func (s *SessionStorage) DeleteWithContext(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrStorageClosed
	}
	if key == "" {
		return nil
	}
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM sessions WHERE k = $1`, key)
	return err
}

// Delete removes key.
func (s *SessionStorage) Delete(key string) error {
	return s.DeleteWithContext(context.Background(), key)
}

// ResetWithContext removes every session.
func (s *SessionStorage) ResetWithContext(ctx context.Context) error {
	if s.closed.Load() {
		return ErrStorageClosed
	}
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM sessions`)
	return err
}

// Reset removes every session.
func (s *SessionStorage) Reset() error {
	return s.ResetWithContext(context.Background())
}

// Close marks the storage closed. The pool is closed by its owner.
func (s *SessionStorage) Close() error {
	s.closed.Store(true)
	return nil
}

// DeleteExpired removes expired sessions and returns how many were removed.
func (s *SessionStorage) DeleteExpired(ctx context.Context) (int64, error) {
	if s.closed.Load() {
		return 0, ErrStorageClosed
	}
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM sessions WHERE e > 0 AND e <= $1`, s.now().Unix())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CountActive returns the number of unexpired sessions.
func (s *SessionStorage) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sessions WHERE e = 0 OR e > $1`, s.now().Unix(),
	).Scan(&n)
	return n, err
}

// Ping checks the underlying connection.
func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
