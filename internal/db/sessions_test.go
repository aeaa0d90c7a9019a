package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStorage connects to TEST_DATABASE_URL and skips when it is unset.
func newTestStorage(t *testing.T) *SessionStorage {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := New(ctx, connString)
	require.NoError(t, err, "failed to connect to test database")

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		database.Pool.Exec(ctx, "DELETE FROM sessions")
		database.Close()
	})

	return NewSessionStorage(database)
}

func TestSessionStorage_SetGet(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Set("sess-1", []byte("payload"), time.Hour))

	got, err := s.Get("sess-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	require.NoError(t, s.Set("sess-1", []byte("updated"), 0))
	got, err = s.Get("sess-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), got)
}

func TestSessionStorage_MissingKey(t *testing.T) {
	s := newTestStorage(t)

	got, err := s.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStorage_Expiry(t *testing.T) {
	s := newTestStorage(t)
	base := time.Now()
	s.now = func() time.Time { return base }

	require.NoError(t, s.Set("short", []byte("x"), time.Minute))
	require.NoError(t, s.Set("forever", []byte("y"), 0))

	s.now = func() time.Time { return base.Add(2 * time.Minute) }

	got, err := s.Get("short")
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := s.CountActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	removed, err := s.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	got, err = s.Get("forever")
	require.NoError(t, err)
	assert.Equal(t, []byte("y"), got)
}

func TestSessionStorage_DeleteAndReset(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))

	require.NoError(t, s.Delete("a"))
	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Reset())
	got, err = s.Get("b")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStorage_Closed(t *testing.T) {
	s := NewSessionStorage(nil)
	require.NoError(t, s.Close())

	_, err := s.Get("a")
	assert.ErrorIs(t, err, ErrStorageClosed)
	assert.ErrorIs(t, s.Set("a", []byte("1"), 0), ErrStorageClosed)
	assert.ErrorIs(t, s.Delete("a"), ErrStorageClosed)
	assert.ErrorIs(t, s.Reset(), ErrStorageClosed)
	_, err = s.DeleteExpired(context.Background())
	assert.ErrorIs(t, err, ErrStorageClosed)
}

func TestSessionStorage_IgnoresEmptyKey(t *testing.T) {
	s := NewSessionStorage(nil)

	got, err := s.Get("")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, s.Set("", []byte("x"), 0))
	assert.NoError(t, s.Set("k", nil, 0))
	assert.NoError(t, s.Delete(""))
}
