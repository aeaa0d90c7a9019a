package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Uploads.WithLabelValues("PDF", "success").Inc()
	m.Uploads.WithLabelValues("PDF", "success").Inc()
	m.Resolves.WithLabelValues("password_required").Inc()
	m.QRExports.WithLabelValues("rounded", "png").Inc()
	m.BackendUp.Set(1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Uploads.WithLabelValues("PDF", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolves.WithLabelValues("password_required")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QRExports.WithLabelValues("rounded", "png")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendUp))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestInitIsIdempotent(t *testing.T) {
	first := Init()
	second := Init()
	assert.Same(t, first, second)

	RecordUpload("URL", "invalid")
	RecordResolve("resolved")
	RecordQRExport("none", "svg")
	SetBackendUp(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(first.Uploads.WithLabelValues("URL", "invalid")))
	assert.Equal(t, 0.0, testutil.ToFloat64(first.BackendUp))
}

type fakeCounter struct {
	n   int64
	err error
}

func (f fakeCounter) CountActive(context.Context) (int64, error) { return f.n, f.err }

func TestSessionCollector(t *testing.T) {
	c := NewSessionCollector(fakeCounter{n: 7})

	expected := `
# HELP zaplink_sessions_active Unexpired wizard sessions held in session storage
# TYPE zaplink_sessions_active gauge
zaplink_sessions_active 7
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))
}

func TestSessionCollectorError(t *testing.T) {
	c := NewSessionCollector(fakeCounter{err: errors.New("db down")})
	assert.Equal(t, 0, testutil.CollectAndCount(c))
}
