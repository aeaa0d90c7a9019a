package jobs

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"zaplink/internal/metrics"
)

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendMonitor probes the backend on an interval and records the result
// for the readiness probe and the backend_up gauge.
type BackendMonitor struct {
	backend  Pinger
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
	healthy  atomic.Bool
	checked  atomic.Bool
}

// NewBackendMonitor creates a new backend monitor.
func NewBackendMonitor(backend Pinger, interval time.Duration, logger zerolog.Logger) *BackendMonitor {
	return &BackendMonitor{
		backend:  backend,
		interval: interval,
		timeout:  5 * time.Second,
		logger:   logger,
	}
}

// Start probes immediately, then on every tick until ctx is done.
func (m *BackendMonitor) Start(ctx context.Context) {
	m.logger.Info().Dur("interval", m.interval).Msg("backend monitor started")

	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("backend monitor stopped")
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check runs one probe and returns its result.
func (m *BackendMonitor) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.backend.Ping(ctx)
	up := err == nil
	if was := m.healthy.Swap(up); was != up || !m.checked.Load() {
		if up {
			m.logger.Info().Msg("backend reachable")
		} else {
			m.logger.Warn().Err(err).Msg("backend unreachable")
		}
	}
	m.checked.Store(true)
	metrics.SetBackendUp(up)
	return up
}

// Healthy reports the last probe result. It is true before the first probe
// so the server is not held out of rotation while starting.
func (m *BackendMonitor) Healthy() bool {
	if !m.checked.Load() {
		return true
	}
	return m.healthy.Load()
}
