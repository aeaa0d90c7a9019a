package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ExpiredDeleter removes expired sessions.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionSweeper periodically removes expired wizard sessions from storage
// that does not expire keys on its own.
type SessionSweeper struct {
	store    ExpiredDeleter
	interval time.Duration
	logger   zerolog.Logger
}

// NewSessionSweeper creates a new session sweeper.
func NewSessionSweeper(store ExpiredDeleter, interval time.Duration, logger zerolog.Logger) *SessionSweeper {
	return &SessionSweeper{store: store, interval: interval, logger: logger}
}

// Start begins the sweep loop. It blocks until ctx is done.
func (s *SessionSweeper) Start(ctx context.Context) {
	s.logger.Info().Dur("interval", s.interval).Msg("session sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("session sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SessionSweeper) sweep(ctx context.Context) {
	n, err := s.store.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("session sweep failed")
		return
	}
	if n > 0 {
		s.logger.Debug().Int64("removed", n).Msg("expired sessions removed")
	}
}
