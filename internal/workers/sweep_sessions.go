package workers

import (
	"context"
	"time"

	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/metrics"
	"github.com/cryptguard/cryptguard/internal/store"
)

// sessionSweepWorker deletes session rows past their expiry so stale refresh
// chains do not accumulate in the database.
type sessionSweepWorker struct {
	sessions store.SessionRepository
	interval time.Duration

	logger *logger.Logger
}

func NewSessionSweepWorker(sessions store.SessionRepository, interval time.Duration, log *logger.Logger) Worker {
	return &sessionSweepWorker{
		sessions: sessions,
		interval: interval,
		logger:   log,
	}
}

func (w *sessionSweepWorker) Run() {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for range ticker.C {
			w.sweep()
		}
	}()
}

func (w *sessionSweepWorker) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	deleted, err := w.sessions.DeleteExpiredSessions(ctx)
	if err != nil {
		w.logger.Err(err).Msg("session sweep failed")
		return
	}
	if deleted > 0 {
		metrics.AddSweptSessions(deleted)
		w.logger.Info().Int64("deleted", deleted).Msg("expired sessions swept")
	}

	remaining, err := w.sessions.CountActiveSessions(ctx)
	if err != nil {
		w.logger.Warn().Err(err).Msg("active session count failed")
		return
	}
	metrics.SetActiveSessions(float64(remaining))
}
