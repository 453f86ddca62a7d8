package workers

import (
	"time"

	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/replay"
)

// replaySweepWorker periodically evicts expired nonces from the in-memory
// replay guard so its footprint stays bounded by the replay window.
type replaySweepWorker struct {
	guard    replay.Sweeper
	interval time.Duration

	logger *logger.Logger
}

// NewReplaySweepWorker returns a worker sweeping guard every interval.
// Returns nil when guard does not support sweeping (e.g. the Redis guard,
// which expires nonces by TTL).
func NewReplaySweepWorker(guard replay.Guard, interval time.Duration, log *logger.Logger) Worker {
	sweeper, ok := guard.(replay.Sweeper)
	if !ok {
		return nil
	}
	return &replaySweepWorker{
		guard:    sweeper,
		interval: interval,
		logger:   log,
	}
}

func (w *replaySweepWorker) Run() {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for range ticker.C {
			if evicted := w.guard.Sweep(); evicted > 0 {
				w.logger.Debug().Int("evicted", evicted).Msg("replay nonce sweep")
			}
		}
	}()
}
