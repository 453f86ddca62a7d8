package adapter

import (
	"context"
	"sync"
	"time"

	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/models"
)

const defaultRefreshTimeout = 10 * time.Second

type refreshResult struct {
	pair models.TokenPair
	err  error
}

// RefreshCoordinator serializes token refreshes. When several requests hit a
// 401 at the same moment, exactly one network refresh is performed; every
// other caller parks as a waiter and receives the outcome of that single
// round trip. A failed refresh invokes the onFailure hook once, before any
// waiter is released, so local session state is already torn down when the
// rejections propagate.
type RefreshCoordinator struct {
	mu         sync.Mutex
	refreshing bool
	waiters    []chan refreshResult

	refreshFn func(ctx context.Context) (models.TokenPair, error)
	onFailure func()
	timeout   time.Duration
	logger    *logger.Logger
}

// NewRefreshCoordinator wraps refreshFn in single-flight coordination.
// timeout bounds one refresh round trip; zero or negative falls back to
// defaultRefreshTimeout. onFailure may be nil.
func NewRefreshCoordinator(refreshFn func(ctx context.Context) (models.TokenPair, error), timeout time.Duration, onFailure func(), log *logger.Logger) *RefreshCoordinator {
	if timeout <= 0 {
		timeout = defaultRefreshTimeout
	}

	return &RefreshCoordinator{
		refreshFn: refreshFn,
		onFailure: onFailure,
		timeout:   timeout,
		logger:    log,
	}
}

// Refresh returns the outcome of a coordinated refresh. The caller that
// finds the coordinator idle performs the network call; all others wait for
// its result. A waiter whose own context expires gives up without affecting
// the in-flight refresh.
func (c *RefreshCoordinator) Refresh(ctx context.Context) (models.TokenPair, error) {
	c.mu.Lock()
	if c.refreshing {
		ch := make(chan refreshResult, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		select {
		case res := <-ch:
			return res.pair, res.err
		case <-ctx.Done():
			return models.TokenPair{}, ctx.Err()
		}
	}
	c.refreshing = true
	c.mu.Unlock()

	// The refresh outcome is shared by every waiter, so it must not be
	// cancelled by whichever caller happened to start it.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	pair, err := c.refreshFn(rctx)
	cancel()

	if err != nil {
		c.logger.Warn().Err(err).Msg("token refresh failed, dropping session")
		if c.onFailure != nil {
			c.onFailure()
		}
	}

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.refreshing = false
	c.mu.Unlock()

	res := refreshResult{pair: pair, err: err}
	for _, ch := range waiters {
		ch <- res
	}

	return pair, err
}
