// Package session implements the client-side inactivity timer: a small state
// machine that walks a session from Active through Warning to Expired against
// an injectable clock, throttles activity-based resets, and persists the
// session start so a restarted client resumes mid-session instead of getting
// a fresh window.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cryptguard/cryptguard/internal/config"
	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/store"
)

// State is the lifecycle phase of the client session timer.
type State int

const (
	// StateInactive means no session is running.
	StateInactive State = iota

	// StateActive means the session is running with more than the warning
	// lead remaining.
	StateActive

	// StateWarning means expiry is at most the warning lead away.
	StateWarning

	// StateExpired means the session ran out. The expiry callback has fired
	// exactly once; only Start leaves this state.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActive:
		return "active"
	case StateWarning:
		return "warning"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

const (
	defaultDuration               = 15 * time.Minute
	defaultWarningLead            = time.Minute
	defaultActivityResetThreshold = 5 * time.Minute
	defaultTickInterval           = time.Second
)

// Clock abstracts time for the timer so tests can drive transitions
// deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// Callbacks are the timer's outbound signals. Either may be nil. Both are
// invoked outside the timer's lock, so a callback may call back into the
// timer (e.g. Extend from the warning prompt, End from the expiry handler).
type Callbacks struct {
	// OnWarning fires once per session window when the remaining time
	// first drops to the warning lead.
	OnWarning func(remaining time.Duration)

	// OnExpired fires exactly once per session window when the session
	// runs out.
	OnExpired func()
}

// Timer is the client session state machine. All methods are safe for
// concurrent use.
type Timer struct {
	mu           sync.Mutex
	state        State
	startedAt    time.Time
	lastActivity time.Time
	expiredFired bool

	accountID     int64
	walletAddress string

	duration               time.Duration
	warningLead            time.Duration
	activityResetThreshold time.Duration

	clock     Clock
	callbacks Callbacks
	states    store.LocalSessionRepository
	logger    *logger.Logger
}

// NewTimer builds a session timer from cfg, filling zero durations with the
// defaults (15m window, 1m warning lead, 5m activity reset threshold).
// states may be nil, in which case nothing is persisted and Resume never
// finds a session.
func NewTimer(cfg config.ClientSession, states store.LocalSessionRepository, clock Clock, callbacks Callbacks, log *logger.Logger) *Timer {
	if cfg.Duration <= 0 {
		cfg.Duration = defaultDuration
	}
	if cfg.WarningLead <= 0 {
		cfg.WarningLead = defaultWarningLead
	}
	if cfg.ActivityResetThreshold <= 0 {
		cfg.ActivityResetThreshold = defaultActivityResetThreshold
	}
	if clock == nil {
		clock = SystemClock()
	}

	return &Timer{
		duration:               cfg.Duration,
		warningLead:            cfg.WarningLead,
		activityResetThreshold: cfg.ActivityResetThreshold,
		clock:                  clock,
		callbacks:              callbacks,
		states:                 states,
		logger:                 log,
	}
}

// State returns the current lifecycle phase.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Remaining returns how much of the session window is left, or zero when no
// session is running.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateActive && t.state != StateWarning {
		return 0
	}
	remaining := t.duration - t.clock.Now().Sub(t.startedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Start begins a fresh session window for the given account and persists its
// start instant.
func (t *Timer) Start(ctx context.Context, accountID int64, walletAddress string) error {
	t.mu.Lock()
	now := t.clock.Now()
	t.state = StateActive
	t.startedAt = now
	t.lastActivity = now
	t.expiredFired = false
	t.accountID = accountID
	t.walletAddress = walletAddress
	t.mu.Unlock()

	return t.persist(ctx)
}

// Resume restores a persisted session start from a previous run. It returns
// the restored state and true when a live session was found. A persisted
// session that already ran out is cleared and not restored.
func (t *Timer) Resume(ctx context.Context) (store.LocalSessionState, bool, error) {
	if t.states == nil {
		return store.LocalSessionState{}, false, nil
	}

	persisted, err := t.states.LoadSessionState(ctx)
	if err != nil {
		if errors.Is(err, store.ErrLocalSessionNotFound) {
			return store.LocalSessionState{}, false, nil
		}
		return store.LocalSessionState{}, false, err
	}

	t.mu.Lock()
	now := t.clock.Now()
	if now.Sub(persisted.StartedAt) >= t.duration {
		t.mu.Unlock()
		if err = t.states.ClearSessionState(ctx); err != nil {
			t.logger.Warn().Err(err).Msg("clear stale persisted session")
		}
		return store.LocalSessionState{}, false, nil
	}

	t.state = StateActive
	t.startedAt = persisted.StartedAt
	t.lastActivity = now
	t.expiredFired = false
	t.accountID = persisted.AccountID
	t.walletAddress = persisted.WalletAddress
	t.mu.Unlock()

	// A resumed session may already be inside the warning lead.
	t.Tick(ctx)

	return persisted, true, nil
}

// RecordActivity notes user activity. To keep persistence writes rare, the
// window only restarts once the session is at least the activity threshold
// old; earlier activity is remembered but does not reset. Activity on an
// expired or inactive timer is ignored.
func (t *Timer) RecordActivity(ctx context.Context) {
	t.mu.Lock()
	if t.state != StateActive && t.state != StateWarning {
		t.mu.Unlock()
		return
	}

	now := t.clock.Now()
	elapsed := now.Sub(t.startedAt)
	if elapsed >= t.duration {
		// Out of time; the next tick fires the expiry.
		t.mu.Unlock()
		return
	}

	t.lastActivity = now
	if elapsed < t.activityResetThreshold {
		t.mu.Unlock()
		return
	}

	t.restartLocked(now)
	t.mu.Unlock()

	if err := t.persist(ctx); err != nil {
		t.logger.Warn().Err(err).Msg("persist session restart")
	}
}

// Extend unconditionally restarts the session window. Used by the warning
// prompt's "stay signed in" action. A timer with no running session is left
// alone.
func (t *Timer) Extend(ctx context.Context) {
	t.mu.Lock()
	if t.state != StateActive && t.state != StateWarning {
		t.mu.Unlock()
		return
	}
	t.restartLocked(t.clock.Now())
	t.mu.Unlock()

	if err := t.persist(ctx); err != nil {
		t.logger.Warn().Err(err).Msg("persist session extension")
	}
}

// End stops the timer and clears the persisted session start. Ending an
// already inactive timer is a no-op.
func (t *Timer) End(ctx context.Context) error {
	t.mu.Lock()
	t.state = StateInactive
	t.startedAt = time.Time{}
	t.lastActivity = time.Time{}
	t.expiredFired = false
	t.accountID = 0
	t.walletAddress = ""
	t.mu.Unlock()

	if t.states == nil {
		return nil
	}
	return t.states.ClearSessionState(ctx)
}

// Tick evaluates the state machine against the current clock reading and
// fires any due callbacks. Production code drives it from Run; tests call it
// directly after advancing a fake clock.
func (t *Timer) Tick(ctx context.Context) {
	t.mu.Lock()

	if t.state != StateActive && t.state != StateWarning {
		t.mu.Unlock()
		return
	}

	remaining := t.duration - t.clock.Now().Sub(t.startedAt)

	var fireWarning bool
	var fireExpired bool

	switch {
	case remaining <= 0:
		t.state = StateExpired
		if !t.expiredFired {
			t.expiredFired = true
			fireExpired = true
		}
	case remaining <= t.warningLead:
		if t.state == StateActive {
			t.state = StateWarning
			fireWarning = true
		}
	}
	t.mu.Unlock()

	if fireWarning && t.callbacks.OnWarning != nil {
		t.callbacks.OnWarning(remaining)
	}
	if fireExpired {
		if t.states != nil {
			if err := t.states.ClearSessionState(ctx); err != nil {
				t.logger.Warn().Err(err).Msg("clear persisted session on expiry")
			}
		}
		t.logger.Info().Msg("session expired")
		if t.callbacks.OnExpired != nil {
			t.callbacks.OnExpired()
		}
	}
}

// Run drives Tick on a fixed interval until ctx is cancelled. interval zero
// or negative falls back to one second.
func (t *Timer) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultTickInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick(ctx)
		}
	}
}

// restartLocked resets the window from now. Caller holds the lock.
func (t *Timer) restartLocked(now time.Time) {
	t.state = StateActive
	t.startedAt = now
	t.lastActivity = now
	t.expiredFired = false
}

func (t *Timer) persist(ctx context.Context) error {
	if t.states == nil {
		return nil
	}

	t.mu.Lock()
	state := store.LocalSessionState{
		AccountID:      t.accountID,
		WalletAddress:  t.walletAddress,
		StartedAt:      t.startedAt,
		LastActivityAt: t.lastActivity,
	}
	t.mu.Unlock()

	return t.states.SaveSessionState(ctx, state)
}
