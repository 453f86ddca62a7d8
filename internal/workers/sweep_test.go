package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/replay"
	"github.com/cryptguard/cryptguard/models"
)

// nonSweepableGuard implements replay.Guard without the Sweeper extension.
type nonSweepableGuard struct{}

func (nonSweepableGuard) Remember(ctx context.Context, nonce string) error { return nil }

type stubSessionRepository struct {
	deleteExpiredFn func(ctx context.Context) (int64, error)
	countActiveFn   func(ctx context.Context) (int64, error)
}

func (s *stubSessionRepository) CreateSession(ctx context.Context, session models.Session) (models.Session, error) {
	return session, nil
}

func (s *stubSessionRepository) FindSessionByRefreshHash(ctx context.Context, refreshTokenHash string) (models.Session, error) {
	return models.Session{}, nil
}

func (s *stubSessionRepository) RotateSession(ctx context.Context, oldRefreshTokenHash, newAccessTokenHash, newRefreshTokenHash string, expiresAt time.Time) (models.Session, error) {
	return models.Session{}, nil
}

func (s *stubSessionRepository) DeleteSessionsByAccount(ctx context.Context, accountID int64) error {
	return nil
}

func (s *stubSessionRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	if s.deleteExpiredFn != nil {
		return s.deleteExpiredFn(ctx)
	}
	return 0, nil
}

func (s *stubSessionRepository) CountActiveSessions(ctx context.Context) (int64, error) {
	if s.countActiveFn != nil {
		return s.countActiveFn(ctx)
	}
	return 0, nil
}

func TestNewReplaySweepWorker_MemoryGuard(t *testing.T) {
	worker := NewReplaySweepWorker(replay.NewMemoryGuard(time.Minute), time.Minute, logger.Nop())

	assert.NotNil(t, worker)
}

func TestNewReplaySweepWorker_NonSweepableGuard(t *testing.T) {
	worker := NewReplaySweepWorker(nonSweepableGuard{}, time.Minute, logger.Nop())

	assert.Nil(t, worker)
}

func TestSessionSweepWorker_SweepDeletesExpired(t *testing.T) {
	var calls int
	repo := &stubSessionRepository{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			calls++
			return 3, nil
		},
	}

	worker := NewSessionSweepWorker(repo, time.Minute, logger.Nop())
	sweeper, ok := worker.(*sessionSweepWorker)
	require.True(t, ok)

	sweeper.sweep()

	assert.Equal(t, 1, calls)
}

func TestSessionSweepWorker_SweepSurvivesErrors(t *testing.T) {
	repo := &stubSessionRepository{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			return 0, errors.New("connection reset")
		},
	}

	worker := NewSessionSweepWorker(repo, time.Minute, logger.Nop())
	sweeper := worker.(*sessionSweepWorker)

	// must not panic
	sweeper.sweep()
	sweeper.sweep()
}

func TestNewWorkers_SkipsNil(t *testing.T) {
	w := &mockWorker{}

	aggregate := NewWorkers(nil, w, nil)
	aggregate.Run()

	assert.Equal(t, 1, w.runCount)
	assert.Len(t, aggregate.workers, 1)
}

func TestSessionSweepWorker_SweepRefreshesActiveCount(t *testing.T) {
	var counted bool
	repo := &stubSessionRepository{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			return 2, nil
		},
		countActiveFn: func(ctx context.Context) (int64, error) {
			counted = true
			return 5, nil
		},
	}

	worker := NewSessionSweepWorker(repo, time.Minute, logger.Nop())
	sweeper, ok := worker.(*sessionSweepWorker)
	require.True(t, ok)

	sweeper.sweep()

	assert.True(t, counted, "sweep must refresh the live session count")
}
