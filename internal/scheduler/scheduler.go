package scheduler

import (
	"context"
	"time"

	"github.com/example/laundry-scheduler/internal/application/usecases"
	"go.uber.org/zap"
)

// Scheduler periodically discards scheduling sessions nobody has touched
// for Idle. On shutdown it closes every remaining session.
type Scheduler struct {
	Sessions *usecases.SessionStore
	Interval time.Duration
	Idle     time.Duration
	Log      *zap.Logger
	Now      func() time.Time
}

func (s *Scheduler) Run(ctx context.Context) error {
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			// ctx is already cancelled; give pending publishes their own deadline
			closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			s.Sessions.CloseAll(closeCtx)
			cancel()
			return ctx.Err()
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	if n := s.Sessions.Sweep(ctx, now, s.Idle); n > 0 {
		s.Log.Info("sweeper: discarded idle sessions", zap.Int("count", n), zap.Int("remaining", s.Sessions.Len()))
	}
}
