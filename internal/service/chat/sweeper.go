package chat

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultSweepInterval = time.Minute

// Expirer removes sessions idle for longer than ttl.
type Expirer interface {
	ExpireIdle(ctx context.Context, ttl time.Duration) (int, error)
	Count(ctx context.Context) (int, error)
}

// Sweeper periodically expires idle sessions.
type Sweeper struct {
	target   Expirer
	ttl      time.Duration
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewSweeper builds a Sweeper. A non-positive interval uses DefaultSweepInterval.
func NewSweeper(target Expirer, ttl, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		target:   target,
		ttl:      ttl,
		interval: interval,
		logger:   logger.With(zap.String("component", "chat.sweeper")),
	}
}

// Start launches the sweep loop. Calling Start on a running sweeper is a no-op.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	sweepCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(sweepCtx, s.done)
}

// Stop cancels the loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
}

func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Sweeper) run(ctx context.Context, done chan struct{}) {
	defer func() {
		s.mu.Lock()
		s.running = false
		close(done)
		s.mu.Unlock()
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopping")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	removed, err := s.target.ExpireIdle(ctx, s.ttl)
	if err != nil {
		s.logger.Warn("sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("expired idle sessions",
			zap.Int("removed", removed),
			zap.Duration("duration", time.Since(start)))
	}
	if n, err := s.target.Count(ctx); err == nil {
		s.logger.Debug("session stats after sweep", zap.Int("active", n))
	}
}
