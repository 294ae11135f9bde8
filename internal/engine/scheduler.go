package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler drives periodic background reconciliation. A tick is skipped
// while a user edit is active, inside the grace window after a local
// mutation, or while a previous pass is still in flight. Stop disarms
// the scheduler before tearing the timer down, so a tick that already
// fired becomes a no-op instead of touching shared state.
type Scheduler struct {
	reconciler *Reconciler
	session    *Session
	interval   time.Duration
	grace      time.Duration
	onRefresh  func()
	logger     *slog.Logger

	armed    atomic.Bool
	inFlight atomic.Bool

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// SchedulerOptions configures the scheduler.
type SchedulerOptions struct {
	// Interval is the reconciliation period.
	Interval time.Duration

	// Grace is how long after a local mutation ticks stay suppressed.
	Grace time.Duration

	// OnRefresh, when set, runs after every completed pass so the
	// presentation layer can re-render.
	OnRefresh func()

	Logger *slog.Logger
}

// NewScheduler creates a scheduler for the reconciler.
func NewScheduler(reconciler *Reconciler, session *Session, opts SchedulerOptions) *Scheduler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		reconciler: reconciler,
		session:    session,
		interval:   opts.Interval,
		grace:      opts.Grace,
		onRefresh:  opts.OnRefresh,
		logger:     logger,
	}
}

// Start arms the scheduler and begins the background loop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.running = true
	s.armed.Store(true)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("sync scheduler started",
		"interval", s.interval,
		"grace_window", s.grace)
}

// Stop disarms the scheduler and waits for any in-flight pass to
// return. It is idempotent. Disarming happens before cancellation so a
// tick that already fired cannot commit results afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.armed.Store(false)
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("sync scheduler stopped")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick(s.ctx)
		case <-s.ctx.Done():
			return
		}
	}
}

// Tick applies the suppression rules and, when none fire, runs one
// reconciliation pass. Exposed so a foreground caller can force the
// same guarded pass the timer drives.
func (s *Scheduler) Tick(ctx context.Context) {
	if !s.armed.Load() {
		return
	}

	if s.session.Editing() {
		s.logger.Debug("sync skipped: edit in progress")
		return
	}

	if since := s.session.SinceLastMutation(); since < s.grace {
		s.logger.Debug("sync skipped: inside grace window", "since_mutation", since)
		return
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Debug("sync skipped: pass already in flight")
		return
	}
	defer s.inFlight.Store(false)

	if err := s.reconciler.Run(ctx); err != nil {
		s.logger.Warn("reconciliation pass abandoned", "error", err)
		return
	}

	if s.onRefresh != nil {
		s.onRefresh()
	}
}
