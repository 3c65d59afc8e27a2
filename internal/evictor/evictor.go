package evictor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/pricing-board/internal/store"
)

// Target is the store being maintained.
type Target interface {
	EvictEligible() store.EvictResult
}

// Observer receives the outcome of every run.
type Observer interface {
	RecordEviction(records int)
}

// Config holds evictor configuration.
type Config struct {
	RunAt      string // Local time of day, "HH:MM" (default: "00:00")
	RunOnStart bool   // Run once immediately on Start
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{RunAt: "00:00"}
}

// ParseRunAt parses an "HH:MM" time of day.
func ParseRunAt(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("run_at %q: want HH:MM", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// NextRun returns the first instant strictly after now at the given
// offset from local midnight.
func NextRun(now time.Time, offset time.Duration) time.Time {
	y, m, d := now.Date()
	next := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Add(offset)
	if !next.After(now) {
		next = time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Add(offset)
	}
	return next
}

// Evictor periodically evicts aged records from a store.
type Evictor struct {
	cfg      Config
	offset   time.Duration
	target   Target
	observer Observer
	logger   *slog.Logger
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	lastRun time.Time
	last    store.EvictResult
}

// New creates an Evictor. observer may be nil.
func New(cfg Config, target Target, observer Observer, logger *slog.Logger) (*Evictor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RunAt == "" {
		cfg.RunAt = DefaultConfig().RunAt
	}
	offset, err := ParseRunAt(cfg.RunAt)
	if err != nil {
		return nil, err
	}
	return &Evictor{
		cfg:      cfg,
		offset:   offset,
		target:   target,
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Start begins the daily schedule.
func (e *Evictor) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(1)
	go e.run()

	e.logger.Info("evictor started",
		"run_at", e.cfg.RunAt,
		"run_on_start", e.cfg.RunOnStart,
		"next_run", NextRun(e.now(), e.offset),
	)

	return nil
}

// Stop waits for an in-flight run to finish.
func (e *Evictor) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("evictor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce evicts immediately and returns what was removed.
func (e *Evictor) RunOnce() store.EvictResult {
	start := e.now()
	res := e.target.EvictEligible()

	e.mu.Lock()
	e.lastRun = start
	e.last = res
	e.mu.Unlock()

	if e.observer != nil {
		e.observer.RecordEviction(res.Records)
	}

	e.logger.Info("eviction complete",
		"cutoff", res.Cutoff.String(),
		"records", res.Records,
		"buckets", res.Buckets,
		"duration", time.Since(start),
	)
	return res
}

// LastRun returns when the previous run started and what it removed.
func (e *Evictor) LastRun() (time.Time, store.EvictResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastRun, e.last
}

// run is the scheduling loop.
func (e *Evictor) run() {
	defer e.wg.Done()

	if e.cfg.RunOnStart {
		e.RunOnce()
	}

	for {
		now := e.now()
		timer := time.NewTimer(NextRun(now, e.offset).Sub(now))
		select {
		case <-e.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			e.RunOnce()
		}
	}
}
