package throttle

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"
)

// Config holds the throttle parameters.
type Config struct {
	// MaxConsecutive is the number of fetches allowed between cooldowns.
	MaxConsecutive int

	// BaseDelay is the minimum pause before every fetch.
	BaseDelay time.Duration

	// Jitter is the upper bound of the random extra pause added to BaseDelay.
	Jitter time.Duration

	// Cooldown is the pause imposed once MaxConsecutive is reached.
	Cooldown time.Duration

	// InactivityReset resets the counter when no fetch starts for this long.
	InactivityReset time.Duration
}

// DefaultConfig returns the default throttle parameters.
func DefaultConfig() Config {
	return Config{
		MaxConsecutive:  50,
		BaseDelay:       1800 * time.Millisecond,
		Jitter:          400 * time.Millisecond,
		Cooldown:        1500 * time.Millisecond,
		InactivityReset: 10 * time.Second,
	}
}

// SleepFunc suspends for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Stats is a snapshot of the throttle counters.
type Stats struct {
	Consecutive int
	Acquired    int
	Cooldowns   int
	Penalties   int
}

// Throttle is the process-wide request gate. It is safe for concurrent use;
// waits are serialized so the consecutive counter stays exact.
type Throttle struct {
	cfg    Config
	logger *slog.Logger
	sleep  SleepFunc
	jitter func(n int64) int64

	// gate serializes waits. It is a channel so waiters can observe ctx.
	gate chan struct{}

	mu         sync.Mutex
	stats      Stats
	resetTimer *time.Timer
	generation uint64
}

// Option configures a Throttle.
type Option func(*Throttle)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Throttle) {
		t.logger = logger
	}
}

// WithSleep replaces the suspension function. Tests use it to record waits.
func WithSleep(sleep SleepFunc) Option {
	return func(t *Throttle) {
		t.sleep = sleep
	}
}

// WithJitterSource replaces the random source; it must return a value in [0, n).
func WithJitterSource(fn func(n int64) int64) Option {
	return func(t *Throttle) {
		t.jitter = fn
	}
}

// New creates a Throttle.
func New(cfg Config, opts ...Option) *Throttle {
	if cfg.MaxConsecutive < 1 {
		cfg.MaxConsecutive = 1
	}
	t := &Throttle{
		cfg:    cfg,
		logger: slog.Default(),
		sleep:  Sleep,
		jitter: rand.Int64N,
		gate:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Acquire waits until the next fetch may start.
// It returns the context error if ctx is done before or during the wait.
func (t *Throttle) Acquire(ctx context.Context) error {
	if err := t.lock(ctx); err != nil {
		return err
	}
	defer t.unlock()

	t.mu.Lock()
	t.disarmLocked()
	cooldown := t.stats.Consecutive >= t.cfg.MaxConsecutive
	t.mu.Unlock()

	if cooldown {
		t.logger.Debug("throttle cooldown", slog.Duration("pause", t.cfg.Cooldown))
		if err := t.sleep(ctx, t.cfg.Cooldown); err != nil {
			return err
		}
		t.mu.Lock()
		t.stats.Consecutive = 0
		t.stats.Cooldowns++
		t.mu.Unlock()
	} else if err := t.sleep(ctx, t.delay()); err != nil {
		return err
	}

	t.mu.Lock()
	t.stats.Consecutive++
	t.stats.Acquired++
	t.mu.Unlock()
	return nil
}

// Release marks the end of a fetch, successful or not, and re-arms the
// inactivity reset.
func (t *Throttle) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.disarmLocked()
	if t.cfg.InactivityReset <= 0 {
		return
	}
	gen := t.generation
	t.resetTimer = time.AfterFunc(t.cfg.InactivityReset, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.generation == gen {
			t.stats.Consecutive = 0
		}
	})
}

// Penalize forces a cooldown of d after a server-signaled rate limit.
// The consecutive counter restarts afterwards.
func (t *Throttle) Penalize(ctx context.Context, d time.Duration) error {
	if err := t.lock(ctx); err != nil {
		return err
	}
	defer t.unlock()

	t.logger.Info("rate limited, cooling down", slog.Duration("pause", d))
	if err := t.sleep(ctx, d); err != nil {
		return err
	}

	t.mu.Lock()
	t.stats.Consecutive = 0
	t.stats.Penalties++
	t.mu.Unlock()
	return nil
}

// Stats returns a snapshot of the counters.
func (t *Throttle) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Stop cancels the pending inactivity timer.
func (t *Throttle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disarmLocked()
}

func (t *Throttle) delay() time.Duration {
	d := t.cfg.BaseDelay
	if t.cfg.Jitter > 0 {
		d += time.Duration(t.jitter(int64(t.cfg.Jitter)))
	}
	return d
}

func (t *Throttle) lock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case t.gate <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Throttle) unlock() {
	<-t.gate
}

// disarmLocked stops the inactivity timer. The generation bump keeps a timer
// that already fired from resetting a newer run. Callers hold t.mu.
func (t *Throttle) disarmLocked() {
	t.generation++
	if t.resetTimer != nil {
		t.resetTimer.Stop()
		t.resetTimer = nil
	}
}
