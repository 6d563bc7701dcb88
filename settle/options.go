package settle

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// defaultTimeout is the per-task deadline used when WithTimeout is not given.
const defaultTimeout = 30 * time.Second

// Option is a functional option for configuring Run and RunBatch.
type Option func(*runConfig)

type runConfig struct {
	timeout     time.Duration
	maxInFlight int
	onError     func(error, int)
	limiter     *rate.Limiter
	logger      *slog.Logger
}

func newRunConfig(opts ...Option) *runConfig {
	cfg := &runConfig{
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithTimeout sets the per-task deadline. A task that does not settle within
// d yields a failing Result carrying a *TimeoutError.
// If not specified, defaults to 30 seconds. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(cfg *runConfig) {
		if d > 0 {
			cfg.timeout = d
		}
	}
}

// WithMaxInFlight caps the number of tasks simultaneously outstanding.
// If not specified (or n <= 0), every task is started concurrently.
func WithMaxInFlight(n int) Option {
	return func(cfg *runConfig) {
		if n > 0 {
			cfg.maxInFlight = n
		}
	}
}

// WithOnError installs a best-effort observer invoked with each failing
// task's error and index. A panic inside the observer is contained by the
// engine and never changes the outcome of the run.
func WithOnError(fn func(err error, index int)) Option {
	return func(cfg *runConfig) {
		cfg.onError = fn
	}
}

// WithRateLimit throttles task starts to prevent overwhelming external
// services or APIs. tasksPerSecond is the sustained rate, burst the number of
// tasks that may start back to back.
// If not specified, no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 task starts/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *runConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.limiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithLogger installs a structured logger for engine diagnostics (task
// timeouts, contained observer panics). If not specified, the engine is
// silent.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *runConfig) {
		cfg.logger = logger
	}
}

// notifyError invokes the configured error observer for a failing outcome.
// A misbehaving observer must not destabilize the engine, so a panic raised
// by the observer stops here.
func (cfg *runConfig) notifyError(err error, index int) {
	if cfg.onError == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil && cfg.logger != nil {
			cfg.logger.Warn("error observer panicked",
				"index", index,
				"panic", r)
		}
	}()

	cfg.onError(err, index)
}
