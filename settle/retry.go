package settle

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retry defaults, applied when the corresponding option is not given.
const (
	defaultMaxRetries   = 3
	defaultInitialDelay = 1 * time.Second
	defaultMaxDelay     = 10 * time.Second
	defaultMultiplier   = 2.0
)

// RetryOption is a functional option for configuring Retry.
type RetryOption func(*retryConfig)

type retryConfig struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	shouldRetry  func(error, int) bool
	notify       func(error, time.Duration)
	logger       *slog.Logger
}

func newRetryConfig(opts ...RetryOption) *retryConfig {
	cfg := &retryConfig{
		maxRetries:   defaultMaxRetries,
		initialDelay: defaultInitialDelay,
		maxDelay:     defaultMaxDelay,
		multiplier:   defaultMultiplier,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithMaxRetries sets how many times a failed operation is re-attempted, so
// the operation runs at most n+1 times total. Defaults to 3 (4 attempts).
// Negative values are ignored; 0 disables retrying.
func WithMaxRetries(n int) RetryOption {
	return func(cfg *retryConfig) {
		if n >= 0 {
			cfg.maxRetries = n
		}
	}
}

// WithInitialDelay sets the delay before the first re-attempt. Subsequent
// delays grow by the backoff multiplier. Defaults to 1 second.
// Non-positive values are ignored.
func WithInitialDelay(d time.Duration) RetryOption {
	return func(cfg *retryConfig) {
		if d > 0 {
			cfg.initialDelay = d
		}
	}
}

// WithMaxDelay caps the delay between attempts. Defaults to 10 seconds.
// Non-positive values are ignored.
func WithMaxDelay(d time.Duration) RetryOption {
	return func(cfg *retryConfig) {
		if d > 0 {
			cfg.maxDelay = d
		}
	}
}

// WithBackoffMultiplier sets the factor each delay grows by. Defaults to 2.
// Values below 1 are ignored.
func WithBackoffMultiplier(m float64) RetryOption {
	return func(cfg *retryConfig) {
		if m >= 1 {
			cfg.multiplier = m
		}
	}
}

// WithShouldRetry installs a predicate consulted after each failure with the
// error and the 0-based attempt number. Returning false stops retrying and
// raises that error immediately. If not specified, every failure is retried
// until the budget is exhausted.
//
// A panic inside the predicate is contained and treated as "retry", the
// default predicate's answer.
func WithShouldRetry(fn func(err error, attempt int) bool) RetryOption {
	return func(cfg *retryConfig) {
		cfg.shouldRetry = fn
	}
}

// WithRetryNotify installs an observer invoked before each backoff delay with
// the failure and the upcoming delay. A panic inside the observer is
// contained and never affects the retry loop.
func WithRetryNotify(fn func(err error, delay time.Duration)) RetryOption {
	return func(cfg *retryConfig) {
		cfg.notify = fn
	}
}

// WithRetryLogger installs a structured logger for retry diagnostics
// (contained predicate/observer panics). If not specified, Retry is silent.
func WithRetryLogger(logger *slog.Logger) RetryOption {
	return func(cfg *retryConfig) {
		cfg.logger = logger
	}
}

// Retry runs op until it succeeds, the retry budget is exhausted, or the
// predicate declines. Attempt numbering starts at 0; after a failure at
// attempt a the next attempt waits min(initialDelay * multiplier^a, maxDelay).
// Success at any attempt returns immediately with that attempt's value.
//
// Retry is sequential and single-flight. It does not interact with Run's
// concurrency bound and may itself be used as the body of a Task.
//
// Returns the last operation error once attempts are exhausted, the
// operation's own error when the predicate declines, or the context error if
// ctx is cancelled during a delay.
//
// Example:
//
//	resp, err := settle.Retry(ctx, callAPI,
//	    settle.WithMaxRetries(5),
//	    settle.WithInitialDelay(200*time.Millisecond),
//	    settle.WithShouldRetry(func(err error, attempt int) bool {
//	        return !errors.Is(err, ErrUnauthorized)
//	    }),
//	)
func Retry[T any](ctx context.Context, op Operation[T], opts ...RetryOption) (T, error) {
	cfg := newRetryConfig(opts...)

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = cfg.initialDelay
	exp.MaxInterval = cfg.maxDelay
	exp.Multiplier = cfg.multiplier
	exp.RandomizationFactor = 0 // delays are exact: initialDelay * multiplier^attempt, capped
	exp.MaxElapsedTime = 0      // the budget is a number of attempts, not wall clock
	exp.Reset()

	attempt := 0
	wrapped := func() (T, error) {
		value, err := op(ctx)
		if err == nil {
			return value, nil
		}

		a := attempt
		attempt++
		if a < cfg.maxRetries && !cfg.allowRetry(err, a) {
			return value, backoff.Permanent(err)
		}
		return value, err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(cfg.maxRetries)), ctx)
	return backoff.RetryNotifyWithData(wrapped, policy, cfg.notifyRetry)
}

// allowRetry consults the predicate. A panicking predicate must not change
// the outcome contract, so it falls back to the default answer here.
func (cfg *retryConfig) allowRetry(err error, attempt int) (retry bool) {
	if cfg.shouldRetry == nil {
		return true
	}

	retry = true
	defer func() {
		if r := recover(); r != nil {
			retry = true
			if cfg.logger != nil {
				cfg.logger.Warn("retry predicate panicked",
					"attempt", attempt,
					"panic", r)
			}
		}
	}()

	return cfg.shouldRetry(err, attempt)
}

// notifyRetry forwards to the configured observer, containing its panics.
func (cfg *retryConfig) notifyRetry(err error, delay time.Duration) {
	if cfg.notify == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil && cfg.logger != nil {
			cfg.logger.Warn("retry observer panicked", "panic", r)
		}
	}()

	cfg.notify(err, delay)
}
