package settle

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestRun_TimeoutProducesTimeoutError(t *testing.T) {
	tasks := []Task[int]{
		func(ctx context.Context) (int, error) {
			// Ignores ctx on purpose: would eventually succeed.
			time.Sleep(200 * time.Millisecond)
			return 42, nil
		},
	}

	results := Run(context.Background(), tasks, WithTimeout(30*time.Millisecond))

	r := results[0]
	if r.Success() {
		t.Fatal("expected a failing outcome")
	}

	var timeoutErr *TimeoutError
	if !errors.As(r.Err, &timeoutErr) {
		t.Fatalf("expected *TimeoutError, got %T: %v", r.Err, r.Err)
	}
	if timeoutErr.Index != 0 {
		t.Errorf("expected index 0, got %d", timeoutErr.Index)
	}
	if timeoutErr.Limit != 30*time.Millisecond {
		t.Errorf("expected limit 30ms, got %v", timeoutErr.Limit)
	}
	if !errors.Is(r.Err, context.DeadlineExceeded) {
		t.Error("expected timeout to match context.DeadlineExceeded")
	}
	if !strings.Contains(r.Err.Error(), "task 0") {
		t.Errorf("expected error message to name the index, got %q", r.Err.Error())
	}
}

func TestRun_TimeoutDoesNotAffectSiblings(t *testing.T) {
	tasks := []Task[string]{
		func(ctx context.Context) (string, error) {
			time.Sleep(150 * time.Millisecond)
			return "late", nil
		},
		func(ctx context.Context) (string, error) {
			return "fast", nil
		},
	}

	results := Run(context.Background(), tasks, WithTimeout(40*time.Millisecond))

	if results[0].Success() {
		t.Error("task 0: expected timeout")
	}
	if !results[1].Success() || results[1].Value != "fast" {
		t.Errorf("task 1: expected \"fast\", got %q (%v)", results[1].Value, results[1].Err)
	}
}

func TestRun_LateTaskStillExits(t *testing.T) {
	var finished atomic.Bool

	tasks := []Task[int]{
		func(ctx context.Context) (int, error) {
			time.Sleep(80 * time.Millisecond)
			finished.Store(true)
			return 1, nil
		},
	}

	results := Run(context.Background(), tasks, WithTimeout(20*time.Millisecond))

	if results[0].Success() {
		t.Fatal("expected timeout outcome")
	}
	if finished.Load() {
		t.Fatal("task should not have settled before Run returned")
	}

	// The abandoned task must be able to finish its send and exit; the
	// outcome Run already reported does not change.
	deadline := time.After(time.Second)
	for !finished.Load() {
		select {
		case <-deadline:
			t.Fatal("late task never finished, likely blocked on its result send")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}

	var timeoutErr *TimeoutError
	if !errors.As(results[0].Err, &timeoutErr) {
		t.Errorf("outcome changed after late completion: %v", results[0].Err)
	}
}

func TestRun_PanicIsIsolated(t *testing.T) {
	tasks := []Task[int]{
		func(ctx context.Context) (int, error) {
			panic("task exploded")
		},
		func(ctx context.Context) (int, error) {
			return 5, nil
		},
	}

	results := Run(context.Background(), tasks)

	if results[0].Success() {
		t.Fatal("expected panicking task to fail")
	}
	if !strings.Contains(results[0].Err.Error(), "task panic") {
		t.Errorf("expected panic error, got %v", results[0].Err)
	}
	if !strings.Contains(results[0].Err.Error(), "task exploded") {
		t.Errorf("expected recovered value in error, got %v", results[0].Err)
	}
	if !results[1].Success() || results[1].Value != 5 {
		t.Errorf("sibling task affected by panic: %v (%v)", results[1].Value, results[1].Err)
	}
}

func TestRun_ObserverSeesTimeouts(t *testing.T) {
	var observed atomic.Int32

	tasks := []Task[int]{
		func(ctx context.Context) (int, error) {
			time.Sleep(100 * time.Millisecond)
			return 0, nil
		},
	}

	Run(context.Background(), tasks,
		WithTimeout(20*time.Millisecond),
		WithOnError(func(err error, index int) {
			var timeoutErr *TimeoutError
			if errors.As(err, &timeoutErr) && index == 0 {
				observed.Add(1)
			}
		}),
	)

	if observed.Load() != 1 {
		t.Errorf("expected observer to see 1 timeout, saw %d", observed.Load())
	}
}

func TestOptions_InvalidValuesIgnored(t *testing.T) {
	cfg := newRunConfig(
		WithTimeout(-time.Second),
		WithMaxInFlight(-3),
		WithRateLimit(0, 0),
	)

	if cfg.timeout != defaultTimeout {
		t.Errorf("expected default timeout %v, got %v", defaultTimeout, cfg.timeout)
	}
	if cfg.maxInFlight != 0 {
		t.Errorf("expected unbounded concurrency, got %d", cfg.maxInFlight)
	}
	if cfg.limiter != nil {
		t.Error("expected no rate limiter for invalid arguments")
	}
}
