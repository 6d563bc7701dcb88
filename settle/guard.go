package settle

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

// settled carries a task's raw completion before it is normalized into a
// Result.
type settled[T any] struct {
	value T
	err   error
}

// runGuarded executes a single task and is guaranteed never to panic and
// never to block past the per-task deadline, regardless of what the task
// does. Every failure mode (task error, panic, timeout, cancelled context,
// rate-limit wait failure) is converted into a failing Result at the task's
// index.
func runGuarded[T any](ctx context.Context, task Task[T], index int, cfg *runConfig) Result[T] {
	res := Result[T]{Index: index}

	if cfg.limiter != nil {
		if err := cfg.limiter.Wait(ctx); err != nil {
			res.Err = err
			cfg.notifyError(res.Err, index)
			return res
		}
	}

	taskCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	// Buffered so a task settling after the deadline already fired can still
	// complete its send and exit. The late result is never read.
	done := make(chan settled[T], 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)
				done <- settled[T]{err: fmt.Errorf("task panic: %v\nstack trace:\n%s", r, buf[:n])}
			}
		}()

		value, err := task(taskCtx)
		done <- settled[T]{value: value, err: err}
	}()

	select {
	case out := <-done:
		res.Value, res.Err = out.value, out.err

	case <-taskCtx.Done():
		if errors.Is(taskCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			res.Err = &TimeoutError{Index: index, Limit: cfg.timeout}
			if cfg.logger != nil {
				cfg.logger.Debug("task deadline exceeded",
					"index", index,
					"timeout", cfg.timeout)
			}
		} else {
			res.Err = ctx.Err()
		}
	}

	if res.Err != nil {
		cfg.notifyError(res.Err, index)
	}

	return res
}
