package settle

import "context"

// Task is a deferred, zero-argument unit of asynchronous work. It produces a
// value of type T or fails with an error. The engine invokes a task exactly
// once per run and never stores it beyond that call.
//
// A task that wants to stop early on timeout or cancellation must observe the
// supplied context; the engine can stop waiting on a task past its deadline,
// but it cannot stop a task that ignores ctx.
type Task[T any] func(ctx context.Context) (T, error)

// Operation is a single retryable unit of work used by Retry. It has the same
// shape as Task but is attempted repeatedly rather than raced against a
// deadline.
type Operation[T any] func(ctx context.Context) (T, error)

// ProcessFunc transforms one batch item into an output value. The index is
// the item's position in the input slice, so failures can be traced back to
// the item that caused them.
//
// Type parameters:
//   - In: The input item type
//   - Out: The output type produced for each item
type ProcessFunc[In any, Out any] func(ctx context.Context, item In, index int) (Out, error)

// Result is the normalized outcome of running one task. Exactly one of
// Value/Err is meaningful: Err == nil means Value holds the task's output.
//
// Fields:
//   - Value: The value produced by the task (only valid if Err is nil)
//   - Err: The task's failure, a *TimeoutError, or a recovered panic (nil on success)
//   - Index: The task's position in the original input slice
type Result[T any] struct {
	Value T
	Err   error
	Index int
}

// Success reports whether the task settled with a value.
func (r Result[T]) Success() bool {
	return r.Err == nil
}
