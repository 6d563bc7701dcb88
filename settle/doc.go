// Package settle runs many independent asynchronous tasks with per-task
// timeouts, fault isolation between tasks, and an optional cap on how many
// are in flight at once, plus a companion retry-with-backoff primitive for
// single operations.
//
// The package treats failures as data: a task's error, panic, or timeout
// becomes a failing Result at that task's index, and the remaining tasks keep
// running. Run and RunBatch never fail as a whole. Retry is the only entry
// point that returns an error to its caller, and only after its attempt
// budget is spent or its predicate declines.
//
// # Basic Usage
//
//	ctx := context.Background()
//	tasks := []settle.Task[int]{
//	    func(ctx context.Context) (int, error) { return fetchCount(ctx, "a") },
//	    func(ctx context.Context) (int, error) { return fetchCount(ctx, "b") },
//	}
//	results := settle.Run(ctx, tasks, settle.WithMaxInFlight(2))
//
// Results come back in input order no matter which task finishes first:
// results[i] always describes tasks[i].
//
// # Batch Processing
//
// RunBatch turns a slice of items and a processing function into isolated
// tasks and partitions the outcomes, tying each failure back to the item that
// caused it:
//
//	batch := settle.RunBatch(ctx, urls, fetchURL, settle.WithTimeout(2*time.Second))
//	fmt.Printf("%d ok, %d failed\n", batch.SuccessCount, batch.ErrorCount)
//	for _, e := range batch.Errors {
//	    log.Printf("%q: %v", e.Item, e.Err)
//	}
//
// # Retry
//
// Retry re-attempts a single operation with exponential backoff. It is
// sequential and independent of the scheduler; a retried operation can itself
// be the body of a task handed to Run:
//
//	resp, err := settle.Retry(ctx, callAPI,
//	    settle.WithMaxRetries(5),
//	    settle.WithInitialDelay(200*time.Millisecond),
//	)
//
// # Timeouts Stop the Waiting, Not the Work
//
// The per-task deadline bounds how long the engine waits, not how long the
// task runs. When the deadline fires the engine reports a *TimeoutError and
// moves on; the task's context is cancelled, but an operation that ignores
// its context keeps running in the background until it finishes on its own.
// Tasks that hold resources should watch ctx and release them on
// cancellation.
//
// # Configuration Options
//
//   - WithTimeout(d): Per-task deadline (default: 30s)
//   - WithMaxInFlight(n): Cap on simultaneously outstanding tasks (default: unbounded)
//   - WithOnError(fn): Best-effort failure observer; its panics are contained
//   - WithRateLimit(perSec, burst): Throttle task starts for external services
//   - WithLogger(l): Structured diagnostics via log/slog (default: silent)
//
// The package is designed to be small and idiomatic for Go 1.18+ (generics).
package settle
