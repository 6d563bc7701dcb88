package settle

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run executes every task concurrently with at most the configured number in
// flight and returns one Result per task, in input order. Completion order
// never affects output order: outcome i always describes tasks[i].
//
// Run never fails as a whole. A task's error, panic, or timeout becomes a
// failing Result at that task's index and the remaining tasks keep running.
//
// Parameters:
//   - ctx: Context for cancellation of the whole run
//   - tasks: Slice of tasks to execute
//   - opts: Execution options (WithTimeout, WithMaxInFlight, ...)
//
// Returns:
//   - results: One Result per input task, ordered by index
//
// Example:
//
//	tasks := []settle.Task[string]{fetchA, fetchB, fetchC}
//	results := settle.Run(ctx, tasks,
//	    settle.WithMaxInFlight(2),
//	    settle.WithTimeout(5*time.Second),
//	)
//	for _, r := range results {
//	    if !r.Success() {
//	        log.Printf("task %d: %v", r.Index, r.Err)
//	    }
//	}
func Run[T any](ctx context.Context, tasks []Task[T], opts ...Option) []Result[T] {
	cfg := newRunConfig(opts...)

	// Pre-sized and index-addressed: workers write results[idx], never
	// append, so out-of-order completion cannot reorder or drop outcomes.
	results := make([]Result[T], len(tasks))
	if len(tasks) == 0 {
		return results
	}

	workers := cfg.maxInFlight
	if workers <= 0 || workers > len(tasks) {
		workers = len(tasks)
	}

	// Every index is queued up front; a worker pulls the next one the moment
	// its current task settles. At most `workers` tasks are outstanding and
	// no slot idles while work remains.
	indices := make(chan int, len(tasks))
	for i := range tasks {
		indices <- i
	}
	close(indices)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for idx := range indices {
				results[idx] = runGuarded(ctx, tasks[idx], idx, cfg)
			}
			return nil
		})
	}

	// Workers convert every failure into a Result, so Wait has no error to
	// report.
	_ = g.Wait()

	return results
}
