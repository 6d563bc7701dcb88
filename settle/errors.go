package settle

import (
	"context"
	"fmt"
	"time"
)

// TimeoutError reports that a task did not settle within its per-task
// deadline. The engine stopped waiting on the task; whether the underlying
// operation kept running depends on whether it observes its context.
type TimeoutError struct {
	Index int           // position of the task in the input slice
	Limit time.Duration // the configured per-task deadline
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("task %d timed out after %s", e.Index, e.Limit)
}

// Unwrap makes errors.Is(err, context.DeadlineExceeded) work on timeout
// outcomes.
func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}
