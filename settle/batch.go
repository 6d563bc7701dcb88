package settle

import "context"

// BatchResult aggregates the outcomes of processing one input slice.
//
// Invariant: SuccessCount + ErrorCount == len(Outcomes) == number of inputs,
// even when every item failed.
//
// Type parameters:
//   - Out: The output type produced per item
//   - In: The input item type
type BatchResult[Out any, In any] struct {
	Outcomes     []Result[Out]   // one outcome per item, in input order
	SuccessCount int             // number of items that produced a value
	ErrorCount   int             // number of items that failed
	Errors       []ItemError[In] // every failure, tied back to its input item
}

// ItemError re-associates a failed outcome with the input item that caused
// it, which the raw Result slice cannot do on its own.
type ItemError[In any] struct {
	Index int   // the item's position in the input slice
	Err   error // the failure produced for the item
	Item  In    // items[Index], the domain object that failed
}

// RunBatch applies fn to every item through the bounded scheduler and
// partitions the outcomes into successes and failures. Each item's call
// becomes one isolated task closing over the item and its index, so one
// item's failure or timeout never affects the others.
//
// Parameters:
//   - ctx: Context for cancellation of the whole batch
//   - items: Slice of inputs to process
//   - fn: Processing function applied to each (item, index)
//   - opts: Execution options shared with Run
//
// Returns:
//   - batch: Complete outcome set, sized to the input even if every item failed
//
// Example:
//
//	batch := settle.RunBatch(ctx, urls, fetchURL,
//	    settle.WithMaxInFlight(8),
//	    settle.WithTimeout(2*time.Second),
//	)
//	for _, e := range batch.Errors {
//	    log.Printf("fetching %q failed: %v", e.Item, e.Err)
//	}
func RunBatch[In any, Out any](
	ctx context.Context,
	items []In,
	fn ProcessFunc[In, Out],
	opts ...Option,
) *BatchResult[Out, In] {
	tasks := make([]Task[Out], len(items))
	for i, item := range items {
		i, item := i, item
		tasks[i] = func(ctx context.Context) (Out, error) {
			return fn(ctx, item, i)
		}
	}

	outcomes := Run(ctx, tasks, opts...)

	batch := &BatchResult[Out, In]{Outcomes: outcomes}
	for _, outcome := range outcomes {
		if outcome.Success() {
			batch.SuccessCount++
			continue
		}

		batch.ErrorCount++
		batch.Errors = append(batch.Errors, ItemError[In]{
			Index: outcome.Index,
			Err:   outcome.Err,
			Item:  items[outcome.Index],
		})
	}

	return batch
}
