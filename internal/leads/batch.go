package leads

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// BatchOutcome is the per-item disposition reported by a batch function.
type BatchOutcome int

const (
	// BatchOK means the item was mutated.
	BatchOK BatchOutcome = iota
	// BatchSkipped means the item was intentionally left untouched, for
	// example an ownership gate on mark-contacted. Not an error.
	BatchSkipped
)

// BatchItemError pairs a failed id with its error.
type BatchItemError struct {
	ID  uuid.UUID
	Err error
}

// BatchResult summarizes a bulk run. Failures never abort remaining items.
type BatchResult struct {
	Succeeded int
	Skipped   int
	Failed    []BatchItemError
}

// Err aggregates the per-item errors, or nil when everything succeeded or was
// skipped.
func (r BatchResult) Err() error {
	var err error
	for _, item := range r.Failed {
		err = multierr.Append(err, item.Err)
	}
	return err
}

// RunBatch executes fn for every id with at most concurrency in flight,
// collecting per-item outcomes. A concurrency of 1 reproduces sequential
// semantics for actions that need ordered activity writes.
func RunBatch(ctx context.Context, ids []uuid.UUID, concurrency int, fn func(ctx context.Context, id uuid.UUID) (BatchOutcome, error)) BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}

	type itemResult struct {
		outcome BatchOutcome
		err     error
	}
	results := make([]itemResult, len(ids))

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)
	for i, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			defer func() { <-sem }()
			outcome, err := fn(ctx, id)
			results[i] = itemResult{outcome: outcome, err: err}
		}(i, id)
	}
	wg.Wait()

	var out BatchResult
	for i, res := range results {
		switch {
		case res.err != nil:
			out.Failed = append(out.Failed, BatchItemError{ID: ids[i], Err: res.err})
		case res.outcome == BatchSkipped:
			out.Skipped++
		default:
			out.Succeeded++
		}
	}
	return out
}
