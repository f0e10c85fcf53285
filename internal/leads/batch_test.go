package leads

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestRunBatchCountsOutcomes(t *testing.T) {
	ids := makeIDs(6)
	failing := map[uuid.UUID]bool{ids[1]: true, ids[4]: true}
	skipping := map[uuid.UUID]bool{ids[2]: true}

	result := RunBatch(context.Background(), ids, 3, func(_ context.Context, id uuid.UUID) (BatchOutcome, error) {
		switch {
		case failing[id]:
			return BatchOK, errors.New("boom")
		case skipping[id]:
			return BatchSkipped, nil
		default:
			return BatchOK, nil
		}
	})

	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Failed, 2)
	assert.Error(t, result.Err())
}

func TestRunBatchFailureDoesNotAbortRemainder(t *testing.T) {
	ids := makeIDs(5)
	var calls int32

	result := RunBatch(context.Background(), ids, 1, func(_ context.Context, id uuid.UUID) (BatchOutcome, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return BatchOK, errors.New("first item fails")
		}
		return BatchOK, nil
	})

	assert.EqualValues(t, 5, atomic.LoadInt32(&calls), "every item still runs")
	assert.Equal(t, 4, result.Succeeded)
	require.Len(t, result.Failed, 1)
}

func TestRunBatchRespectsConcurrencyBound(t *testing.T) {
	ids := makeIDs(20)
	const bound = 4

	var mu sync.Mutex
	inFlight, peak := 0, 0

	RunBatch(context.Background(), ids, bound, func(_ context.Context, _ uuid.UUID) (BatchOutcome, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		mu.Lock()
		inFlight--
		mu.Unlock()
		return BatchOK, nil
	})

	assert.LessOrEqual(t, peak, bound)
}

func TestRunBatchEmptyAndNoError(t *testing.T) {
	result := RunBatch(context.Background(), nil, 8, func(_ context.Context, _ uuid.UUID) (BatchOutcome, error) {
		return BatchOK, nil
	})
	assert.Equal(t, 0, result.Succeeded)
	assert.NoError(t, result.Err())
}
