package orchestrate

import (
	"context"
	"fmt"
)

// MapFunc transforms one input item during the map phase.
type MapFunc[T, U any] func(ctx context.Context, item T) (U, error)

// ReduceFunc folds the successful map outputs into a single value.
type ReduceFunc[U, R any] func(ctx context.Context, values []U) (R, error)

// MapReduceResult is the outcome of one map-reduce run.
type MapReduceResult[R any] struct {
	// Value is the reduced result. Meaningful only when ReduceErr is nil.
	Value R

	// Failures holds the JobResult of every failed map attempt, in original
	// item order. Successes are not repeated here; they were consumed by the
	// reduce phase.
	Failures []JobResult

	// ReduceErr is set when the reduce function itself failed or panicked.
	ReduceErr *JobError
}

func (r MapReduceResult[R]) Success() bool {
	return len(r.Failures) == 0 && r.ReduceErr == nil
}

// MapReduce applies mapFn to every item concurrently through o's parallel
// executor, then folds the successful outputs with reduceFn.
//
// Map failures are not dropped: they are collected on the result, and
// reduceFn receives only the successful outputs, in original item order. If
// every item fails, reduceFn is still invoked with an empty slice; deciding
// whether that constitutes an error belongs to the caller. The map phase runs
// under the orchestrator's configured JobTimeout.
//
// Generic functions cannot be methods, which is why this is a package-level
// function taking the Orchestrator as an argument.
func MapReduce[T, U, R any](
	ctx context.Context,
	o *Orchestrator,
	items []T,
	mapFn MapFunc[T, U],
	reduceFn ReduceFunc[U, R],
) (MapReduceResult[R], error) {
	var result MapReduceResult[R]
	if mapFn == nil {
		return result, fmt.Errorf("nil map function")
	}
	if reduceFn == nil {
		return result, fmt.Errorf("nil reduce function")
	}

	jobs := make([]Job, len(items))
	for i, item := range items {
		jobs[i] = Job{
			ID:    fmt.Sprintf("map-%d", i),
			Input: item,
			Body: func(ctx context.Context, input any) (any, error) {
				// The comma-ok form tolerates nil items when T is an interface.
				item, _ := input.(T)
				return mapFn(ctx, item)
			},
		}
	}

	mapResults, err := o.ExecuteParallel(ctx, jobs, o.jobTimeout)
	if err != nil {
		return result, err
	}

	values := make([]U, 0, len(mapResults))
	for _, mr := range mapResults {
		if !mr.Success() {
			result.Failures = append(result.Failures, mr)
			continue
		}
		value, _ := mr.Output.(U)
		values = append(values, value)
	}

	reduced, reduceErr := invokeReduce(ctx, reduceFn, values)
	if reduceErr != nil {
		result.ReduceErr = &JobError{Kind: KindFailure, Err: reduceErr}
		return result, nil
	}

	result.Value = reduced
	return result, nil
}

// invokeReduce mirrors invoke for the typed reduce step: panics inside
// reduceFn are contained the same way as job body panics.
func invokeReduce[U, R any](ctx context.Context, reduceFn ReduceFunc[U, R], values []U) (reduced R, err error) {
	defer func() {
		if p := recover(); p != nil {
			var zero R
			reduced = zero
			err = newErrPanic(p)
		}
	}()
	return reduceFn(ctx, values)
}
