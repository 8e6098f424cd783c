package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ExecuteParallel runs all jobs concurrently, each admitted through a gate
// bounded by the orchestrator's concurrency limit. The returned slice always
// has one result per job, in input order, regardless of completion order.
//
// timeout, when positive, is the wall-clock deadline for each individual job,
// measured from its admission; a job exceeding it is cancelled with kind
// TIMEOUT and its gate slot is freed immediately. 0 means no deadline.
//
// Job failures, timeouts and panics never escape as errors; they are recorded
// on the corresponding result. The only error returned is a malformed call
// (a job with a nil body).
func (o *Orchestrator) ExecuteParallel(ctx context.Context, jobs []Job, timeout time.Duration) ([]JobResult, error) {
	if err := validateJobs(jobs); err != nil {
		return nil, err
	}

	runID := uuid.New()
	o.logger.Info("Starting parallel run",
		"run_id", runID.String(),
		"jobs", len(jobs),
		"max_concurrent", o.maxConcurrent,
		"timeout", timeout.String(),
	)

	// Each run owns its gate; independent runs never contend with each other.
	gate, err := NewGate(o.maxConcurrent)
	if err != nil {
		return nil, err
	}

	results := make([]JobResult, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Go(func() {
			results[i] = o.runGated(ctx, gate, job, timeout)
		})
	}
	wg.Wait()

	failed := 0
	for _, result := range results {
		if !result.Success() {
			failed++
		}
	}
	o.logger.Info("Parallel run finished",
		"run_id", runID.String(),
		"jobs", len(jobs),
		"failed", failed,
	)

	return results, nil
}

// runGated takes one job through its full lifecycle: gate admission, body
// execution under an optional deadline, and conversion of every outcome into
// a JobResult.
func (o *Orchestrator) runGated(ctx context.Context, gate *Gate, job Job, timeout time.Duration) JobResult {
	if err := gate.Acquire(ctx); err != nil {
		// Cancelled before admission. The job never ran but still owes a
		// result so no job is silently dropped.
		now := time.Now()
		return JobResult{
			JobID:      job.ID,
			Err:        &JobError{Kind: KindFailure, Err: fmt.Errorf("cancelled before start: %w", err)},
			StartedAt:  now,
			FinishedAt: now,
		}
	}
	defer gate.Release()

	jobCtx := ctx
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		jobCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	started := time.Now()
	o.logger.Debug("Job admitted", "job_id", job.ID)

	type outcome struct {
		output any
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		out, err := invoke(jobCtx, job.Body, job.Input)
		done <- outcome{output: out, err: err}
	}()

	select {
	case oc := <-done:
		finished := time.Now()
		if oc.err != nil {
			kind := KindFailure
			if errors.Is(oc.err, context.DeadlineExceeded) && jobCtx.Err() != nil {
				kind = KindTimeout
			}
			o.logger.Debug("Job failed", "job_id", job.ID, "kind", string(kind), "error", oc.err)
			return JobResult{
				JobID:      job.ID,
				Err:        &JobError{Kind: kind, Err: oc.err},
				StartedAt:  started,
				FinishedAt: finished,
			}
		}
		o.logger.Debug("Job succeeded", "job_id", job.ID, "duration", finished.Sub(started).String())
		return JobResult{
			JobID:      job.ID,
			Output:     oc.output,
			StartedAt:  started,
			FinishedAt: finished,
		}

	case <-jobCtx.Done():
		// Deadline hit (or the caller cancelled the whole run). Returning now
		// releases the gate slot immediately; the body goroutine is expected
		// to observe jobCtx and unwind on its own.
		finished := time.Now()
		kind := KindTimeout
		if ctx.Err() != nil {
			kind = KindFailure
		}
		o.logger.Debug("Job cancelled", "job_id", job.ID, "kind", string(kind))
		return JobResult{
			JobID:      job.ID,
			Err:        &JobError{Kind: kind, Err: jobCtx.Err()},
			StartedAt:  started,
			FinishedAt: finished,
		}
	}
}

// RunParallel builds jobs implicitly from bodies and optional inputs and runs
// them on a fresh default-configured Orchestrator. inputs may be nil; when
// given, it must have one element per body.
func RunParallel(ctx context.Context, bodies []Body, inputs []any, timeout time.Duration) ([]JobResult, error) {
	if inputs != nil && len(inputs) != len(bodies) {
		return nil, fmt.Errorf("got %d inputs for %d bodies", len(inputs), len(bodies))
	}

	jobs := make([]Job, len(bodies))
	for i, body := range bodies {
		var input any
		if inputs != nil {
			input = inputs[i]
		}
		jobs[i] = Job{ID: fmt.Sprintf("job-%d", i), Input: input, Body: body}
	}

	o, err := New(Config{})
	if err != nil {
		return nil, err
	}
	return o.ExecuteParallel(ctx, jobs, timeout)
}
