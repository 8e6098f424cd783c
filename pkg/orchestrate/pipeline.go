package orchestrate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PipelineHalt describes the step that stopped a pipeline.
type PipelineHalt struct {
	// Step is the zero-based index of the failing job.
	Step  int
	JobID string
	// Kind is the underlying error kind of the failing step (FAILURE or
	// TIMEOUT, if the body honored a deadline of its own).
	Kind ErrorKind
	Err  error
}

func (h *PipelineHalt) Error() string {
	return fmt.Sprintf("%s: step %d (%s): %v", KindPipelineHalted, h.Step, h.JobID, h.Err)
}

func (h *PipelineHalt) Unwrap() error {
	return h.Err
}

// PipelineResult is the outcome of a sequential chain. Results holds one
// entry per executed step, a prefix of the submitted jobs. Output carries the
// final step's output when the whole chain succeeded; Halted is set otherwise.
type PipelineResult struct {
	Results []JobResult
	Output  any
	Halted  *PipelineHalt
}

func (r PipelineResult) Success() bool {
	return r.Halted == nil
}

// ExecutePipeline runs jobs strictly one at a time, in order, threading each
// step's output into the next step's body. Only the first step consults its
// Job's stored Input (falling back to initialInput when nil); later steps
// always receive the previous output.
//
// The chain halts on the first step whose body fails: later bodies are never
// invoked and the failure is reported on the result, not returned as an
// error. A pipeline with zero jobs succeeds with initialInput as its output.
func (o *Orchestrator) ExecutePipeline(ctx context.Context, jobs []Job, initialInput any) (PipelineResult, error) {
	if err := validateJobs(jobs); err != nil {
		return PipelineResult{}, err
	}

	runID := uuid.New()
	o.logger.Info("Starting pipeline run", "run_id", runID.String(), "steps", len(jobs))

	current := initialInput
	if len(jobs) > 0 && jobs[0].Input != nil {
		current = jobs[0].Input
	}

	results := make([]JobResult, 0, len(jobs))
	for i, job := range jobs {
		started := time.Now()
		output, err := invoke(ctx, job.Body, current)
		finished := time.Now()

		if err != nil {
			kind := KindFailure
			if ctx.Err() == nil && isDeadline(err) {
				kind = KindTimeout
			}
			results = append(results, JobResult{
				JobID:      job.ID,
				Err:        &JobError{Kind: kind, Err: err},
				StartedAt:  started,
				FinishedAt: finished,
			})
			halt := &PipelineHalt{Step: i, JobID: job.ID, Kind: kind, Err: err}
			o.logger.Warn("Pipeline halted",
				"run_id", runID.String(),
				"step", i,
				"job_id", job.ID,
				"error", err,
			)
			return PipelineResult{Results: results, Halted: halt}, nil
		}

		results = append(results, JobResult{
			JobID:      job.ID,
			Output:     output,
			StartedAt:  started,
			FinishedAt: finished,
		})
		current = output
	}

	o.logger.Info("Pipeline run finished", "run_id", runID.String(), "steps", len(jobs))
	return PipelineResult{Results: results, Output: current}, nil
}

// RunPipeline builds a pipeline implicitly from bodies and runs it on a fresh
// default-configured Orchestrator.
func RunPipeline(ctx context.Context, initialInput any, bodies ...Body) (PipelineResult, error) {
	jobs := make([]Job, len(bodies))
	for i, body := range bodies {
		jobs[i] = Job{ID: fmt.Sprintf("step-%d", i), Body: body}
	}

	o, err := New(Config{})
	if err != nil {
		return PipelineResult{}, err
	}
	return o.ExecutePipeline(ctx, jobs, initialInput)
}
