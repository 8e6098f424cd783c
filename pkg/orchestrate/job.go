package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Body is one unit of work. It receives the job's input and produces an
// output or an error. Bodies should honor ctx cancellation at their
// suspension points so per-job timeouts can take effect.
type Body func(ctx context.Context, input any) (any, error)

// Job is an immutable descriptor of one unit of schedulable work.
// The ID is used for correlation and result ordering within a single
// orchestration call; it carries no meaning across calls.
type Job struct {
	ID    string
	Input any
	Body  Body
}

type ErrorKind string

const (
	// KindFailure means the job body returned an error or panicked.
	KindFailure ErrorKind = "FAILURE"
	// KindTimeout means the job exceeded its per-job deadline and was cancelled.
	KindTimeout ErrorKind = "TIMEOUT"
	// KindPipelineHalted is reported at the PipelineResult level when a step
	// failure stops the chain.
	KindPipelineHalted ErrorKind = "PIPELINE_HALTED"
)

// JobError records why a job did not succeed.
type JobError struct {
	Kind ErrorKind
	Err  error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// JobResult is the recorded outcome of exactly one Job. Output is set iff the
// job succeeded; Err is set iff it did not.
type JobResult struct {
	JobID      string
	Output     any
	Err        *JobError
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r JobResult) Success() bool {
	return r.Err == nil
}

func (r JobResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func validateJobs(jobs []Job) error {
	for i, job := range jobs {
		if job.Body == nil {
			return fmt.Errorf("job %d (%s): nil body", i, job.ID)
		}
	}
	return nil
}

func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// invoke runs a job body in the calling goroutine, converting panics into
// errors so one job can never take down its siblings or the executor.
func invoke(ctx context.Context, body Body, input any) (output any, err error) {
	defer func() {
		if p := recover(); p != nil {
			output = nil
			err = newErrPanic(p)
		}
	}()
	return body(ctx, input)
}
