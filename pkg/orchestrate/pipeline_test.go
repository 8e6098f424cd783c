package orchestrate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecutePipeline_OutputThreading(t *testing.T) {
	o := newTestOrchestrator(t, Config{})

	jobs := []Job{
		{ID: "double", Body: func(ctx context.Context, input any) (any, error) {
			return input.(int) * 2, nil
		}},
		{ID: "add-three", Body: func(ctx context.Context, input any) (any, error) {
			return input.(int) + 3, nil
		}},
		{ID: "negate", Body: func(ctx context.Context, input any) (any, error) {
			return -input.(int), nil
		}},
	}

	result, err := o.ExecutePipeline(context.Background(), jobs, 5)
	require.NoError(t, err)
	require.True(t, result.Success())
	require.Equal(t, -13, result.Output)

	require.Len(t, result.Results, 3)
	require.Equal(t, 10, result.Results[0].Output)
	require.Equal(t, 13, result.Results[1].Output)
	require.Equal(t, -13, result.Results[2].Output)
}

func TestExecutePipeline_HaltsOnFirstFailure(t *testing.T) {
	o := newTestOrchestrator(t, Config{})

	boom := errors.New("step exploded")
	var thirdCalls int32
	jobs := []Job{
		{ID: "ok", Body: func(ctx context.Context, input any) (any, error) { return input, nil }},
		{ID: "bad", Body: func(ctx context.Context, input any) (any, error) { return nil, boom }},
		{ID: "never", Body: func(ctx context.Context, input any) (any, error) {
			atomic.AddInt32(&thirdCalls, 1)
			return input, nil
		}},
	}

	result, err := o.ExecutePipeline(context.Background(), jobs, "seed")
	require.NoError(t, err)
	require.False(t, result.Success())

	// Only a prefix of the chain executed.
	require.Len(t, result.Results, 2)
	require.True(t, result.Results[0].Success())
	require.False(t, result.Results[1].Success())
	require.Equal(t, KindFailure, result.Results[1].Err.Kind)

	require.NotNil(t, result.Halted)
	require.Equal(t, 1, result.Halted.Step)
	require.Equal(t, "bad", result.Halted.JobID)
	require.Equal(t, KindFailure, result.Halted.Kind)
	require.ErrorIs(t, result.Halted, boom)
	require.Contains(t, result.Halted.Error(), string(KindPipelineHalted))

	require.Zero(t, atomic.LoadInt32(&thirdCalls))
}

func TestExecutePipeline_EmptyIsNoOpSuccess(t *testing.T) {
	o := newTestOrchestrator(t, Config{})

	result, err := o.ExecutePipeline(context.Background(), nil, "untouched")
	require.NoError(t, err)
	require.True(t, result.Success())
	require.Equal(t, "untouched", result.Output)
	require.Empty(t, result.Results)
}

func TestExecutePipeline_FirstJobInputSeedsChain(t *testing.T) {
	o := newTestOrchestrator(t, Config{})

	var firstSaw, secondSaw any
	jobs := []Job{
		{ID: "first", Input: "job-input", Body: func(ctx context.Context, input any) (any, error) {
			firstSaw = input
			return "first-output", nil
		}},
		// The second step's stored Input must be ignored in favor of the
		// previous step's output.
		{ID: "second", Input: "ignored", Body: func(ctx context.Context, input any) (any, error) {
			secondSaw = input
			return input, nil
		}},
	}

	result, err := o.ExecutePipeline(context.Background(), jobs, "initial-input")
	require.NoError(t, err)
	require.True(t, result.Success())
	require.Equal(t, "job-input", firstSaw)
	require.Equal(t, "first-output", secondSaw)
}

func TestExecutePipeline_InitialInputWhenFirstJobHasNone(t *testing.T) {
	o := newTestOrchestrator(t, Config{})

	var saw any
	jobs := []Job{
		{ID: "only", Body: func(ctx context.Context, input any) (any, error) {
			saw = input
			return input, nil
		}},
	}

	result, err := o.ExecutePipeline(context.Background(), jobs, 42)
	require.NoError(t, err)
	require.Equal(t, 42, saw)
	require.Equal(t, 42, result.Output)
}

func TestExecutePipeline_PanicHaltsChain(t *testing.T) {
	o := newTestOrchestrator(t, Config{})

	jobs := []Job{
		{ID: "panicky", Body: func(ctx context.Context, input any) (any, error) { panic("lost it") }},
		{ID: "after", Body: func(ctx context.Context, input any) (any, error) { return input, nil }},
	}

	result, err := o.ExecutePipeline(context.Background(), jobs, nil)
	require.NoError(t, err)
	require.False(t, result.Success())
	require.Len(t, result.Results, 1)
	require.Equal(t, KindFailure, result.Halted.Kind)

	var panicErr ErrPanic
	require.ErrorAs(t, result.Halted, &panicErr)
	require.Equal(t, "lost it", panicErr.Value)
}

func TestExecutePipeline_NilBodyRejected(t *testing.T) {
	o := newTestOrchestrator(t, Config{})

	_, err := o.ExecutePipeline(context.Background(), []Job{{ID: "bad"}}, nil)
	require.Error(t, err)
}

func TestRunPipeline(t *testing.T) {
	result, err := RunPipeline(context.Background(), 1,
		func(ctx context.Context, input any) (any, error) { return input.(int) + 1, nil },
		func(ctx context.Context, input any) (any, error) { return input.(int) * 10, nil },
	)
	require.NoError(t, err)
	require.True(t, result.Success())
	require.Equal(t, 20, result.Output)
	require.Equal(t, "step-0", result.Results[0].JobID)
	require.Equal(t, "step-1", result.Results[1].JobID)
}
