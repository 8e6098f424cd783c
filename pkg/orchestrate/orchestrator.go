package orchestrate

import (
	"fmt"
	"time"

	"github.com/weftlabs/weft/pkg/logging"
)

// DefaultMaxConcurrent is the concurrency limit used when Config.MaxConcurrent
// is left unset.
const DefaultMaxConcurrent = 10

// Config configures an Orchestrator.
type Config struct {
	// MaxConcurrent bounds how many job bodies run at once within a single
	// executor call. 0 means DefaultMaxConcurrent; negative is invalid.
	MaxConcurrent int

	// JobTimeout is the per-job deadline applied to the map phase of
	// ExecuteMapReduce. 0 means no deadline.
	JobTimeout time.Duration

	// Logger receives structured execution logs. nil means no logging.
	Logger logging.Logger
}

// Orchestrator coordinates execution of opaque jobs under three patterns:
// parallel fan-out, sequential pipeline and map-reduce. It holds no per-call
// mutable state, so one instance may be shared freely across goroutines;
// every executor invocation owns its own gate and result slots.
type Orchestrator struct {
	maxConcurrent int
	jobTimeout    time.Duration
	logger        logging.Logger
}

func New(config Config) (*Orchestrator, error) {
	if config.MaxConcurrent < 0 {
		return nil, fmt.Errorf("max concurrent must be >= 1, got %d", config.MaxConcurrent)
	}
	if config.MaxConcurrent == 0 {
		config.MaxConcurrent = DefaultMaxConcurrent
	}
	if config.Logger == nil {
		config.Logger = logging.NewNop()
	}
	return &Orchestrator{
		maxConcurrent: config.MaxConcurrent,
		jobTimeout:    config.JobTimeout,
		logger:        config.Logger,
	}, nil
}

// MaxConcurrent returns the configured concurrency limit.
func (o *Orchestrator) MaxConcurrent() int {
	return o.maxConcurrent
}
