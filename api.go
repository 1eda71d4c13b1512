package searchclient

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoSolution is returned when the frontier runs out of states.
	ErrNoSolution = errors.New("no solution found")
	// ErrResourceExceeded is returned when the memory probe passes the configured bound.
	ErrResourceExceeded = errors.New("maximum memory usage exceeded")
)

// Result contains the outcome of a search.
type Result struct {
	Plan         []JointAction
	Found        bool
	Outcome      Outcome
	Reason       FailureReason
	Explored     int
	FrontierSize int
	Elapsed      time.Duration
}

// Generated is explored plus frontier size at termination.
func (r Result) Generated() int { return r.Explored + r.FrontierSize }

// Options defines parameters for the search.
type Options struct {
	MaxMemoryMB    float64
	Probe          MemoryProbe
	StatusInterval int
	Seed           int64
	Reporter       StatusReporter
	RunID          string
}

// Option is a function that modifies Options.
type Option func(*Options)

// DefaultStatusInterval is the number of iterations between status reports.
const DefaultStatusInterval = 1000

// DefaultSeed seeds the generator that shuffles expanded children.
const DefaultSeed = 1

func defaultOptions() Options {
	return Options{
		MaxMemoryMB:    Unbounded,
		StatusInterval: DefaultStatusInterval,
		Seed:           DefaultSeed,
		Reporter:       LogStatus,
	}
}

// WithMaxMemory sets the memory bound in megabytes.
func WithMaxMemory(megabytes float64) Option {
	return func(options *Options) { options.MaxMemoryMB = megabytes }
}

// WithMemoryProbe sets how memory usage is measured. Without a probe usage
// reads as zero.
func WithMemoryProbe(probe MemoryProbe) Option {
	return func(options *Options) { options.Probe = probe }
}

// WithStatusInterval sets how many iterations pass between status reports.
func WithStatusInterval(iterations int) Option {
	return func(options *Options) {
		if iterations > 0 {
			options.StatusInterval = iterations
		}
	}
}

// WithSeed seeds the expansion shuffle. Equal seeds and inputs give equal searches.
func WithSeed(seed int64) Option {
	return func(options *Options) { options.Seed = seed }
}

// WithStatusReporter replaces LogStatus as the receiver of status reports.
func WithStatusReporter(reporter StatusReporter) Option {
	return func(options *Options) {
		if reporter != nil {
			options.Reporter = reporter
		}
	}
}

// WithRunID tags status reports with id.
func WithRunID(id string) Option {
	return func(options *Options) { options.RunID = id }
}

// Search runs graph search from initial using frontier until a goal state is
// popped, the frontier is exhausted, memory exceeds the bound or ctx is done.
// Failures come back as a Result with Found false together with
// ErrNoSolution, ErrResourceExceeded or the context error.
func Search(
	ctx context.Context,
	initial *State,
	frontier Frontier,
	options ...Option,
) (Result, error) {
	stepper, err := NewStepper(ctx, initial, frontier, options...)
	if err != nil {
		return Result{}, err
	}
	for {
		snapshot := stepper.Step()
		if snapshot.Done {
			return stepper.Result()
		}
	}
}
