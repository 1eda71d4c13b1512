package searchclient

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// StepSnapshot exposes the per-iteration state of the search.
type StepSnapshot struct {
	Current      *State
	Explored     int
	FrontierSize int
	Done         bool
	Found        bool
	Outcome      Outcome
	Reason       FailureReason
	StepIndex    int
}

// Stepper runs the graph search one iteration at a time. It owns the explored
// set, the arena of generated states and the shuffle generator; the frontier
// passed in is used exclusively by the stepper until the search ends.
type Stepper struct {
	ctx      context.Context
	frontier Frontier
	explored *StateSet
	arena    *Arena
	rng      *rand.Rand
	options  Options
	life     *lifecycle

	start     time.Time
	stepCount int
	goal      *State
	err       error
}

// NewStepper seeds frontier with initial and prepares a search. initial is
// used as the root of the search tree whatever its history; it is not modified.
func NewStepper(
	ctx context.Context,
	initial *State,
	frontier Frontier,
	options ...Option,
) (*Stepper, error) {
	if initial == nil || frontier == nil {
		return nil, fmt.Errorf("searchclient: initial state and frontier are required")
	}

	opts := defaultOptions()
	for _, o := range options {
		o(&opts)
	}

	life, err := newLifecycle()
	if err != nil {
		return nil, fmt.Errorf("failed to create search state machine: %w", err)
	}

	s := &Stepper{
		ctx:      ctx,
		frontier: frontier,
		explored: NewStateSet(),
		arena:    NewArena(),
		rng:      rand.New(rand.NewSource(opts.Seed)),
		options:  opts,
		life:     life,
		start:    time.Now(),
	}

	root := initial.detached()
	s.arena.Add(root)
	frontier.Add(root)
	return s, nil
}

func (s *Stepper) memoryMB() float64 {
	if s.options.Probe == nil {
		return 0
	}
	return s.options.Probe.UsageMB()
}

// Status builds a status report for the current iteration.
func (s *Stepper) Status() Status {
	return Status{
		RunID:        s.options.RunID,
		Strategy:     s.frontier.Name(),
		Explored:     s.explored.Len(),
		FrontierSize: s.frontier.Size(),
		Elapsed:      time.Since(s.start),
		MemoryMB:     s.memoryMB(),
		MaxMemoryMB:  s.options.MaxMemoryMB,
	}
}

func (s *Stepper) report() {
	s.options.Reporter(s.Status())
}

func (s *Stepper) snapshot(current *State) StepSnapshot {
	return StepSnapshot{
		Current:      current,
		Explored:     s.explored.Len(),
		FrontierSize: s.frontier.Size(),
		Done:         s.life.done(),
		Found:        s.life.outcome() == Success,
		Outcome:      s.life.outcome(),
		Reason:       s.life.reason(),
		StepIndex:    s.stepCount,
	}
}

func (s *Stepper) fail(reason FailureReason, err error) StepSnapshot {
	s.report()
	s.err = err
	s.life.fail(reason)
	return s.snapshot(nil)
}

// Step performs one iteration of the graph search loop. Once the search is
// done further calls return the final snapshot without doing work.
func (s *Stepper) Step() StepSnapshot {
	if s.life.done() {
		return s.snapshot(s.goal)
	}

	s.stepCount++
	if s.stepCount%s.options.StatusInterval == 0 {
		s.report()
	}

	if s.frontier.IsEmpty() {
		return s.fail(NoSolution, ErrNoSolution)
	}
	if err := s.ctx.Err(); err != nil {
		return s.fail(Cancelled, err)
	}
	if s.memoryMB() > s.options.MaxMemoryMB {
		return s.fail(ResourceExceeded, ErrResourceExceeded)
	}

	current := s.frontier.Pop()
	if current.IsGoalState() {
		s.report()
		s.goal = current
		s.life.succeed()
		return s.snapshot(current)
	}

	s.explored.Add(current)
	for _, child := range current.Expand(s.rng) {
		if s.explored.Contains(child) || s.frontier.Contains(child) {
			continue
		}
		s.arena.Add(child)
		s.frontier.Add(child)
	}

	return s.snapshot(current)
}

// Result returns the outcome once Step reported Done. Before that it returns
// a Running result and a nil error.
func (s *Stepper) Result() (Result, error) {
	result := Result{
		Found:        s.life.outcome() == Success,
		Outcome:      s.life.outcome(),
		Reason:       s.life.reason(),
		Explored:     s.explored.Len(),
		FrontierSize: s.frontier.Size(),
		Elapsed:      time.Since(s.start),
	}
	if s.goal != nil {
		result.Plan = s.arena.ExtractPlan(s.goal)
	}
	return result, s.err
}

// Arena exposes the states generated so far.
func (s *Stepper) Arena() *Arena { return s.arena }
