package searchclient

import (
	"github.com/felixgeelhaar/statekit"
)

// Outcome is the state of a search run.
type Outcome string

const (
	Running Outcome = "running"
	Success Outcome = "success"
	Failure Outcome = "failure"
)

// FailureReason explains a Failure outcome.
type FailureReason string

const (
	NoFailure        FailureReason = ""
	NoSolution       FailureReason = "no_solution"
	ResourceExceeded FailureReason = "resource_exceeded"
	Cancelled        FailureReason = "cancelled"
)

const (
	stateRunning statekit.StateID = statekit.StateID(Running)
	stateSuccess statekit.StateID = statekit.StateID(Success)
	stateFailure statekit.StateID = statekit.StateID(Failure)

	eventSolved statekit.EventType = "SOLVED"
	eventFail   statekit.EventType = "FAIL"
)

// lifecycleContext is carried through the search state machine.
type lifecycleContext struct {
	reason FailureReason
}

func recordFailure(ctx **lifecycleContext, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	if reason, ok := event.Payload.(FailureReason); ok {
		(*ctx).reason = reason
	}
}

func newLifecycleMachine() (*statekit.MachineConfig[*lifecycleContext], error) {
	return statekit.NewMachine[*lifecycleContext]("search").
		WithInitial(stateRunning).
		WithContext(&lifecycleContext{}).
		WithAction("recordFailure", recordFailure).
		State(stateRunning).
			On(eventSolved).Target(stateSuccess).
			On(eventFail).Target(stateFailure).Do("recordFailure").
			Done().
		State(stateSuccess).
			Final().
			Done().
		State(stateFailure).
			Final().
			Done().
		Build()
}

// lifecycle tracks Running -> Success | Failure for one search.
type lifecycle struct {
	interp *statekit.Interpreter[*lifecycleContext]
	ctx    *lifecycleContext
}

func newLifecycle() (*lifecycle, error) {
	machine, err := newLifecycleMachine()
	if err != nil {
		return nil, err
	}
	ctx := &lifecycleContext{}
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **lifecycleContext) {
		*c = ctx
	})
	interp.Start()
	return &lifecycle{interp: interp, ctx: ctx}, nil
}

func (l *lifecycle) succeed() {
	l.interp.Send(statekit.Event{Type: eventSolved})
}

func (l *lifecycle) fail(reason FailureReason) {
	l.interp.Send(statekit.Event{Type: eventFail, Payload: reason})
}

func (l *lifecycle) outcome() Outcome {
	return Outcome(l.interp.State().Value)
}

func (l *lifecycle) reason() FailureReason { return l.ctx.reason }

func (l *lifecycle) done() bool { return l.interp.Done() }
