package searchclient

import "fmt"

// ActionKind classifies a primitive action.
type ActionKind int

const (
	NoOpKind ActionKind = iota
	MoveKind
	PushKind
	PullKind
)

func (k ActionKind) String() string {
	switch k {
	case NoOpKind:
		return "NoOp"
	case MoveKind:
		return "Move"
	case PushKind:
		return "Push"
	case PullKind:
		return "Pull"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Delta is a unit displacement on the grid. Row grows southwards and column
// grows eastwards.
type Delta struct {
	Row, Col int
}

// Action is a single agent's primitive action for one time step.
type Action struct {
	name  string
	kind  ActionKind
	agent Delta
	box   Delta
}

// Name is the protocol name, e.g. "Move(N)" or "Push(N,E)".
func (a Action) Name() string { return a.name }

func (a Action) Kind() ActionKind { return a.kind }

// AgentDelta is the displacement of the acting agent.
func (a Action) AgentDelta() Delta { return a.agent }

// BoxDelta is the displacement of the affected box. It is zero for NoOp and Move.
func (a Action) BoxDelta() Delta { return a.box }

func (a Action) String() string { return a.name }

// JointAction holds one action per agent, indexed by agent id.
type JointAction []Action

// String formats the joint action as one protocol line.
func (j JointAction) String() string {
	line := make([]byte, 0, len(j)*10)
	for i, action := range j {
		if i > 0 {
			line = append(line, '|')
		}
		line = append(line, action.name...)
	}
	return string(line)
}

type direction struct {
	name  string
	delta Delta
}

var compass = [...]direction{
	{"N", Delta{-1, 0}},
	{"S", Delta{1, 0}},
	{"E", Delta{0, 1}},
	{"W", Delta{0, -1}},
}

// NoOp is the action that leaves the agent in place.
var NoOp = Action{name: "NoOp", kind: NoOpKind}

var catalog = buildCatalog()

func buildCatalog() []Action {
	actions := make([]Action, 0, 1+len(compass)+2*len(compass)*len(compass))
	actions = append(actions, NoOp)
	for _, d := range compass {
		actions = append(actions, Action{
			name:  "Move(" + d.name + ")",
			kind:  MoveKind,
			agent: d.delta,
		})
	}
	for _, kind := range []ActionKind{PushKind, PullKind} {
		for _, agentDir := range compass {
			for _, boxDir := range compass {
				box := boxDir.delta
				if kind == PullKind {
					// Pull names the side the box sits on, the box itself moves the other way.
					box = Delta{-box.Row, -box.Col}
				}
				actions = append(actions, Action{
					name:  fmt.Sprintf("%s(%s,%s)", kind, agentDir.name, boxDir.name),
					kind:  kind,
					agent: agentDir.delta,
					box:   box,
				})
			}
		}
	}
	return actions
}

// Actions returns the full action catalog in its fixed order: NoOp, the four
// moves, the sixteen pushes and the sixteen pulls. The returned slice is a copy.
func Actions() []Action {
	out := make([]Action, len(catalog))
	copy(out, catalog)
	return out
}

// LookupAction finds a catalog action by protocol name.
func LookupAction(name string) (Action, bool) {
	for _, action := range catalog {
		if action.name == name {
			return action, true
		}
	}
	return Action{}, false
}
