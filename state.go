package searchclient

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Position is a grid cell.
type Position struct {
	Row, Col int
}

func (p Position) add(d Delta) Position { return Position{p.Row + d.Row, p.Col + d.Col} }
func (p Position) sub(d Delta) Position { return Position{p.Row - d.Row, p.Col - d.Col} }

var ErrInvalidState = errors.New("invalid state")

// noParent marks a State without a parent or without an arena slot.
const noParent = -1

// State is one search node: agent positions and box placement over a Level.
//
// A State must be treated as immutable. Its hash is memoized the first time it
// is needed, which happens as soon as it is put into a StateSet or frontier.
type State struct {
	level  *Level
	agents []Position
	boxes  []byte

	id     int
	parent int
	action JointAction
	g      int

	hash   uint64
	hashed bool
}

// NewState builds an initial state (g = 0, no parent, no generating action).
// boxes is row-major over the level's dimensions with 0 for empty cells.
// The slices are copied.
func NewState(level *Level, agents []Position, boxes []byte) (*State, error) {
	if level == nil {
		return nil, fmt.Errorf("%w: nil level", ErrInvalidState)
	}
	if len(agents) != level.NumAgents() {
		return nil, fmt.Errorf("%w: %d agents for %d agent colors", ErrInvalidState, len(agents), level.NumAgents())
	}
	if len(boxes) != level.rows*level.cols {
		return nil, fmt.Errorf("%w: box grid has %d cells, level has %d", ErrInvalidState, len(boxes), level.rows*level.cols)
	}
	for i, p := range agents {
		if !level.InBounds(p.Row, p.Col) {
			return nil, fmt.Errorf("%w: agent %d at (%d,%d) is out of bounds", ErrInvalidState, i, p.Row, p.Col)
		}
		for j := 0; j < i; j++ {
			if agents[j] == p {
				return nil, fmt.Errorf("%w: agents %d and %d share (%d,%d)", ErrInvalidState, j, i, p.Row, p.Col)
			}
		}
	}
	for i, b := range boxes {
		if b != 0 && !IsBoxLetter(b) {
			return nil, fmt.Errorf("%w: %q at cell %d is not a box", ErrInvalidState, b, i)
		}
	}

	return &State{
		level:  level,
		agents: append([]Position(nil), agents...),
		boxes:  append([]byte(nil), boxes...),
		id:     noParent,
		parent: noParent,
	}, nil
}

// detached returns a root copy of s: same placement, no parent, no action, g = 0.
func (s *State) detached() *State {
	return &State{
		level:  s.level,
		agents: s.agents,
		boxes:  s.boxes,
		id:     noParent,
		parent: noParent,
		hash:   s.hash,
		hashed: s.hashed,
	}
}

func (s *State) Level() *Level { return s.level }

func (s *State) NumAgents() int { return len(s.agents) }

// Agent returns the position of agent id.
func (s *State) Agent(agent int) Position { return s.agents[agent] }

// BoxAt returns the box letter at (row, col), or 0.
func (s *State) BoxAt(row, col int) byte {
	if !s.level.InBounds(row, col) {
		return 0
	}
	return s.boxes[row*s.level.cols+col]
}

// G is the number of time steps from the root.
func (s *State) G() int { return s.g }

// ID is the arena slot of the state, or -1 if it was never stored in an Arena.
func (s *State) ID() int { return s.id }

// Parent is the arena slot of the state this one was generated from, or -1.
func (s *State) Parent() int { return s.parent }

// Action is the joint action that produced this state; nil for an initial state.
func (s *State) Action() JointAction { return s.action }

// AgentAt returns the agent occupying (row, col), or -1.
func (s *State) AgentAt(row, col int) int {
	for agent, p := range s.agents {
		if p.Row == row && p.Col == col {
			return agent
		}
	}
	return -1
}

// IsFree reports whether (row, col) is inside the level, not a wall, and
// holds neither a box nor an agent.
func (s *State) IsFree(row, col int) bool {
	return s.level.InBounds(row, col) &&
		!s.level.IsWall(row, col) &&
		s.BoxAt(row, col) == 0 &&
		s.AgentAt(row, col) < 0
}

func (s *State) hasMatchingBox(agent int, p Position) bool {
	box := s.BoxAt(p.Row, p.Col)
	return box != 0 && s.level.BoxColor(box) == s.level.AgentColor(agent)
}

// IsApplicable reports whether agent can perform action in this state,
// ignoring the other agents' simultaneous actions.
func (s *State) IsApplicable(agent int, action Action) bool {
	from := s.agents[agent]
	to := from.add(action.agent)

	switch action.kind {
	case NoOpKind:
		return true
	case MoveKind:
		return s.IsFree(to.Row, to.Col)
	case PushKind:
		if !s.hasMatchingBox(agent, to) {
			return false
		}
		boxTo := to.add(action.box)
		return s.IsFree(boxTo.Row, boxTo.Col)
	case PullKind:
		if !s.hasMatchingBox(agent, from.sub(action.box)) {
			return false
		}
		return s.IsFree(to.Row, to.Col)
	default:
		panic(fmt.Sprintf("searchclient: unsupported action kind %v in %s", action.kind, action.name))
	}
}

// footprint lists the cells an agent's action makes occupied and the box it
// displaces, if any.
type footprint struct {
	cells    [2]Position
	n        int
	box      Position
	movesBox bool
}

func (s *State) footprintOf(agent int, action Action) footprint {
	from := s.agents[agent]
	to := from.add(action.agent)

	var fp footprint
	switch action.kind {
	case MoveKind:
		fp.cells[0], fp.n = to, 1
	case PushKind:
		fp.cells[0], fp.cells[1], fp.n = to, to.add(action.box), 2
		fp.box, fp.movesBox = to, true
	case PullKind:
		fp.cells[0], fp.cells[1], fp.n = to, from, 2
		fp.box, fp.movesBox = from.sub(action.box), true
	default:
		panic(fmt.Sprintf("searchclient: unsupported action kind %v in %s", action.kind, action.name))
	}
	return fp
}

// IsConflicting reports whether two agents in joint would end up in the same
// cell, push or pull objects into the same cell, or displace the same box.
func (s *State) IsConflicting(joint JointAction) bool {
	footprints := make([]footprint, len(joint))
	for agent, action := range joint {
		if action.kind != NoOpKind {
			footprints[agent] = s.footprintOf(agent, action)
		}
	}

	for a1 := range joint {
		if joint[a1].kind == NoOpKind {
			continue
		}
		f1 := &footprints[a1]
		for a2 := a1 + 1; a2 < len(joint); a2++ {
			if joint[a2].kind == NoOpKind {
				continue
			}
			f2 := &footprints[a2]
			if f1.movesBox && f2.movesBox && f1.box == f2.box {
				return true
			}
			for i := 0; i < f1.n; i++ {
				for j := 0; j < f2.n; j++ {
					if f1.cells[i] == f2.cells[j] {
						return true
					}
				}
			}
		}
	}
	return false
}

// Result applies joint to a copy of the state. Every action must be
// applicable and joint must not be conflicting.
func (s *State) Result(joint JointAction) *State {
	if len(joint) != len(s.agents) {
		panic(fmt.Sprintf("searchclient: joint action for %d agents applied to %d agents", len(joint), len(s.agents)))
	}

	agents := append([]Position(nil), s.agents...)
	boxes := append([]byte(nil), s.boxes...)
	cols := s.level.cols

	for agent, action := range joint {
		from := agents[agent]
		to := from.add(action.agent)

		switch action.kind {
		case NoOpKind:
		case MoveKind:
			agents[agent] = to
		case PushKind:
			boxTo := to.add(action.box)
			boxes[boxTo.Row*cols+boxTo.Col] = boxes[to.Row*cols+to.Col]
			boxes[to.Row*cols+to.Col] = 0
			agents[agent] = to
		case PullKind:
			boxFrom := from.sub(action.box)
			boxes[from.Row*cols+from.Col] = boxes[boxFrom.Row*cols+boxFrom.Col]
			boxes[boxFrom.Row*cols+boxFrom.Col] = 0
			agents[agent] = to
		default:
			panic(fmt.Sprintf("searchclient: unsupported action kind %v in %s", action.kind, action.name))
		}
	}

	return &State{
		level:  s.level,
		agents: agents,
		boxes:  boxes,
		id:     noParent,
		parent: s.id,
		action: append(JointAction(nil), joint...),
		g:      s.g + 1,
	}
}

// IsGoalState reports whether every goal cell holds its box or agent.
func (s *State) IsGoalState() bool {
	return unmetGoals(s, true) == 0
}

// unmetGoals counts goal cells whose box letter or agent digit is not in place.
// With stopEarly it returns as soon as one is found.
func unmetGoals(s *State, stopEarly bool) int {
	level := s.level
	unmet := 0
	for i, goal := range level.goals {
		if goal == 0 {
			continue
		}
		switch {
		case IsBoxLetter(goal):
			if s.boxes[i] != goal {
				unmet++
			}
		case IsAgentDigit(goal):
			agent := int(goal - '0')
			if agent >= len(s.agents) || s.agents[agent] != (Position{i / level.cols, i % level.cols}) {
				unmet++
			}
		}
		if stopEarly && unmet > 0 {
			return unmet
		}
	}
	return unmet
}

// Expand generates every child reachable by one non-conflicting joint action.
// Joint actions are enumerated in catalog order with agent 0 varying fastest,
// then the children are shuffled with rng when it is not nil.
func (s *State) Expand(rng *rand.Rand) []*State {
	numAgents := len(s.agents)
	applicable := make([][]Action, numAgents)
	for agent := range applicable {
		for _, action := range catalog {
			if s.IsApplicable(agent, action) {
				applicable[agent] = append(applicable[agent], action)
			}
		}
	}

	joint := make(JointAction, numAgents)
	choice := make([]int, numAgents)
	var children []*State
	for {
		for agent := range joint {
			joint[agent] = applicable[agent][choice[agent]]
		}
		if !s.IsConflicting(joint) {
			children = append(children, s.Result(joint))
		}

		agent := 0
		for ; agent < numAgents; agent++ {
			if choice[agent] < len(applicable[agent])-1 {
				choice[agent]++
				break
			}
			choice[agent] = 0
		}
		if agent == numAgents {
			break
		}
	}

	if rng != nil {
		rng.Shuffle(len(children), func(i, j int) {
			children[i], children[j] = children[j], children[i]
		})
	}
	return children
}

// Hash is memoized; it covers agents, boxes and the level context.
func (s *State) Hash() uint64 {
	if !s.hashed {
		d := xxhash.New()
		fp := s.level.fingerprint
		buf := make([]byte, 0, 8+4*len(s.agents))
		for shift := 0; shift < 64; shift += 8 {
			buf = append(buf, byte(fp>>shift))
		}
		for _, p := range s.agents {
			buf = append(buf, byte(p.Row), byte(p.Row>>8), byte(p.Col), byte(p.Col>>8))
		}
		_, _ = d.Write(buf)
		_, _ = d.Write(s.boxes)
		s.hash = d.Sum64()
		s.hashed = true
	}
	return s.hash
}

// Equal compares agents, boxes and level context. Parent, action and g are
// not part of a state's identity.
func (s *State) Equal(other *State) bool {
	if s == other {
		return true
	}
	if other == nil || len(s.agents) != len(other.agents) {
		return false
	}
	for i := range s.agents {
		if s.agents[i] != other.agents[i] {
			return false
		}
	}
	return string(s.boxes) == string(other.boxes) && s.level.Equal(other.level)
}

// String draws the grid: '+' for walls, letters for boxes, digits for agents.
func (s *State) String() string {
	var b strings.Builder
	for row := 0; row < s.level.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < s.level.cols; col++ {
			switch box, agent := s.BoxAt(row, col), s.AgentAt(row, col); {
			case box != 0:
				b.WriteByte(box)
			case s.level.IsWall(row, col):
				b.WriteByte('+')
			case agent >= 0:
				b.WriteByte(byte('0' + agent))
			default:
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}
