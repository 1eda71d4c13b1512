package searchclient

import "github.com/pdrpinto/searchclient/internal"

// Arena owns every state that reached the frontier during one search. States
// refer to their parent by arena slot, so parent links never form cycles and
// the whole tree is released together with the arena.
type Arena struct {
	states []*State
}

func NewArena() *Arena {
	return &Arena{}
}

// Add stores s and assigns its slot. A state belongs to at most one arena.
func (a *Arena) Add(s *State) int {
	if s.id != noParent {
		panic("searchclient: state already stored in an arena")
	}
	s.id = len(a.states)
	a.states = append(a.states, s)
	return s.id
}

// Get returns the state in slot id.
func (a *Arena) Get(id int) *State { return a.states[id] }

func (a *Arena) Len() int { return len(a.states) }

// ExtractPlan returns the joint actions leading from the root to goal in
// chronological order. Its length equals goal.G().
func (a *Arena) ExtractPlan(goal *State) []JointAction {
	path := internal.ReconstructPath(goal, func(s *State) (*State, bool) {
		if s.action == nil || s.parent == noParent {
			return nil, false
		}
		return a.states[s.parent], true
	})

	plan := make([]JointAction, 0, len(path))
	for _, s := range path {
		if s.action != nil {
			plan = append(plan, s.action)
		}
	}
	return plan
}
