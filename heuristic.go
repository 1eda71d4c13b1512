package searchclient

import "fmt"

// Heuristic evaluates states for best-first frontiers. The set of
// evaluations is closed: Greedy, AStar and WeightedAStar.
type Heuristic interface {
	// H estimates the remaining cost from s to a goal state.
	H(s *State) int
	// F is the ordering key used by the frontier.
	F(s *State) int
	String() string

	evaluation()
}

// goalCount is the baseline estimate: the number of goal cells not yet satisfied.
type goalCount struct{}

func (goalCount) H(s *State) int { return unmetGoals(s, false) }

func (goalCount) evaluation() {}

type greedy struct{ goalCount }

// Greedy orders states by h alone.
func Greedy() Heuristic { return greedy{} }

func (h greedy) F(s *State) int { return h.H(s) }
func (greedy) String() string   { return "greedy evaluation" }

type aStar struct{ goalCount }

// AStar orders states by g + h.
func AStar() Heuristic { return aStar{} }

func (h aStar) F(s *State) int { return s.g + h.H(s) }
func (aStar) String() string   { return "A* evaluation" }

type weightedAStar struct {
	goalCount
	weight int
}

// WeightedAStar orders states by g + w*h. Weights below 1 are raised to 1.
func WeightedAStar(weight int) Heuristic {
	if weight < 1 {
		weight = 1
	}
	return weightedAStar{weight: weight}
}

func (h weightedAStar) F(s *State) int { return s.g + h.weight*h.H(s) }
func (h weightedAStar) String() string { return fmt.Sprintf("WA*(%d) evaluation", h.weight) }
