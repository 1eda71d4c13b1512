package searchclient

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildLevel turns literal grids into a level and its initial state. Agents
// and boxes without an entry in colors are blue.
func buildLevel(t *testing.T, initial, goal []string, colors map[byte]Color) (*Level, *State) {
	t.Helper()

	rows, cols := len(initial), 0
	for _, line := range initial {
		cols = max(cols, len(line))
	}
	colorOf := func(c byte) Color {
		if color, ok := colors[c]; ok {
			return color
		}
		return Blue
	}

	spec := LevelSpec{
		Rows:  rows,
		Cols:  cols,
		Walls: make([]bool, rows*cols),
		Goals: make([]byte, rows*cols),
	}
	boxes := make([]byte, rows*cols)
	var agents [MaxAgents]Position
	numAgents := 0
	for row, line := range initial {
		for col := 0; col < len(line); col++ {
			switch c := line[col]; {
			case c == '+':
				spec.Walls[row*cols+col] = true
			case IsBoxLetter(c):
				boxes[row*cols+col] = c
				spec.BoxColors[c-'A'] = colorOf(c)
			case IsAgentDigit(c):
				agents[c-'0'] = Position{row, col}
				numAgents = max(numAgents, int(c-'0')+1)
			}
		}
	}
	for row, line := range goal {
		for col := 0; col < len(line); col++ {
			if c := line[col]; IsBoxLetter(c) || IsAgentDigit(c) {
				spec.Goals[row*cols+col] = c
			}
		}
	}
	spec.AgentColors = make([]Color, numAgents)
	for id := range spec.AgentColors {
		spec.AgentColors[id] = colorOf(byte('0' + id))
	}

	level, err := NewLevel(spec)
	require.NoError(t, err)
	state, err := NewState(level, agents[:numAgents], boxes)
	require.NoError(t, err)
	return level, state
}

func mustAction(t *testing.T, name string) Action {
	t.Helper()
	action, ok := LookupAction(name)
	require.True(t, ok, "unknown action %s", name)
	return action
}

func joint(t *testing.T, names ...string) JointAction {
	t.Helper()
	j := make(JointAction, len(names))
	for i, name := range names {
		j[i] = mustAction(t, name)
	}
	return j
}

// applyPlan replays plan from s, checking every step is legal.
func applyPlan(t *testing.T, s *State, plan []JointAction) *State {
	t.Helper()
	for step, j := range plan {
		for agent, action := range j {
			require.True(t, s.IsApplicable(agent, action), "step %d: %s not applicable for agent %d", step, action, agent)
		}
		require.False(t, s.IsConflicting(j), "step %d: %s conflicts", step, j)
		s = s.Result(j)
	}
	return s
}
