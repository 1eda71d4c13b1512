package searchclient

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Color is one of the fixed palette colors shared by agents and boxes.
type Color uint8

const (
	NoColor Color = iota
	Blue
	Red
	Cyan
	Purple
	Green
	Orange
	Pink
	Grey
	Lightblue
	Brown
)

var colorNames = [...]string{
	NoColor:   "none",
	Blue:      "blue",
	Red:       "red",
	Cyan:      "cyan",
	Purple:    "purple",
	Green:     "green",
	Orange:    "orange",
	Pink:      "pink",
	Grey:      "grey",
	Lightblue: "lightblue",
	Brown:     "brown",
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("Color(%d)", int(c))
}

// ParseColor looks up a palette color by name, ignoring case.
func ParseColor(name string) (Color, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c := Blue; int(c) < len(colorNames); c++ {
		if colorNames[c] == name {
			return c, true
		}
	}
	return NoColor, false
}

const (
	// MaxAgents is the number of agent digits '0'..'9'.
	MaxAgents = 10
	// MaxBoxes is the number of box letters 'A'..'Z'.
	MaxBoxes = 26
)

// IsBoxLetter reports whether c names a box.
func IsBoxLetter(c byte) bool { return c >= 'A' && c <= 'Z' }

// IsAgentDigit reports whether c names an agent.
func IsAgentDigit(c byte) bool { return c >= '0' && c <= '9' }

var ErrLevelDimensions = errors.New("level grids have inconsistent dimensions")

// Level is the run-constant context every State refers to: walls, goals and
// colors. It is never mutated after NewLevel returns.
type Level struct {
	rows, cols  int
	walls       []bool
	goals       []byte
	agentColors []Color
	boxColors   [MaxBoxes]Color
	fingerprint uint64
}

// LevelSpec carries the raw grids used to build a Level. Grids are row-major;
// a goal cell is 0 when empty, a box letter or an agent digit otherwise.
type LevelSpec struct {
	Rows, Cols  int
	Walls       []bool
	Goals       []byte
	AgentColors []Color
	BoxColors   [MaxBoxes]Color
}

// NewLevel copies spec into an immutable Level.
func NewLevel(spec LevelSpec) (*Level, error) {
	cells := spec.Rows * spec.Cols
	if spec.Rows <= 0 || spec.Cols <= 0 || len(spec.Walls) != cells || len(spec.Goals) != cells {
		return nil, fmt.Errorf("%w: %dx%d with %d walls and %d goals",
			ErrLevelDimensions, spec.Rows, spec.Cols, len(spec.Walls), len(spec.Goals))
	}
	if len(spec.AgentColors) > MaxAgents {
		return nil, fmt.Errorf("too many agents: %d", len(spec.AgentColors))
	}

	level := &Level{
		rows:        spec.Rows,
		cols:        spec.Cols,
		walls:       append([]bool(nil), spec.Walls...),
		goals:       append([]byte(nil), spec.Goals...),
		agentColors: append([]Color(nil), spec.AgentColors...),
		boxColors:   spec.BoxColors,
	}
	level.fingerprint = level.digest()
	return level, nil
}

func (l *Level) digest() uint64 {
	d := xxhash.New()
	_, _ = d.Write([]byte{byte(l.rows), byte(l.rows >> 8), byte(l.cols), byte(l.cols >> 8)})
	for _, wall := range l.walls {
		if wall {
			_, _ = d.Write([]byte{1})
		} else {
			_, _ = d.Write([]byte{0})
		}
	}
	_, _ = d.Write(l.goals)
	for _, c := range l.agentColors {
		_, _ = d.Write([]byte{byte(c)})
	}
	for _, c := range l.boxColors {
		_, _ = d.Write([]byte{byte(c)})
	}
	return d.Sum64()
}

func (l *Level) Rows() int { return l.rows }
func (l *Level) Cols() int { return l.cols }

// NumAgents is the number of agents in the level.
func (l *Level) NumAgents() int { return len(l.agentColors) }

func (l *Level) InBounds(row, col int) bool {
	return row >= 0 && row < l.rows && col >= 0 && col < l.cols
}

// IsWall reports whether (row, col) is a wall. Out-of-bounds cells count as walls.
func (l *Level) IsWall(row, col int) bool {
	if !l.InBounds(row, col) {
		return true
	}
	return l.walls[row*l.cols+col]
}

// Goal returns the goal symbol at (row, col), or 0 when there is none.
func (l *Level) Goal(row, col int) byte {
	if !l.InBounds(row, col) {
		return 0
	}
	return l.goals[row*l.cols+col]
}

func (l *Level) AgentColor(agent int) Color { return l.agentColors[agent] }

// BoxColor returns the color of box letter, or NoColor for anything else.
func (l *Level) BoxColor(letter byte) Color {
	if !IsBoxLetter(letter) {
		return NoColor
	}
	return l.boxColors[letter-'A']
}

// Equal reports whether two levels describe the same context.
func (l *Level) Equal(other *Level) bool {
	if l == other {
		return true
	}
	if l == nil || other == nil || l.fingerprint != other.fingerprint {
		return false
	}
	if l.rows != other.rows || l.cols != other.cols || l.boxColors != other.boxColors {
		return false
	}
	if string(l.goals) != string(other.goals) || len(l.agentColors) != len(other.agentColors) {
		return false
	}
	for i := range l.walls {
		if l.walls[i] != other.walls[i] {
			return false
		}
	}
	for i := range l.agentColors {
		if l.agentColors[i] != other.agentColors[i] {
			return false
		}
	}
	return true
}
