package parser

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/searchclient"
)

const sampleLevel = `#domain
hospital
#levelname
SAPush
#colors
blue: 0, A
red: 1, B
#initial
+++++++
+0A   +
+1 B +
+++++++
#goal
+++++++
+   A +
+  1B +
+++++++
#end
`

func parse(t *testing.T, text string) (*Level, error) {
	t.Helper()
	return Parse(bufio.NewReader(strings.NewReader(text)))
}

func TestParse(t *testing.T) {
	t.Parallel()

	level, err := parse(t, sampleLevel)
	require.NoError(t, err)

	assert.Equal(t, "hospital", level.Domain)
	assert.Equal(t, "SAPush", level.Name)

	ctx := level.Context
	assert.Equal(t, 4, ctx.Rows())
	assert.Equal(t, 7, ctx.Cols())
	assert.Equal(t, 2, ctx.NumAgents())
	assert.Equal(t, searchclient.Blue, ctx.AgentColor(0))
	assert.Equal(t, searchclient.Red, ctx.AgentColor(1))
	assert.Equal(t, searchclient.Blue, ctx.BoxColor('A'))
	assert.Equal(t, searchclient.Red, ctx.BoxColor('B'))
	assert.True(t, ctx.IsWall(2, 5), "short rows keep their own walls")
	assert.False(t, ctx.IsWall(2, 6), "short rows are padded with free cells")
	assert.Equal(t, byte('A'), ctx.Goal(1, 4))
	assert.Equal(t, byte('1'), ctx.Goal(2, 3))
	assert.Equal(t, byte('B'), ctx.Goal(2, 4))

	s := level.Initial
	assert.Equal(t, searchclient.Position{Row: 1, Col: 1}, s.Agent(0))
	assert.Equal(t, searchclient.Position{Row: 2, Col: 1}, s.Agent(1))
	assert.Equal(t, byte('A'), s.BoxAt(1, 2))
	assert.Equal(t, byte('B'), s.BoxAt(2, 3))
	assert.Equal(t, 0, s.G())
	assert.Nil(t, s.Action())
	assert.False(t, s.IsGoalState())
}

func TestParse_LeavesRestOfStream(t *testing.T) {
	t.Parallel()

	r := bufio.NewReader(strings.NewReader(sampleLevel + "true\n"))
	_, err := Parse(r)
	require.NoError(t, err)

	rest, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "true\n", rest)
}

func TestParse_CRLF(t *testing.T) {
	t.Parallel()

	level, err := parse(t, strings.ReplaceAll(sampleLevel, "\n", "\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 7, level.Context.Cols())
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{"missing domain header", strings.Replace(sampleLevel, "#domain", "#dom", 1)},
		{"unknown color", strings.Replace(sampleLevel, "blue:", "teal:", 1)},
		{"color line without colon", strings.Replace(sampleLevel, "blue: 0, A", "blue 0, A", 1)},
		{"bad entity", strings.Replace(sampleLevel, "blue: 0, A", "blue: 0, a", 1)},
		{"truncated", sampleLevel[:strings.Index(sampleLevel, "#goal")]},
		{"missing end", strings.Replace(sampleLevel, "#end", "#fin", 1)},
		{"agent gap", strings.Replace(sampleLevel, "+1 B +", "+2 B +", 1)},
		{"duplicate agent", strings.Replace(sampleLevel, "+1 B +", "+0 B +", 1)},
		{"goal wider than level", strings.Replace(sampleLevel, "+  1B +", "+  1B ++", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parse(t, tt.text)
			assert.ErrorIs(t, err, ErrMalformedLevel)
		})
	}
}
