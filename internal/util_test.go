package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconstructPath(t *testing.T) {
	t.Parallel()

	cameFrom := map[string]string{"c": "b", "b": "a"}
	previous := func(node string) (string, bool) {
		prev, ok := cameFrom[node]
		return prev, ok
	}

	assert.Equal(t, []string{"a", "b", "c"}, ReconstructPath("c", previous))
	assert.Equal(t, []string{"a"}, ReconstructPath("a", previous))
}
