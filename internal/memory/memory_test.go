package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessProbe_ReportsResidentMemory(t *testing.T) {
	probe, err := NewProcessProbe(context.Background())
	require.NoError(t, err)

	usage := probe.UsageMB()
	require.NoError(t, probe.Err())
	assert.Greater(t, usage, 0.0)

	second := probe.UsageMB()
	assert.Greater(t, second, 0.0)
	assert.Equal(t, second, probe.last)
}
