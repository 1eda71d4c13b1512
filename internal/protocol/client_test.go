package protocol

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/searchclient"
)

func action(t *testing.T, name string) searchclient.Action {
	t.Helper()
	a, ok := searchclient.LookupAction(name)
	require.True(t, ok)
	return a
}

func TestClient_GreetAndComment(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	client := NewClient(strings.NewReader(""), out)

	require.NoError(t, client.Greet())
	require.NoError(t, client.Comment("planning"))
	assert.Equal(t, "SearchClient\n#planning\n", out.String())
}

func TestClient_SendPlan(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	client := NewClient(strings.NewReader("true|true\ntrue|false\n"), out)

	plan := []searchclient.JointAction{
		{action(t, "Move(E)"), action(t, "NoOp")},
		{action(t, "Push(E,E)"), action(t, "Pull(N,S)")},
	}
	acks, err := client.SendPlan(plan)
	require.NoError(t, err)
	assert.Equal(t, []string{"true|true", "true|false"}, acks)
	assert.Equal(t, "Move(E)|NoOp\nPush(E,E)|Pull(N,S)\n", out.String())
}

func TestClient_SendPlanMissingAck(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	client := NewClient(strings.NewReader("true\n"), out)

	plan := []searchclient.JointAction{
		{action(t, "Move(E)")},
		{action(t, "Move(E)")},
	}
	acks, err := client.SendPlan(plan)
	require.Error(t, err)
	assert.Equal(t, []string{"true"}, acks)
}
