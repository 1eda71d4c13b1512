package searchclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet(reports *[]Status) Option {
	return WithStatusReporter(func(s Status) {
		if reports != nil {
			*reports = append(*reports, s)
		}
	})
}

func TestSearch_CorridorBFS(t *testing.T) {
	t.Parallel()

	_, initial := buildLevel(t,
		[]string{"+++++", "+0  +", "+++++"},
		[]string{"+++++", "+ 0 +", "+++++"}, nil)

	var reports []Status
	result, err := Search(context.Background(), initial, NewBFS(), quiet(&reports))
	require.NoError(t, err)
	require.True(t, result.Found)
	assert.Equal(t, Success, result.Outcome)
	assert.Equal(t, NoFailure, result.Reason)
	require.Len(t, result.Plan, 1)
	assert.Equal(t, "Move(E)", result.Plan[0].String())
	require.NotEmpty(t, reports, "a final status report is emitted on success")
	assert.Equal(t, "breadth-first search", reports[len(reports)-1].Strategy)
}

func TestSearch_PushScenario(t *testing.T) {
	t.Parallel()

	initialGrid := []string{"++++++", "+0 A +", "++++++"}
	goalGrid := []string{"++++++", "+   A+", "++++++"}

	strategies := []Strategy{StrategyBFS, StrategyAStar, StrategyWeightedAStar, StrategyGreedy, StrategyDFS}
	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			t.Parallel()

			_, initial := buildLevel(t, initialGrid, goalGrid, nil)
			frontier, err := NewFrontier(strategy, DefaultWeight)
			require.NoError(t, err)

			result, err := Search(context.Background(), initial, frontier, quiet(nil))
			require.NoError(t, err)
			require.True(t, result.Found)

			final := applyPlan(t, initial, result.Plan)
			assert.True(t, final.IsGoalState())
			assert.Equal(t, len(result.Plan), final.G())

			if strategy == StrategyBFS || strategy == StrategyAStar {
				require.Len(t, result.Plan, 2)
				assert.Equal(t, "Move(E)", result.Plan[0].String())
				assert.Equal(t, "Push(E,E)", result.Plan[1].String())
			}
		})
	}
}

func TestSearch_MultiAgent(t *testing.T) {
	t.Parallel()

	_, initial := buildLevel(t,
		[]string{"++++++", "+0  1+", "++++++"},
		[]string{"++++++", "+ 01 +", "++++++"}, nil)

	result, err := Search(context.Background(), initial, NewBFS(), quiet(nil))
	require.NoError(t, err)
	require.Len(t, result.Plan, 1)
	assert.Equal(t, "Move(E)|Move(W)", result.Plan[0].String())
}

func TestSearch_NoSolution(t *testing.T) {
	t.Parallel()

	_, initial := buildLevel(t,
		[]string{"+++++", "+0  +", "+++++"},
		[]string{"+++++", "+  B+", "+++++"}, nil)

	var reports []Status
	result, err := Search(context.Background(), initial, NewBFS(), quiet(&reports))
	require.ErrorIs(t, err, ErrNoSolution)
	assert.False(t, result.Found)
	assert.Equal(t, Failure, result.Outcome)
	assert.Equal(t, NoSolution, result.Reason)
	assert.Empty(t, result.Plan)
	assert.Equal(t, 3, result.Explored)
	assert.Equal(t, 3, result.Generated())
	assert.NotEmpty(t, reports)
}

func TestSearch_ResourceExceeded(t *testing.T) {
	t.Parallel()

	_, initial := buildLevel(t,
		[]string{"+++++", "+0  +", "+++++"},
		[]string{"+++++", "+  0+", "+++++"}, nil)

	var reports []Status
	probe := MemoryProbeFunc(func() float64 { return 64 })
	result, err := Search(context.Background(), initial, NewBFS(),
		WithMaxMemory(0.001),
		WithMemoryProbe(probe),
		quiet(&reports),
	)
	require.ErrorIs(t, err, ErrResourceExceeded)
	assert.False(t, result.Found)
	assert.Equal(t, Failure, result.Outcome)
	assert.Equal(t, ResourceExceeded, result.Reason)
	require.Len(t, reports, 1, "the final status report is still emitted")
	assert.Equal(t, 64.0, reports[0].MemoryMB)
	assert.Equal(t, 0.001, reports[0].MaxMemoryMB)
}

func TestSearch_Cancelled(t *testing.T) {
	t.Parallel()

	_, initial := buildLevel(t,
		[]string{"+++++", "+0  +", "+++++"},
		[]string{"+++++", "+  0+", "+++++"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Search(ctx, initial, NewBFS(), quiet(nil))
	require.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, Cancelled, result.Reason)
}

func TestSearch_StatusInterval(t *testing.T) {
	t.Parallel()

	_, initial := buildLevel(t,
		[]string{"+++++++", "+0    +", "+++++++"},
		[]string{"+++++++", "+    0+", "+++++++"}, nil)

	var reports []Status
	result, err := Search(context.Background(), initial, NewBFS(), WithStatusInterval(2), quiet(&reports))
	require.NoError(t, err)
	require.Len(t, result.Plan, 4)

	// five iterations: reports at 2 and 4 plus the final one
	require.Len(t, reports, 3)
	last := reports[len(reports)-1]
	assert.Equal(t, result.Explored, last.Explored)
	assert.Equal(t, last.Explored+last.FrontierSize, last.Generated())
}

func TestSearch_Deterministic(t *testing.T) {
	t.Parallel()

	initialGrid := []string{
		"+++++++",
		"+0 A  +",
		"+ ++  +",
		"+1 B  +",
		"+++++++",
	}
	goalGrid := []string{
		"+++++++",
		"+    A+",
		"+ ++  +",
		"+    B+",
		"+++++++",
	}
	colors := map[byte]Color{'0': Red, 'A': Red, '1': Green, 'B': Green}

	run := func(seed int64) []JointAction {
		_, initial := buildLevel(t, initialGrid, goalGrid, colors)
		result, err := Search(context.Background(), initial, NewBestFirst(Greedy()), WithSeed(seed), quiet(nil))
		require.NoError(t, err)
		final := applyPlan(t, initial, result.Plan)
		require.True(t, final.IsGoalState())
		return result.Plan
	}

	assert.Equal(t, run(7), run(7))
}

func TestSearch_DoesNotModifyInitial(t *testing.T) {
	t.Parallel()

	_, initial := buildLevel(t,
		[]string{"+++++", "+0  +", "+++++"},
		[]string{"+++++", "+ 0 +", "+++++"}, nil)

	for i := 0; i < 2; i++ {
		result, err := Search(context.Background(), initial, NewBFS(), quiet(nil))
		require.NoError(t, err)
		require.Len(t, result.Plan, 1)
	}
	assert.Equal(t, -1, initial.ID())
}

func TestStepper_StepsToCompletion(t *testing.T) {
	t.Parallel()

	_, initial := buildLevel(t,
		[]string{"++++++", "+0 A +", "++++++"},
		[]string{"++++++", "+   A+", "++++++"}, nil)

	stepper, err := NewStepper(context.Background(), initial, NewBFS(), quiet(nil))
	require.NoError(t, err)

	var snapshot StepSnapshot
	for i := 1; ; i++ {
		snapshot = stepper.Step()
		require.Equal(t, i, snapshot.StepIndex)
		if snapshot.Done {
			break
		}
		assert.Equal(t, Running, snapshot.Outcome)
	}

	require.True(t, snapshot.Found)
	require.NotNil(t, snapshot.Current)
	assert.True(t, snapshot.Current.IsGoalState())

	result, err := stepper.Result()
	require.NoError(t, err)
	assert.Len(t, result.Plan, snapshot.Current.G())
	assert.Equal(t, snapshot.Current.G(), len(stepper.Arena().ExtractPlan(snapshot.Current)))

	again := stepper.Step()
	assert.True(t, again.Done)
	assert.Equal(t, snapshot.StepIndex, again.StepIndex)
}

func TestNewStepper_RequiresInputs(t *testing.T) {
	t.Parallel()

	_, err := NewStepper(context.Background(), nil, NewBFS())
	assert.Error(t, err)
}

func TestLifecycle(t *testing.T) {
	t.Parallel()

	life, err := newLifecycle()
	require.NoError(t, err)
	assert.Equal(t, Running, life.outcome())
	assert.False(t, life.done())

	life.fail(ResourceExceeded)
	assert.Equal(t, Failure, life.outcome())
	assert.Equal(t, ResourceExceeded, life.reason())
	assert.True(t, life.done())

	life, err = newLifecycle()
	require.NoError(t, err)
	life.succeed()
	assert.Equal(t, Success, life.outcome())
	assert.Equal(t, NoFailure, life.reason())
	assert.True(t, life.done())
}
