package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rule(from string, read, write rune, move domain.Move, to string) domain.Transition {
	return domain.NewTransition(from, read, write, move, to)
}

func mustTable(t *testing.T, start string, accepting []string, rules ...domain.Transition) *domain.Table {
	t.Helper()
	table, err := domain.NewTable(start, accepting, rules)
	require.NoError(t, err)
	return table
}

// flipper rewrites 0s to 1s moving right and accepts on a blank.
func flipper(t *testing.T) *domain.Table {
	return mustTable(t, "q0", []string{"qf"},
		rule("q0", '0', '1', domain.MoveRight, "q0"),
		rule("q0", domain.Blank, domain.Blank, domain.MoveStay, "qf"),
	)
}

func TestEngine_Evaluate(t *testing.T) {
	engine := runtime.NewEngine()
	ctx := context.Background()

	t.Run("Runs Off The Right End", func(t *testing.T) {
		out, err := engine.Evaluate(ctx, flipper(t), "00")
		require.NoError(t, err)

		assert.Equal(t, domain.ResultRejectedHalted, out.Result)
		assert.Equal(t, domain.HaltOffRight, out.Halt)
		assert.Equal(t, 2, out.Steps)
		assert.Equal(t, "11", out.Tape)
		assert.Equal(t, "q0", out.FinalState)
		assert.Equal(t, 2, out.Position)
	})

	t.Run("Empty Input Classifies Start State", func(t *testing.T) {
		out, err := engine.Evaluate(ctx, flipper(t), "")
		require.NoError(t, err)

		assert.Equal(t, domain.ResultRejectedHalted, out.Result)
		assert.Equal(t, domain.HaltEmptyTape, out.Halt)
		assert.Zero(t, out.Steps)
	})

	t.Run("Empty Input On Accepting Start", func(t *testing.T) {
		table := mustTable(t, "q0", []string{"q0"})
		out, err := engine.Evaluate(ctx, table, "")
		require.NoError(t, err)
		assert.Equal(t, domain.ResultAccepted, out.Result)
	})

	t.Run("Accepts On Explicit Blank", func(t *testing.T) {
		out, err := engine.Evaluate(ctx, flipper(t), "00 ")
		require.NoError(t, err)

		assert.Equal(t, domain.ResultAccepted, out.Result)
		assert.Equal(t, domain.HaltAccepted, out.Halt)
		assert.Equal(t, "qf", out.FinalState)
		assert.Equal(t, 3, out.Steps)
	})

	t.Run("Stuck On First Symbol", func(t *testing.T) {
		out, err := engine.Evaluate(ctx, flipper(t), "1")
		require.NoError(t, err)

		assert.Equal(t, domain.ResultRejectedStuck, out.Result)
		assert.Equal(t, domain.HaltStuck, out.Halt)
		assert.Zero(t, out.Steps)
	})

	t.Run("Stuck Mid Tape", func(t *testing.T) {
		out, err := engine.Evaluate(ctx, flipper(t), "0010")
		require.NoError(t, err)

		assert.Equal(t, domain.ResultRejectedStuck, out.Result)
		assert.Equal(t, 2, out.Position)
		assert.Equal(t, "1110", out.Tape)
	})

	t.Run("Self Loop Runs Off", func(t *testing.T) {
		table := mustTable(t, "a1", []string{"b1"}, rule("a1", 'x', 'x', domain.MoveRight, "a1"))
		for _, input := range []string{"x", "xx", "xxxxxxxx"} {
			out, err := engine.Evaluate(ctx, table, input)
			require.NoError(t, err)
			assert.Equal(t, domain.ResultRejectedHalted, out.Result, input)
			assert.Equal(t, len(input), out.Steps, input)
		}
	})

	t.Run("Runs Off The Left End", func(t *testing.T) {
		table := mustTable(t, "q0", []string{"qf"}, rule("q0", 'a', 'b', domain.MoveLeft, "q1"))
		out, err := engine.Evaluate(ctx, table, "aa")
		require.NoError(t, err)

		assert.Equal(t, domain.ResultRejectedHalted, out.Result)
		assert.Equal(t, domain.HaltOffLeft, out.Halt)
		assert.Equal(t, -1, out.Position)
		assert.Equal(t, "ba", out.Tape)
	})

	t.Run("Acceptance Is Checked Every Step", func(t *testing.T) {
		// Reaches qf on the first step, later rules would reject.
		table := mustTable(t, "q0", []string{"qf"},
			rule("q0", 'a', 'a', domain.MoveRight, "qf"),
			rule("qf", 'a', 'a', domain.MoveRight, "q9"),
		)
		out, err := engine.Evaluate(ctx, table, "aaa")
		require.NoError(t, err)
		assert.Equal(t, domain.ResultAccepted, out.Result)
		assert.Equal(t, 1, out.Steps)
	})

	t.Run("First Duplicate Rule Wins", func(t *testing.T) {
		table := mustTable(t, "q0", []string{"qf"},
			rule("q0", 'a', 'x', domain.MoveRight, "q1"),
			rule("q0", 'a', 'y', domain.MoveRight, "qf"),
		)
		out, err := engine.Evaluate(ctx, table, "a")
		require.NoError(t, err)
		assert.Equal(t, domain.ResultRejectedHalted, out.Result)
		assert.Equal(t, "x", out.Tape)
	})

	t.Run("Input Is Not Aliased", func(t *testing.T) {
		input := "00"
		_, err := engine.Evaluate(ctx, flipper(t), input)
		require.NoError(t, err)
		assert.Equal(t, "00", input)
	})
}

func TestEngine_Deterministic(t *testing.T) {
	engine := runtime.NewEngine()
	table := flipper(t)

	first, err := engine.Evaluate(context.Background(), table, "000")
	require.NoError(t, err)
	for range 5 {
		again, err := engine.Evaluate(context.Background(), table, "000")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEngine_StepLimit(t *testing.T) {
	// Stay forever on the same cell.
	table := mustTable(t, "q0", []string{"qf"}, rule("q0", 'a', 'a', domain.MoveStay, "q0"))

	engine := runtime.NewEngine(runtime.WithMaxSteps(50))
	out, err := engine.Evaluate(context.Background(), table, "a")
	require.NoError(t, err)

	assert.Equal(t, domain.ResultStepLimitExceeded, out.Result)
	assert.Equal(t, domain.HaltStepLimit, out.Halt)
	assert.Equal(t, 50, out.Steps)
}

func TestEngine_StepLimitAtBoundary(t *testing.T) {
	engine := runtime.NewEngine(runtime.WithMaxSteps(2))
	ctx := context.Background()

	t.Run("Leaving The Tape On The Last Step Is A Halt", func(t *testing.T) {
		table := mustTable(t, "q0", []string{"qf"}, rule("q0", '0', '1', domain.MoveRight, "q0"))
		out, err := engine.Evaluate(ctx, table, "00")
		require.NoError(t, err)

		assert.Equal(t, domain.ResultRejectedHalted, out.Result)
		assert.Equal(t, domain.HaltOffRight, out.Halt)
		assert.Equal(t, 2, out.Steps)
		assert.Equal(t, 2, out.Position)
	})

	t.Run("Stuck After The Last Step Is Stuck", func(t *testing.T) {
		table := mustTable(t, "q0", []string{"qf"}, rule("q0", '0', '1', domain.MoveRight, "q0"))
		out, err := engine.Evaluate(ctx, table, "00x")
		require.NoError(t, err)

		assert.Equal(t, domain.ResultRejectedStuck, out.Result)
		assert.Equal(t, domain.HaltStuck, out.Halt)
		assert.Equal(t, 2, out.Steps)
	})

	t.Run("Accepting On The Last Step Is Accepted", func(t *testing.T) {
		out, err := engine.Evaluate(ctx, flipper(t), "0 ")
		require.NoError(t, err)

		assert.Equal(t, domain.ResultAccepted, out.Result)
		assert.Equal(t, 2, out.Steps)
	})

	t.Run("A Pending Step Is Cut Off", func(t *testing.T) {
		table := mustTable(t, "q0", []string{"qf"}, rule("q0", '0', '1', domain.MoveRight, "q0"))
		out, err := engine.Evaluate(ctx, table, "000")
		require.NoError(t, err)

		assert.Equal(t, domain.ResultStepLimitExceeded, out.Result)
		assert.Equal(t, domain.HaltStepLimit, out.Halt)
		assert.Equal(t, 2, out.Steps)
		assert.Equal(t, "110", out.Tape)
	})
}

func TestEngine_AcceptingStartWithNoRule(t *testing.T) {
	// The step loop never enters an accepting state without returning, so
	// the only stuck-in-accepting run is one stuck on its first symbol.
	table := mustTable(t, "q0", []string{"q0"}, rule("q0", 'a', 'a', domain.MoveRight, "q1"))

	out, err := runtime.NewEngine().Evaluate(context.Background(), table, "b")
	require.NoError(t, err)

	assert.Equal(t, domain.ResultAccepted, out.Result)
	assert.Equal(t, domain.HaltStuck, out.Halt)
	assert.Zero(t, out.Steps)
	assert.Equal(t, "q0", out.FinalState)
}

func TestEngine_Cancellation(t *testing.T) {
	table := mustTable(t, "q0", []string{"qf"}, rule("q0", 'a', 'a', domain.MoveStay, "q0"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := runtime.NewEngine(runtime.WithMaxSteps(0))
	_, err := engine.Evaluate(ctx, table, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_MaxStepsFromEnv(t *testing.T) {
	t.Setenv(runtime.EnvMaxSteps, "7")
	assert.Equal(t, 7, runtime.NewEngine().MaxSteps())

	t.Setenv(runtime.EnvMaxSteps, "-1")
	assert.Equal(t, 0, runtime.NewEngine().MaxSteps())
}

func TestEngine_Hooks(t *testing.T) {
	var steps []int
	var halts []domain.Outcome

	engine := runtime.NewEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			steps = append(steps, e.Step)
		},
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			halts = append(halts, e.Outcome)
		},
	}))

	out, err := engine.Evaluate(context.Background(), flipper(t), "00 ")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, steps)
	require.Len(t, halts, 1)
	assert.Equal(t, out, halts[0])
}
