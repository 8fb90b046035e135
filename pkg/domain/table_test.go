package domain_test

import (
	"context"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	t.Run("Requires Start", func(t *testing.T) {
		_, err := domain.NewTable("", []string{"qf"}, nil)
		assert.ErrorIs(t, err, domain.ErrNoStartState)
	})

	t.Run("Requires Accepting", func(t *testing.T) {
		_, err := domain.NewTable("q0", nil, nil)
		assert.ErrorIs(t, err, domain.ErrNoAcceptingStates)
	})

	t.Run("Deduplicates Accepting In Order", func(t *testing.T) {
		table, err := domain.NewTable("q0", []string{"q2", "q1", "q2"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"q2", "q1"}, table.Accepting())
		assert.True(t, table.IsAccepting("q1"))
		assert.False(t, table.IsAccepting("q0"))
	})

	t.Run("Copies Input Slice", func(t *testing.T) {
		rules := []domain.Transition{domain.NewTransition("q0", 'a', 'b', domain.MoveRight, "q1")}
		table, err := domain.NewTable("q0", []string{"q1"}, rules)
		require.NoError(t, err)

		rules[0] = domain.NewTransition("q9", 'z', 'z', domain.MoveLeft, "q9")
		got, ok := table.Lookup("q0", 'a')
		require.True(t, ok)
		assert.Equal(t, "q1", got.To())
	})
}

func TestTable_Lookup(t *testing.T) {
	first := domain.NewTransition("q0", 'a', 'x', domain.MoveRight, "q1")
	second := domain.NewTransition("q0", 'a', 'y', domain.MoveLeft, "q2")
	other := domain.NewTransition("q1", 'a', 'a', domain.MoveStay, "q1")

	table, err := domain.NewTable("q0", []string{"q2"}, []domain.Transition{first, second, other})
	require.NoError(t, err)

	got, ok := table.Lookup("q0", 'a')
	require.True(t, ok)
	assert.Equal(t, first, got)

	got, ok = table.Lookup("q1", 'a')
	require.True(t, ok)
	assert.Equal(t, other, got)

	_, ok = table.Lookup("q0", 'b')
	assert.False(t, ok)
	_, ok = table.Lookup("q3", 'a')
	assert.False(t, ok)

	assert.Equal(t, 3, table.Len())
}

func TestTable_States(t *testing.T) {
	table, err := domain.NewTable("s0", []string{"f1"}, []domain.Transition{
		domain.NewTransition("a1", '0', '0', domain.MoveRight, "b2"),
		domain.NewTransition("s0", '1', '1', domain.MoveRight, "a1"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"s0", "f1", "a1", "b2"}, table.States())
}

func TestTransition_Rule(t *testing.T) {
	tr := domain.NewTransition("q0", '0', '1', domain.MoveRight, "q1")
	assert.Equal(t, "0:1,R", tr.Rule())
	assert.Equal(t, "q0,0:1,R,q1", tr.String())
}

func TestMove(t *testing.T) {
	for c, want := range map[byte]int{'L': -1, 'R': 1, 'S': 0} {
		m, ok := domain.ParseMove(c)
		require.True(t, ok)
		assert.Equal(t, want, m.Offset())
	}
	_, ok := domain.ParseMove('X')
	assert.False(t, ok)
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnHalt: func(_ context.Context, _ *domain.HaltEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{OnHalt: func(_ context.Context, _ *domain.HaltEvent) { calls = append(calls, "b") }}

	merged := a.Merge(b)
	merged.OnHalt(context.Background(), &domain.HaltEvent{})
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Nil(t, merged.OnStep)
}
