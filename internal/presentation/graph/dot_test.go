package graph_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flipper(t *testing.T) *domain.Table {
	t.Helper()
	table, err := domain.NewTable("q0", []string{"qf", "q9"}, []domain.Transition{
		domain.NewTransition("q0", '0', '1', domain.MoveRight, "q0"),
		domain.NewTransition("q0", domain.Blank, domain.Blank, domain.MoveStay, "qf"),
		domain.NewTransition("q0", '"', '\\', domain.MoveLeft, "q9"),
	})
	require.NoError(t, err)
	return table
}

func TestGenerateDOT(t *testing.T) {
	want := `digraph G {
  rankdir=LR;
  node [shape = circle];
  __start [shape=point, label=""];
  __start -> "q0";
  "qf" [shape=doublecircle];
  "q9" [shape=doublecircle];
  "q0" -> "q0" [label="0:1,R"];
  "q0" -> "qf" [label=" : ,S"];
  "q0" -> "q9" [label="\":\\,L"];
}
`
	assert.Equal(t, want, graph.GenerateDOT(flipper(t)))
}

func TestGenerateDOT_StatesVerbatim(t *testing.T) {
	table, err := domain.NewTable("not valid!", []string{"1"}, []domain.Transition{
		domain.NewTransition("not valid!", 'a', 'a', domain.MoveRight, "1"),
	})
	require.NoError(t, err)

	dot := graph.GenerateDOT(table)
	assert.Contains(t, dot, `"not valid!" -> "1" [label="a:a,R"];`)
	assert.Contains(t, dot, `"1" [shape=doublecircle];`)
}

func TestParseDOT_RoundTrip(t *testing.T) {
	table := flipper(t)

	got, err := graph.ParseDOT(graph.GenerateDOT(table))
	require.NoError(t, err)
	assert.Equal(t, table.Transitions(), got)
}

func TestParseDOT_RoundTripAwkwardStateNames(t *testing.T) {
	names := []string{"__start", "q__start", "__start_", "a->b", `x[label="y"]`}
	var rules []domain.Transition
	for i, name := range names {
		next := names[(i+1)%len(names)]
		rules = append(rules, domain.NewTransition(name, 'a', 'b', domain.MoveRight, next))
	}
	table, err := domain.NewTable("__start", []string{"a->b", `x[label="y"]`}, rules)
	require.NoError(t, err)

	dot := graph.GenerateDOT(table)
	assert.Contains(t, dot, "  __start__ [shape=point, label=\"\"];\n")
	assert.Contains(t, dot, "  __start__ -> \"__start\";\n")

	got, err := graph.ParseDOT(dot)
	require.NoError(t, err)
	assert.Equal(t, table.Transitions(), got)
}

func TestParseDOT_RejectsUnknownEdges(t *testing.T) {
	_, err := graph.ParseDOT(`"a" -> "b" [label="nonsense"];`)
	assert.Error(t, err)

	_, err = graph.ParseDOT(`a -> b [label="0:1,R"]`)
	assert.Error(t, err)
}

func TestRenderImage_MissingBinary(t *testing.T) {
	old := graph.DotBinary
	graph.DotBinary = "definitely-not-graphviz-binary"
	t.Cleanup(func() { graph.DotBinary = old })

	dir := t.TempDir()
	err := graph.RenderImage(context.Background(), filepath.Join(dir, "g.dot"), filepath.Join(dir, "g.png"))
	assert.ErrorIs(t, err, graph.ErrRendererNotFound)
}
