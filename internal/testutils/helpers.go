package testutils

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/turing/pkg/definition"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo creates a temporary directory and initializes a Loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// Flipper returns the definition of a machine over {0,1} that rewrites every
// 0 as 1 and accepts on the first blank.
func Flipper() definition.Definition {
	return definition.Definition{
		Name:      "flipper",
		Start:     "q0",
		Accepting: []string{"qf"},
		Transitions: []definition.Rule{
			{From: "q0", Rule: "0:1,R", To: "q0"},
			{From: "q0", Rule: "1:1,R", To: "q0"},
			{From: "q0", Rule: "%:%,S", To: "qf"},
		},
	}
}

// FlipperTable builds Flipper, failing the test on error.
func FlipperTable(t testing.TB) *domain.Table {
	t.Helper()
	table, err := Flipper().Build()
	require.NoError(t, err)
	return table
}
