package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/turing/pkg/definition"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// TableLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.TableLoader.
// expected maps machine names to the definitions the loader was seeded with.
func TableLoaderContractTest(t *testing.T, loader ports.TableLoader, expected map[string]definition.Definition) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_Success", func(t *testing.T) {
		for name, want := range expected {
			got, err := loader.Load(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error loading %s: %v", name, err)
			}
			if got.Start != want.Start {
				t.Errorf("start mismatch for %s. got %q, want %q", name, got.Start, want.Start)
			}
			if len(got.Transitions) != len(want.Transitions) {
				t.Fatalf("transition count mismatch for %s. got %d, want %d", name, len(got.Transitions), len(want.Transitions))
			}
			for i := range want.Transitions {
				if got.Transitions[i] != want.Transitions[i] {
					t.Errorf("transition %d mismatch for %s. got %+v, want %+v", i, name, got.Transitions[i], want.Transitions[i])
				}
			}
			if _, err := got.Build(); err != nil {
				t.Errorf("loaded definition %s does not build: %v", name, err)
			}
		}
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := loader.Load(ctx, "non-existent-machine")
		if !errors.Is(err, domain.ErrTableNotFound) {
			t.Errorf("expected ErrTableNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		names, err := loader.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing machines: %v", err)
		}

		if len(names) != len(expected) {
			t.Errorf("expected %d machines, got %d", len(expected), len(names))
		}

		lookup := make(map[string]bool)
		for _, name := range names {
			lookup[name] = true
		}
		for name := range expected {
			if !lookup[name] {
				t.Errorf("expected machine %s not found in list", name)
			}
		}
	})
}
