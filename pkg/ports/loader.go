package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/definition"
)

// TableLoader defines how machine definitions are retrieved.
// This allows the storage layer (Loam, FS, Memory) to be decoupled.
type TableLoader interface {
	// Load retrieves the definition of a machine by name.
	// Returns domain.ErrTableNotFound if there is no such machine.
	Load(ctx context.Context, name string) (definition.Definition, error)

	// List returns the names of all machines available.
	List(ctx context.Context) ([]string, error)
}
