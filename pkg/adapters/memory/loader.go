package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/turing/pkg/definition"
	"github.com/aretw0/turing/pkg/domain"
)

// Loader implements ports.TableLoader using an in-memory map.
// Safe for concurrent use.
type Loader struct {
	mu       sync.RWMutex
	machines map[string]definition.Definition
}

// NewLoader creates a new Loader seeded with the given definitions,
// keyed by their Name.
func NewLoader(defs ...definition.Definition) (*Loader, error) {
	l := &Loader{machines: make(map[string]definition.Definition)}
	for _, d := range defs {
		if err := l.Add(d); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Add registers or replaces a definition.
func (l *Loader) Add(d definition.Definition) error {
	if d.Name == "" {
		return fmt.Errorf("definition missing name")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.machines[d.Name] = clone(d)
	return nil
}

// Load retrieves a definition by name.
func (l *Loader) Load(ctx context.Context, name string) (definition.Definition, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	d, ok := l.machines[name]
	if !ok {
		return definition.Definition{}, fmt.Errorf("%w: %s", domain.ErrTableNotFound, name)
	}
	return clone(d), nil
}

// List returns all available machine names.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.machines))
	for name := range l.machines {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}

func clone(d definition.Definition) definition.Definition {
	d.Accepting = append([]string(nil), d.Accepting...)
	d.Transitions = append([]definition.Rule(nil), d.Transitions...)
	return d
}
