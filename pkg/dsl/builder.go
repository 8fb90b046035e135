package dsl

import (
	"fmt"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/definition"
)

// Builder manages the table construction.
type Builder struct {
	name   string
	start  string
	order  []string
	states map[string]*StateBuilder
}

// New creates a new builder for the named machine.
func New(name string) *Builder {
	return &Builder{
		name:   name,
		states: make(map[string]*StateBuilder),
	}
}

// Add creates a new state in the table.
// If the state already exists, it returns the existing builder.
func (b *Builder) Add(id string) *StateBuilder {
	if sb, ok := b.states[id]; ok {
		return sb
	}
	sb := &StateBuilder{id: id, builder: b}
	b.states[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Start marks id as the initial state and returns its builder.
func (b *Builder) Start(id string) *StateBuilder {
	b.start = id
	return b.Add(id)
}

// Definition assembles the states in the order they were added.
// Rules keep their insertion order, which is the lookup priority.
func (b *Builder) Definition() definition.Definition {
	def := definition.Definition{
		Name:  b.name,
		Start: b.start,
	}
	for _, id := range b.order {
		sb := b.states[id]
		if sb.accepting {
			def.Accepting = append(def.Accepting, id)
		}
		def.Transitions = append(def.Transitions, sb.rules...)
	}
	return def
}

// Build validates the definition and compiles it into a memory Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	def := b.Definition()
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid machine %q: %w", b.name, err)
	}

	loader, err := memory.NewLoader(def)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}
