package dsl

import (
	"github.com/aretw0/turing/pkg/definition"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/validation"
)

// StateBuilder provides a fluent API for configuring the rules leaving a state.
type StateBuilder struct {
	id        string
	rules     []definition.Rule
	accepting bool
	builder   *Builder
}

// On adds the rule (read -> write, move) to target. Blank cells may be given
// as domain.Blank or as the '%' placeholder.
func (s *StateBuilder) On(read, write rune, move domain.Move, target string) *StateBuilder {
	literal := string(validation.FormatSymbol(read)) + ":" +
		string(validation.FormatSymbol(write)) + "," + move.String()
	return s.Rule(literal, target)
}

// Rule adds a rule in literal form "a:b,M" to target.
// The literal is only checked when the table is built.
func (s *StateBuilder) Rule(literal, target string) *StateBuilder {
	s.rules = append(s.rules, definition.Rule{From: s.id, Rule: literal, To: target})
	return s
}

// Accept marks the state as accepting.
func (s *StateBuilder) Accept() *StateBuilder {
	s.accepting = true
	return s
}

// Add switches to another state of the same table.
func (s *StateBuilder) Add(id string) *StateBuilder {
	return s.builder.Add(id)
}

// Build returns the rules added so far.
// This is primarily used by the Builder, but exposed for advanced usage.
func (s *StateBuilder) Build() []definition.Rule {
	return append([]definition.Rule(nil), s.rules...)
}
