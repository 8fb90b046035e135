// Package definition describes transition tables in serialisable form and
// converts them into validated domain tables.
package definition

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/validation"
)

// Definition is the on-disk and on-wire description of a machine.
// It uses "mapstructure" tags so it can be decoded from frontmatter and
// untyped argument maps as well as from YAML and JSON.
type Definition struct {
	Name        string   `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Start       string   `json:"start" yaml:"start" mapstructure:"start"`
	Accepting   []string `json:"accepting" yaml:"accepting" mapstructure:"accepting"`
	Transitions []Rule   `json:"transitions" yaml:"transitions" mapstructure:"transitions"`
}

// Rule is one transition: From, the literal "a:b,M" and To.
type Rule struct {
	From string `json:"from" yaml:"from" mapstructure:"from"`
	Rule string `json:"rule" yaml:"rule" mapstructure:"rule"`
	To   string `json:"to" yaml:"to" mapstructure:"to"`
}

// Validate checks every identifier and rule literal, reporting all failures at once.
func (d Definition) Validate() error {
	_, err := d.transitions()
	return err
}

// Build validates the definition and returns the resulting table.
func (d Definition) Build() (*domain.Table, error) {
	transitions, err := d.transitions()
	if err != nil {
		return nil, err
	}
	table, err := domain.NewTable(d.Start, d.Accepting, transitions)
	if err != nil {
		return nil, fmt.Errorf("failed to build table: %w", err)
	}
	return table, nil
}

func (d Definition) transitions() ([]domain.Transition, error) {
	var errs []error
	check := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	check(validation.State("start", d.Start))
	if len(d.Accepting) == 0 {
		check(&validation.ValidationError{Key: "accepting", Reason: validation.ErrInvalidCount, Value: 0})
	}
	for i, s := range d.Accepting {
		check(validation.State(fmt.Sprintf("accepting[%d]", i), s))
	}

	transitions := make([]domain.Transition, 0, len(d.Transitions))
	for i, r := range d.Transitions {
		prefix := fmt.Sprintf("transitions[%d]", i)
		check(validation.State(prefix+".from", r.From))
		check(validation.State(prefix+".to", r.To))

		parsed, err := validation.ParseRule(r.Rule)
		if err != nil {
			errs = append(errs, &validation.ValidationError{Key: prefix + ".rule", Reason: validation.ErrInvalidRule, Value: r.Rule})
			continue
		}
		transitions = append(transitions, domain.NewTransition(r.From, parsed.Read, parsed.Write, parsed.Move, r.To))
	}

	if len(errs) > 0 {
		return nil, &validation.AggregateError{Errors: errs}
	}
	return transitions, nil
}

// FromTable converts a table back into its serialisable form.
func FromTable(name string, t *domain.Table) Definition {
	d := Definition{
		Name:      name,
		Start:     t.Start(),
		Accepting: t.Accepting(),
	}
	for _, tr := range t.Transitions() {
		d.Transitions = append(d.Transitions, Rule{
			From: tr.From(),
			Rule: validation.FormatRule(tr),
			To:   tr.To(),
		})
	}
	return d
}
