package domain

import "errors"

var (
	// ErrNoStartState is returned when a table is built without a start state.
	ErrNoStartState = errors.New("table requires a start state")
	// ErrNoAcceptingStates is returned when a table is built without accepting states.
	ErrNoAcceptingStates = errors.New("table requires at least one accepting state")
)

type lookupKey struct {
	state  string
	symbol rune
}

// Table owns the rule set of a machine together with its start state and
// accepting states. It is read-only after construction and safe to share
// between concurrent evaluations.
type Table struct {
	start       string
	accepting   []string
	acceptSet   map[string]struct{}
	transitions []Transition
	index       map[lookupKey]int
}

// NewTable builds a table. Accepting states are de-duplicated keeping the
// first occurrence. Rules sharing (from, read) are kept; Lookup always resolves
// to the first one in insertion order.
func NewTable(start string, accepting []string, transitions []Transition) (*Table, error) {
	if start == "" {
		return nil, ErrNoStartState
	}

	t := &Table{
		start:       start,
		acceptSet:   make(map[string]struct{}, len(accepting)),
		transitions: make([]Transition, len(transitions)),
		index:       make(map[lookupKey]int, len(transitions)),
	}

	for _, s := range accepting {
		if _, dup := t.acceptSet[s]; dup {
			continue
		}
		t.acceptSet[s] = struct{}{}
		t.accepting = append(t.accepting, s)
	}
	if len(t.accepting) == 0 {
		return nil, ErrNoAcceptingStates
	}

	copy(t.transitions, transitions)
	for i, tr := range t.transitions {
		key := lookupKey{state: tr.from, symbol: tr.read}
		if _, seen := t.index[key]; !seen {
			t.index[key] = i
		}
	}

	return t, nil
}

// Lookup returns the first rule whose source state and read symbol match.
func (t *Table) Lookup(state string, symbol rune) (Transition, bool) {
	i, ok := t.index[lookupKey{state: state, symbol: symbol}]
	if !ok {
		return Transition{}, false
	}
	return t.transitions[i], true
}

// IsAccepting reports whether state belongs to the accepting set.
func (t *Table) IsAccepting(state string) bool {
	_, ok := t.acceptSet[state]
	return ok
}

// Start returns the initial state.
func (t *Table) Start() string { return t.start }

// Accepting returns the accepting states in insertion order.
func (t *Table) Accepting() []string {
	out := make([]string, len(t.accepting))
	copy(out, t.accepting)
	return out
}

// Transitions returns the rules in insertion order.
func (t *Table) Transitions() []Transition {
	out := make([]Transition, len(t.transitions))
	copy(out, t.transitions)
	return out
}

// Len returns the number of rules.
func (t *Table) Len() int { return len(t.transitions) }

// States lists every state mentioned by the table, in first-seen order:
// start, accepting states, then rule sources and targets.
func (t *Table) States() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(t.start)
	for _, s := range t.accepting {
		add(s)
	}
	for _, tr := range t.transitions {
		add(tr.from)
		add(tr.to)
	}
	return out
}
