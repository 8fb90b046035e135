package graph

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// startMarker is the default id of the invisible node whose arrow points at
// the start state. DOT treats a bare id and its quoted form as the same node,
// so markerID extends it until no state of the table uses it.
const startMarker = "__start"

func markerID(table *domain.Table) string {
	used := make(map[string]bool)
	for _, s := range table.States() {
		used[s] = true
	}
	id := startMarker
	for used[id] {
		id += "_"
	}
	return id
}

// GenerateDOT renders the table as a Graphviz digraph.
// Marker statements (start arrow, accepting double circles) come first,
// followed by one edge per rule in insertion order, labelled "read:write,move".
func GenerateDOT(table *domain.Table) string {
	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape = circle];\n")

	marker := markerID(table)
	fmt.Fprintf(&sb, "  %s [shape=point, label=\"\"];\n", marker)
	fmt.Fprintf(&sb, "  %s -> \"%s\";\n", marker, EscapeLabel(table.Start()))

	for _, s := range table.Accepting() {
		fmt.Fprintf(&sb, "  \"%s\" [shape=doublecircle];\n", EscapeLabel(s))
	}

	for _, t := range table.Transitions() {
		fmt.Fprintf(&sb, "  \"%s\" -> \"%s\" [label=\"%s\"];\n",
			EscapeLabel(t.From()), EscapeLabel(t.To()), EscapeLabel(t.Rule()))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// EscapeLabel escapes the characters that would end a quoted DOT string.
func EscapeLabel(label string) string {
	label = strings.ReplaceAll(label, "\\", "\\\\")
	label = strings.ReplaceAll(label, "\"", "\\\"")
	return label
}

func unescapeLabel(label string) string {
	label = strings.ReplaceAll(label, "\\\"", "\"")
	label = strings.ReplaceAll(label, "\\\\", "\\")
	return label
}

var (
	quoted    = `"((?:[^"\\]|\\.)*)"`
	ruleEdge  = regexp.MustCompile(`^\s*` + quoted + `\s*->\s*` + quoted + `\s*\[label=` + quoted + `\];\s*$`)
	ruleLabel = regexp.MustCompile(`(?s)^(.):(.),([LRS])$`)

	// States are always quoted, so the start marker is recognised by its bare id.
	markerNode    = regexp.MustCompile(`^\s*[A-Za-z_]\w*\s*\[shape=point, label=""\];\s*$`)
	markerEdge    = regexp.MustCompile(`^\s*[A-Za-z_]\w*\s*->\s*` + quoted + `;\s*$`)
	acceptingNode = regexp.MustCompile(`^\s*` + quoted + `\s*\[shape=doublecircle\];\s*$`)
)

// ParseDOT recovers the rules from text produced by GenerateDOT, in order.
// Marker statements are skipped; any other unrecognised edge is an error.
func ParseDOT(text string) ([]domain.Transition, error) {
	var out []domain.Transition
	for i, line := range strings.Split(text, "\n") {
		if m := ruleEdge.FindStringSubmatch(line); m != nil {
			t, err := parseRuleEdge(m)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			out = append(out, t)
			continue
		}
		if markerNode.MatchString(line) || markerEdge.MatchString(line) || acceptingNode.MatchString(line) {
			continue
		}
		if strings.Contains(line, "->") || strings.Contains(line, "[label=") {
			return nil, fmt.Errorf("line %d: not a rule edge: %q", i+1, line)
		}
	}
	return out, nil
}

func parseRuleEdge(m []string) (domain.Transition, error) {
	l := ruleLabel.FindStringSubmatch(unescapeLabel(m[3]))
	if l == nil {
		return domain.Transition{}, fmt.Errorf("bad rule label %q", m[3])
	}
	move, _ := domain.ParseMove(l[3][0])
	return domain.NewTransition(
		unescapeLabel(m[1]),
		[]rune(l[1])[0],
		[]rune(l[2])[0],
		move,
		unescapeLabel(m[2]),
	), nil
}
