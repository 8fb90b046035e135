package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/definition"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// TableMarkdown describes a definition as a markdown document: start and
// accepting states followed by one table row per rule, in insertion order.
// Blank cells are shown with the '%' placeholder.
func TableMarkdown(def definition.Definition) string {
	var sb strings.Builder

	title := def.Name
	if title == "" {
		title = "Transition table"
	}
	fmt.Fprintf(&sb, "# %s\n\n", escapeCell(title))
	fmt.Fprintf(&sb, "- **Start:** `%s`\n", def.Start)
	fmt.Fprintf(&sb, "- **Accepting:** %s\n\n", codeList(def.Accepting))

	sb.WriteString("| # | From | Read | Write | Move | To |\n")
	sb.WriteString("|---|------|------|-------|------|----|\n")
	for i, r := range def.Transitions {
		read, write, move := splitRule(r.Rule)
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s | %s |\n",
			i+1, escapeCell(r.From), escapeCell(read), escapeCell(write), move, escapeCell(r.To))
	}
	return sb.String()
}

// splitRule breaks "a:b,M" apart. Malformed literals are shown whole in the Read column.
func splitRule(literal string) (read, write, move string) {
	rw, mv, ok := strings.Cut(literal, ",")
	if !ok {
		return literal, "", ""
	}
	r, w, ok := strings.Cut(rw, ":")
	if !ok {
		return literal, "", ""
	}
	return r, w, mv
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + s + "`"
	}
	return strings.Join(quoted, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
