package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/definition"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestTableMarkdown(t *testing.T) {
	def := definition.Definition{
		Name:      "flipper",
		Start:     "q0",
		Accepting: []string{"qf", "qa1"},
		Transitions: []definition.Rule{
			{From: "q0", Rule: "0:1,R", To: "q0"},
			{From: "q0", Rule: "|:%,S", To: "qf"},
		},
	}

	md := TableMarkdown(def)
	assert.True(t, strings.HasPrefix(md, "# flipper\n"))
	assert.Contains(t, md, "- **Start:** `q0`")
	assert.Contains(t, md, "- **Accepting:** `qf`, `qa1`")
	assert.Contains(t, md, "| 1 | q0 | 0 | 1 | R | q0 |")
	assert.Contains(t, md, `| 2 | q0 | \| | % | S | qf |`)
}

func TestTableMarkdown_Untitled(t *testing.T) {
	md := TableMarkdown(definition.Definition{Start: "q0", Accepting: []string{"q1"}})
	assert.True(t, strings.HasPrefix(md, "# Transition table\n"))
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("# flipper\n")
	assert.NoError(t, err)
	assert.Contains(t, out, "flipper")
}

func TestVerdictText(t *testing.T) {
	out := domain.Outcome{
		Input:      "0 ",
		Result:     domain.ResultAccepted,
		Halt:       domain.HaltAccepted,
		Steps:      2,
		FinalState: "qf",
		Tape:       "1 ",
	}
	assert.Equal(t,
		`"0%": the string is accepted by the machine (accepted after 2 steps, state qf, tape "1%")`,
		VerdictText(out))
	assert.Contains(t, Verdict(out), "accepted after 2 steps")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "version 1.2.3")
}
