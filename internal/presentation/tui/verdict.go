package tui

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/validation"
	"github.com/muesli/termenv"
)

var resultColors = map[domain.Result]string{
	domain.ResultAccepted:          "#22c55e",
	domain.ResultRejectedHalted:    "#f59e0b",
	domain.ResultRejectedStuck:     "#ef4444",
	domain.ResultStepLimitExceeded: "#a855f7",
}

// VerdictText is the uncoloured one-line summary of an outcome.
func VerdictText(out domain.Outcome) string {
	return fmt.Sprintf("%q: %s (%s after %d steps, state %s, tape %q)",
		validation.FormatInput(out.Input),
		out.Result.Description(),
		out.Halt,
		out.Steps,
		out.FinalState,
		validation.FormatInput(out.Tape),
	)
}

// Verdict is VerdictText coloured by result for the current terminal.
func Verdict(out domain.Outcome) string {
	p := termenv.ColorProfile()
	color, ok := resultColors[out.Result]
	if !ok {
		return VerdictText(out)
	}
	return termenv.String(VerdictText(out)).Foreground(p.Color(color)).String()
}
