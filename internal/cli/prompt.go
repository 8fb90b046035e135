package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/turing/pkg/definition"
	"github.com/aretw0/turing/pkg/validation"
)

// exitWords end an interactive session. "salir" is kept for Spanish-speaking users.
var exitWords = []string{"salir", "exit", "quit"}

// IsExitWord reports whether line asks to leave the session.
func IsExitWord(line string) bool {
	line = strings.TrimSpace(line)
	for _, w := range exitWords {
		if strings.EqualFold(line, w) {
			return true
		}
	}
	return false
}

// Prompter asks questions on out and reads answers line by line from in.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter creates a prompter over the given streams.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Line prints prompt and returns the next line with surrounding blanks trimmed.
// It returns io.EOF when input ends and ctx.Err() once ctx is done.
func (p *Prompter) Line(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Raw is like Line but keeps surrounding blanks, which are meaningful on a tape.
func (p *Prompter) Raw(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(p.in.Text(), "\r"), nil
}

// ask re-prompts until check accepts the answer.
func (p *Prompter) ask(ctx context.Context, prompt string, check func(string) error) (string, error) {
	for {
		answer, err := p.Line(ctx, prompt)
		if err != nil {
			return "", err
		}
		if IsExitWord(answer) {
			return "", ErrAborted
		}
		if err := check(answer); err != nil {
			fmt.Fprintf(p.out, "Error: %v\n", err)
			continue
		}
		return answer, nil
	}
}

func (p *Prompter) askState(ctx context.Context, prompt string) (string, error) {
	return p.ask(ctx, prompt, func(s string) error {
		if err := validation.CheckState(s); err != nil {
			return fmt.Errorf("%w (use letters and digits, e.g. q0)", err)
		}
		return nil
	})
}

func (p *Prompter) askCount(ctx context.Context, prompt string) (int, error) {
	var n int
	_, err := p.ask(ctx, prompt, func(s string) error {
		var err error
		n, err = validation.Count("count", s)
		return err
	})
	return n, err
}

// BuildDefinition walks the user through a transition table: start state,
// accepting states, then each rule as from state, "a:b,M" literal and target.
// Invalid answers are reported and asked again.
func (p *Prompter) BuildDefinition(ctx context.Context) (definition.Definition, error) {
	var def definition.Definition
	var err error

	fmt.Fprintln(p.out, "\n_____________________________")
	if def.Start, err = p.askState(ctx, "Start state: "); err != nil {
		return def, err
	}

	finals, err := p.askCount(ctx, "How many accepting states? ")
	if err != nil {
		return def, err
	}
	for i := 0; i < finals; i++ {
		s, err := p.askState(ctx, fmt.Sprintf("Accepting state %d: ", i+1))
		if err != nil {
			return def, err
		}
		def.Accepting = append(def.Accepting, s)
	}

	n, err := p.askCount(ctx, "Number of transitions: ")
	if err != nil {
		return def, err
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(p.out, "\n_____________________________\nTransition %d\n", i+1)

		var r definition.Rule
		if r.From, err = p.askState(ctx, "From state: "); err != nil {
			return def, err
		}
		if r.Rule, err = p.ask(ctx, "Rule (a:b,M): ", func(s string) error {
			if _, err := validation.ParseRule(s); err != nil {
				return fmt.Errorf("%w (a and b are symbols, %% is blank, M is L, R or S)", err)
			}
			return nil
		}); err != nil {
			return def, err
		}
		if r.To, err = p.askState(ctx, "To state: "); err != nil {
			return def, err
		}
		def.Transitions = append(def.Transitions, r)
	}

	return def, nil
}
