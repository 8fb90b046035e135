/*
Package turing evaluates strings against single-tape, single-head deterministic Turing machines.

A machine is a transition table: a start state, a set of accepting states and
an ordered list of rules "from,read:write,move,to". Evaluating an input copies
it onto a fixed-length tape, places the head on the first cell and applies
rules until the machine accepts, runs off the tape, finds no applicable rule
or hits the step limit.

# Usage

	m, err := turing.Open("flipper.yaml")
	if err != nil {
		log.Fatal(err)
	}

	out, err := m.Evaluate(ctx, "0110 ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.Result, out.Tape)

Tables may also be built programmatically with definition.Definition or
domain.NewTable, or loaded by name from any ports.TableLoader (memory,
directory, Loam repository).

# Results

Every evaluation ends with exactly one domain.Result:

  - Accepted: an accepting state was entered, or the run ended in one.
  - RejectedHalted: the head left the tape (or the tape was empty) in a non-accepting state.
  - RejectedStuck: no rule matched the current state and symbol.
  - StepLimitExceeded: the configured step bound was reached.

# Graphs

Machine.Graph renders the table as Graphviz DOT or as a Mermaid flowchart.
*/
package turing
