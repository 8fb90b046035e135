package domain

// Result classifies how an evaluation ended.
//
// The two rejection variants keep the legacy split, labelled "decidable but
// not accepted" and "neither accepted nor decidable". The labels have nothing to do with formal decidability: one means the head ran
// off the tape, the other that no rule applied mid-tape.
type Result string

const (
	// ResultAccepted means an accepting state was reached.
	ResultAccepted Result = "accepted"
	// ResultRejectedHalted means the head left the tape in a non-accepting state.
	// Legacy label: RejectedDecidable.
	ResultRejectedHalted Result = "rejected_halted"
	// ResultRejectedStuck means no rule matched mid-tape in a non-accepting state.
	// Legacy label: RejectedUndecidable.
	ResultRejectedStuck Result = "rejected_stuck"
	// ResultStepLimitExceeded means the run was cut off by the step bound.
	ResultStepLimitExceeded Result = "step_limit_exceeded"
)

// Description returns a human readable sentence for the result.
func (r Result) Description() string {
	switch r {
	case ResultAccepted:
		return "the string is accepted by the machine"
	case ResultRejectedHalted:
		return "the machine halts but does not accept the string"
	case ResultRejectedStuck:
		return "the string is neither accepted nor does the machine halt off the tape"
	case ResultStepLimitExceeded:
		return "the machine exceeded the step limit"
	default:
		return string(r)
	}
}

// Halt explains where the step loop stopped.
type Halt string

const (
	HaltAccepted  Halt = "accepted"
	HaltEmptyTape Halt = "empty_tape"
	HaltOffLeft   Halt = "off_left"
	HaltOffRight  Halt = "off_right"
	HaltStuck     Halt = "stuck"
	HaltStepLimit Halt = "step_limit"
)

// Outcome is the result of one evaluation together with the final configuration.
type Outcome struct {
	Input      string `json:"input" yaml:"input"`
	Result     Result `json:"result" yaml:"result"`
	Halt       Halt   `json:"halt" yaml:"halt"`
	Steps      int    `json:"steps" yaml:"steps"`
	FinalState string `json:"final_state" yaml:"final_state"`
	Tape       string `json:"tape" yaml:"tape"`
	Position   int    `json:"position" yaml:"position"`
}

// Accepted is a shortcut for Result == ResultAccepted.
func (o Outcome) Accepted() bool {
	return o.Result == ResultAccepted
}
