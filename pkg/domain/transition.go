package domain

import "fmt"

// Move is the head displacement applied after a transition.
type Move byte

const (
	MoveLeft  Move = 'L'
	MoveRight Move = 'R'
	MoveStay  Move = 'S'
)

// ParseMove converts the single-letter textual form (L, R or S).
func ParseMove(c byte) (Move, bool) {
	switch Move(c) {
	case MoveLeft, MoveRight, MoveStay:
		return Move(c), true
	}
	return 0, false
}

// Offset returns the head displacement: -1, +1 or 0.
func (m Move) Offset() int {
	switch m {
	case MoveLeft:
		return -1
	case MoveRight:
		return 1
	default:
		return 0
	}
}

func (m Move) String() string {
	return string(rune(m))
}

// Blank is the tape symbol for an empty cell.
const Blank = ' '

// Transition defines one rule of the table: (From, Read) -> (Write, Move, To).
// Fields are unexported so a rule cannot change once it is part of a table.
type Transition struct {
	from  string
	read  rune
	write rune
	move  Move
	to    string
}

// NewTransition builds a rule. Identifiers and symbols are expected to be
// validated already (see package validation).
func NewTransition(from string, read, write rune, move Move, to string) Transition {
	return Transition{from: from, read: read, write: write, move: move, to: to}
}

func (t Transition) From() string { return t.from }
func (t Transition) Read() rune   { return t.read }
func (t Transition) Write() rune  { return t.write }
func (t Transition) Move() Move   { return t.move }
func (t Transition) To() string   { return t.to }

// Rule returns the read/write/move triple in its literal form, e.g. "0:1,R".
func (t Transition) Rule() string {
	return fmt.Sprintf("%c:%c,%s", t.read, t.write, t.move)
}

func (t Transition) String() string {
	return fmt.Sprintf("%s,%s,%s", t.from, t.Rule(), t.to)
}
