package validation

import (
	"regexp"
	"strconv"

	"github.com/aretw0/turing/pkg/domain"
)

// BlankPlaceholder stands for the blank tape symbol in user facing text,
// since a literal space cannot be typed into a rule or survive trimming.
const BlankPlaceholder = '%'

var ruleLiteral = regexp.MustCompile(`^([^\s,:;]):([^\s,:;]),([LRS])$`)

// Rule is a parsed read/write/move triple.
type Rule struct {
	Read  rune
	Write rune
	Move  domain.Move
}

// ParseRule parses the literal form "a:b,M". The placeholder '%' is
// translated to the blank symbol on both sides.
func ParseRule(literal string) (Rule, error) {
	m := ruleLiteral.FindStringSubmatch(literal)
	if m == nil {
		return Rule{}, &ValidationError{Key: "rule", Reason: ErrInvalidRule, Value: literal}
	}
	move, _ := domain.ParseMove(m[3][0])
	return Rule{
		Read:  Symbol([]rune(m[1])[0]),
		Write: Symbol([]rune(m[2])[0]),
		Move:  move,
	}, nil
}

// Symbol translates the blank placeholder into the blank symbol.
func Symbol(r rune) rune {
	if r == BlankPlaceholder {
		return domain.Blank
	}
	return r
}

// FormatSymbol is the inverse of Symbol, used when writing rules back out.
func FormatSymbol(r rune) rune {
	if r == domain.Blank {
		return BlankPlaceholder
	}
	return r
}

// FormatRule renders the rule of t in literal form with the blank placeholder.
func FormatRule(t domain.Transition) string {
	return string(FormatSymbol(t.Read())) + ":" + string(FormatSymbol(t.Write())) + "," + t.Move().String()
}

// Count parses a strictly positive integer.
func Count(key, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, &ValidationError{Key: key, Reason: ErrInvalidCount, Value: s}
	}
	return n, nil
}
