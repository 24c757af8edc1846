package match

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidComparison is returned for a comparison expression that is not
// a relational operator followed by a number.
var ErrInvalidComparison = errors.New("invalid comparison expression")

// Operator is a numeric relational operator.
type Operator string

const (
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
)

// Two-character operators come first so "<=" is not read as "<".
var operators = []Operator{
	OpLessEqual, OpGreaterEqual, OpEqual, OpNotEqual, OpLess, OpGreater,
}

// Comparison is a parsed expression such as ">2018".
type Comparison struct {
	Op      Operator
	Operand float64
}

// ParseComparison parses "<op> <number>" with optional surrounding
// whitespace. Nothing else is accepted.
func ParseComparison(expr string) (Comparison, error) {
	s := strings.TrimSpace(expr)
	for _, op := range operators {
		if !strings.HasPrefix(s, string(op)) {
			continue
		}
		operand := strings.TrimSpace(s[len(op):])
		n, err := parseNumber(operand)
		if err != nil {
			return Comparison{}, fmt.Errorf("%w: %q: operand %q is not a number", ErrInvalidComparison, expr, operand)
		}
		return Comparison{Op: op, Operand: n}, nil
	}
	return Comparison{}, fmt.Errorf("%w: %q: want one of < <= > >= == != followed by a number", ErrInvalidComparison, expr)
}

// Eval applies the comparison with subject on the left-hand side.
func (c Comparison) Eval(subject float64) bool {
	switch c.Op {
	case OpLess:
		return subject < c.Operand
	case OpLessEqual:
		return subject <= c.Operand
	case OpGreater:
		return subject > c.Operand
	case OpGreaterEqual:
		return subject >= c.Operand
	case OpEqual:
		return subject == c.Operand
	case OpNotEqual:
		return subject != c.Operand
	}
	return false
}

// EvalString coerces subject to a number and applies the comparison. A
// subject that is not a number never matches.
func (c Comparison) EvalString(subject string) bool {
	n, err := parseNumber(strings.TrimSpace(subject))
	if err != nil {
		return false
	}
	return c.Eval(n)
}

func (c Comparison) String() string {
	return string(c.Op) + strconv.FormatFloat(c.Operand, 'g', -1, 64)
}

// parseNumber accepts finite decimal numbers only. ParseFloat alone would
// also take "inf", "nan" and hex floats.
func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789+-.eE", r) {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.ParseFloat(s, 64)
}
