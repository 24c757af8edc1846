// Package match evaluates records against conjunctions of named field tests.
//
// Two kinds of tests exist: case-insensitive regular expression search
// against a field value, and numeric comparison of a field value. The field
// name "key" refers to the record key rather than a field. A test naming a
// field the record does not have never matches.
package match

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/brettviren/recibi/internal/record"
)

// KeyField is the pseudo-field name that selects the record key.
const KeyField = "key"

// ErrInvalidTest is returned for a test spec without a field name.
var ErrInvalidTest = errors.New("invalid test")

// Test is a (field, expression) pair. The expression is a regular
// expression for string tests and a comparison such as ">2018" for number
// tests.
type Test struct {
	Field string
	Expr  string
}

// ParseTest splits "field:expr" on the first colon.
func ParseTest(spec string) (Test, error) {
	field, expr, ok := strings.Cut(spec, ":")
	if !ok || field == "" {
		return Test{}, fmt.Errorf("%w: %q: want <field>:<expression>", ErrInvalidTest, spec)
	}
	return Test{Field: field, Expr: expr}, nil
}

// ParseTests parses a list of "field:expr" specs.
func ParseTests(specs []string) ([]Test, error) {
	tests := make([]Test, 0, len(specs))
	for _, s := range specs {
		t, err := ParseTest(s)
		if err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, nil
}

// subject returns the string a test is evaluated against.
func subject(key string, rec *record.Record, field string) (string, bool) {
	if field == KeyField {
		return key, true
	}
	return rec.Field(field)
}

// StringMatch reports whether every test's pattern is found, ignoring case,
// in the named field. An invalid pattern is an error.
func StringMatch(key string, rec *record.Record, tests []Test) (bool, error) {
	for _, t := range tests {
		re, err := compilePattern(t)
		if err != nil {
			return false, err
		}
		val, ok := subject(key, rec, t.Field)
		if !ok || !re.MatchString(val) {
			return false, nil
		}
	}
	return true, nil
}

// NumberMatch reports whether every test's comparison holds with the named
// field's value on the left-hand side. The "key" field compares the record
// key and does not fall back to a field of the same name. Values that are
// not numbers do not match. An invalid comparison is an error.
func NumberMatch(key string, rec *record.Record, tests []Test) (bool, error) {
	for _, t := range tests {
		cmp, err := ParseComparison(t.Expr)
		if err != nil {
			return false, fmt.Errorf("field %s: %w", t.Field, err)
		}
		val, ok := subject(key, rec, t.Field)
		if !ok || !cmp.EvalString(val) {
			return false, nil
		}
	}
	return true, nil
}

func compilePattern(t Test) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + t.Expr)
	if err != nil {
		return nil, fmt.Errorf("field %s: invalid pattern: %w", t.Field, err)
	}
	return re, nil
}

type stringTest struct {
	field string
	re    *regexp.Regexp
}

type numberTest struct {
	field string
	cmp   Comparison
}

// Predicate is a validated, precompiled conjunction of string and number
// tests.
type Predicate struct {
	strings []stringTest
	numbers []numberTest
}

// Compile validates all tests up front so that a bad pattern or comparison
// is reported before any record is read.
func Compile(stringTests, numberTests []Test) (*Predicate, error) {
	p := &Predicate{}
	for _, t := range stringTests {
		re, err := compilePattern(t)
		if err != nil {
			return nil, err
		}
		p.strings = append(p.strings, stringTest{field: t.Field, re: re})
	}
	for _, t := range numberTests {
		cmp, err := ParseComparison(t.Expr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", t.Field, err)
		}
		p.numbers = append(p.numbers, numberTest{field: t.Field, cmp: cmp})
	}
	return p, nil
}

// Empty reports whether the predicate has no tests and so matches
// everything.
func (p *Predicate) Empty() bool {
	return len(p.strings) == 0 && len(p.numbers) == 0
}

// Match evaluates number tests, then string tests, stopping at the first
// failure.
func (p *Predicate) Match(key string, rec *record.Record) bool {
	for _, t := range p.numbers {
		val, ok := subject(key, rec, t.field)
		if !ok || !t.cmp.EvalString(val) {
			return false
		}
	}
	for _, t := range p.strings {
		val, ok := subject(key, rec, t.field)
		if !ok || !t.re.MatchString(val) {
			return false
		}
	}
	return true
}
