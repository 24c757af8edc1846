// Package bibtex reads and writes the BibTeX citation format.
package bibtex

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/brettviren/recibi/internal/record"
)

// SyntaxError reports malformed BibTeX with a 1-based position. Source is
// the input name when known.
type SyntaxError struct {
	Source string
	Line   int
	Col    int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("bibtex: %s: line %d, column %d: %s", e.Source, e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("bibtex: line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

// monthMacros are predefined by every BibTeX style.
var monthMacros = map[string]string{
	"jan": "January", "feb": "February", "mar": "March", "apr": "April",
	"may": "May", "jun": "June", "jul": "July", "aug": "August",
	"sep": "September", "oct": "October", "nov": "November", "dec": "December",
}

type parser struct {
	src    []rune
	pos    int
	line   int
	col    int
	macros map[string]string
	out    *record.Collection
}

// Parse reads all entries from r. @comment and @preamble blocks are
// skipped, @string macros are expanded, field names are lower-cased and
// runs of whitespace inside values collapse to one space. A key repeated
// within one input is an error.
func Parse(r io.Reader) (*record.Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return ParseString(string(data))
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) (*record.Collection, error) {
	p := &parser{
		src:    []rune(s),
		line:   1,
		col:    1,
		macros: make(map[string]string),
		out:    record.NewCollection(),
	}
	for k, v := range monthMacros {
		p.macros[k] = v
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.out, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Line: p.line, Col: p.col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) next() rune {
	r := p.src[p.pos]
	p.pos++
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return r
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.next()
	}
}

func (p *parser) expect(r rune) error {
	p.skipSpace()
	if p.eof() {
		return p.errorf("expected %q, got end of input", r)
	}
	if got := p.peek(); got != r {
		return p.errorf("expected %q, got %q", r, got)
	}
	p.next()
	return nil
}

// isNameRune reports runes allowed in entry types, field names and macro
// names.
func isNameRune(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	return !strings.ContainsRune(`{}(),="#%'@`, r)
}

func (p *parser) name() string {
	start := p.pos
	for !p.eof() && isNameRune(p.peek()) {
		p.next()
	}
	return string(p.src[start:p.pos])
}

func (p *parser) parse() error {
	for {
		// Anything outside an @-block is a comment.
		for !p.eof() && p.peek() != '@' {
			p.next()
		}
		if p.eof() {
			return nil
		}
		p.next()
		p.skipSpace()

		kind := strings.ToLower(p.name())
		if kind == "" {
			return p.errorf("expected entry type after '@'")
		}

		if kind == "comment" {
			if err := p.skipComment(); err != nil {
				return err
			}
			continue
		}

		p.skipSpace()
		open := p.peek()
		if open != '{' && open != '(' {
			return p.errorf("expected '{' or '(' after @%s", kind)
		}
		p.next()
		closing := '}'
		if open == '(' {
			closing = ')'
		}

		var err error
		switch kind {
		case "preamble":
			_, err = p.value()
			if err == nil {
				err = p.expect(closing)
			}
		case "string":
			err = p.macro(closing)
		default:
			err = p.entry(kind, closing)
		}
		if err != nil {
			return err
		}
	}
}

// skipComment skips a braced @comment body, or the rest of the line when
// the comment has no braces.
func (p *parser) skipComment() error {
	p.skipSpace()
	if p.peek() == '{' || p.peek() == '(' {
		_, err := p.delimited()
		return err
	}
	for !p.eof() && p.peek() != '\n' {
		p.next()
	}
	return nil
}

func (p *parser) macro(closing rune) error {
	p.skipSpace()
	name := strings.ToLower(p.name())
	if name == "" {
		return p.errorf("expected macro name in @string")
	}
	if err := p.expect('='); err != nil {
		return err
	}
	val, err := p.value()
	if err != nil {
		return err
	}
	p.macros[name] = val
	return p.expect(closing)
}

func (p *parser) entry(kind string, closing rune) error {
	p.skipSpace()
	start := p.pos
	for !p.eof() && p.peek() != ',' && p.peek() != closing && !unicode.IsSpace(p.peek()) {
		p.next()
	}
	key := string(p.src[start:p.pos])
	if key == "" {
		return p.errorf("@%s entry has no key", kind)
	}
	if p.out.Has(key) {
		return p.errorf("repeated entry %q", key)
	}

	rec := record.New(kind)
	for {
		p.skipSpace()
		if p.eof() {
			return p.errorf("unterminated entry %q", key)
		}
		switch p.peek() {
		case closing:
			p.next()
			p.out.Put(key, rec)
			return nil
		case ',':
			p.next()
			continue
		}

		field := strings.ToLower(p.name())
		if field == "" {
			return p.errorf("expected field name in entry %q, got %q", key, p.peek())
		}
		if err := p.expect('='); err != nil {
			return err
		}
		val, err := p.value()
		if err != nil {
			return err
		}
		rec.Set(field, val)

		p.skipSpace()
		if p.peek() != ',' && p.peek() != closing {
			if p.eof() {
				return p.errorf("unterminated entry %q", key)
			}
			return p.errorf("expected ',' or %q after field %q, got %q", closing, field, p.peek())
		}
	}
}

// value reads one or more '#'-concatenated parts.
func (p *parser) value() (string, error) {
	var b strings.Builder
	for {
		p.skipSpace()
		part, err := p.part()
		if err != nil {
			return "", err
		}
		b.WriteString(part)
		p.skipSpace()
		if p.peek() != '#' {
			break
		}
		p.next()
	}
	return collapseSpace(b.String()), nil
}

func (p *parser) part() (string, error) {
	if p.eof() {
		return "", p.errorf("expected value, got end of input")
	}
	switch r := p.peek(); {
	case r == '{':
		return p.delimited()
	case r == '"':
		return p.quoted()
	case unicode.IsDigit(r):
		start := p.pos
		for !p.eof() && unicode.IsDigit(p.peek()) {
			p.next()
		}
		return string(p.src[start:p.pos]), nil
	case isNameRune(r):
		line, col := p.line, p.col
		name := strings.ToLower(p.name())
		val, ok := p.macros[name]
		if !ok {
			return "", &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf("undefined macro %q", name)}
		}
		return val, nil
	default:
		return "", p.errorf("unexpected %q in value", r)
	}
}

// delimited reads a brace- or paren-delimited body and returns it without
// the outer delimiters. Inner braces are kept.
func (p *parser) delimited() (string, error) {
	line, col := p.line, p.col
	open := p.next()
	closing := '}'
	if open == '(' {
		closing = ')'
	}
	start := p.pos
	depth := 0
	for !p.eof() {
		r := p.peek()
		switch {
		case r == '\\':
			p.skipEscape()
			continue
		case r == '{':
			depth++
		case r == '}' && depth > 0:
			depth--
		case r == closing && depth == 0:
			body := string(p.src[start:p.pos])
			p.next()
			return body, nil
		}
		p.next()
	}
	return "", &SyntaxError{Line: line, Col: col, Msg: "unbalanced braces"}
}

// quoted reads a "..." value. Quotes inside braces do not terminate it.
func (p *parser) quoted() (string, error) {
	line, col := p.line, p.col
	p.next()
	start := p.pos
	depth := 0
	for !p.eof() {
		r := p.peek()
		switch {
		case r == '\\':
			p.skipEscape()
			continue
		case r == '{':
			depth++
		case r == '}':
			if depth == 0 {
				return "", p.errorf("unbalanced '}' in quoted value")
			}
			depth--
		case r == '"' && depth == 0:
			body := string(p.src[start:p.pos])
			p.next()
			return body, nil
		}
		p.next()
	}
	return "", &SyntaxError{Line: line, Col: col, Msg: "unterminated quoted value"}
}

// skipEscape consumes a backslash and the rune after it, so \{ and \}
// do not count toward brace depth.
func (p *parser) skipEscape() {
	p.next()
	if !p.eof() {
		p.next()
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
