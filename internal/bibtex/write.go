package bibtex

import (
	"fmt"
	"io"
	"strings"

	"github.com/brettviren/recibi/internal/record"
)

// ToBibTeX formats a single record as a BibTeX entry.
func ToBibTeX(key string, rec *record.Record) string {
	var b strings.Builder

	kind := rec.Kind
	if kind == "" {
		kind = record.DefaultKind
	}
	b.WriteString(fmt.Sprintf("@%s{%s,\n", kind, key))
	for _, name := range rec.Names() {
		b.WriteString(fmt.Sprintf("  %s = %s,\n", name, quote(rec.Get(name))))
	}
	b.WriteString("}\n")

	return b.String()
}

// Write formats every record of c in collection order, entries separated
// by a blank line. An empty collection writes nothing.
func Write(w io.Writer, c *record.Collection) error {
	first := true
	return c.Each(func(key string, rec *record.Record) error {
		if !first {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		first = false
		_, err := io.WriteString(w, ToBibTeX(key, rec))
		return err
	})
}

// quote wraps a value in braces. A value whose braces do not balance has
// each unescaped brace written as \{ or \} so the entry still parses, and
// a trailing lone backslash is doubled.
func quote(v string) string {
	if balanced(v) {
		return "{" + v + "}"
	}

	var b strings.Builder
	b.WriteByte('{')
	escaped := false
	for _, r := range v {
		if (r == '{' || r == '}') && !escaped {
			b.WriteByte('\\')
		}
		escaped = r == '\\' && !escaped
		b.WriteRune(r)
	}
	if escaped {
		b.WriteByte('\\')
	}
	b.WriteByte('}')
	return b.String()
}

// balanced reports whether every unescaped '{' in v has a matching '}'.
func balanced(v string) bool {
	depth := 0
	escaped := false
	for _, r := range v {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '{':
			depth++
		case r == '}':
			if depth == 0 {
				return false
			}
			depth--
		}
	}
	return depth == 0 && !escaped
}
