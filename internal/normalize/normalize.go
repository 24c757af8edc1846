// Package normalize cleans field text of characters that BibTeX tooling
// handles poorly.
package normalize

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/brettviren/recibi/internal/record"
)

// replacements maps characters seen in API-generated records to plain or
// LaTeX equivalents.
var replacements = strings.NewReplacer(
	"\u00a0", " ",       // no-break space
	"\u202f", "",        // narrow no-break space
	"\u2009\u2009", " ", // doubled thin space
	"\u2212", "-",       // minus sign
	"\u2217", "*",       // asterisk operator
	"\u039b", `\Lambda`,
)

var zeroWidth = runes.Predicate(func(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
		return true
	}
	return false
})

// String composes s to NFC, drops zero-width characters and applies the
// replacement table.
func String(s string) string {
	t := transform.Chain(norm.NFC, runes.Remove(zeroWidth))
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return replacements.Replace(out)
}

// Record cleans every field value of r in place and returns r.
func Record(r *record.Record) *record.Record {
	for _, name := range r.Names() {
		r.Set(name, String(r.Get(name)))
	}
	return r
}
