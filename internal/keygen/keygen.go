// Package keygen derives citation keys for records that lack one.
//
// Keys have the form Surname:YEARsuffix, where the suffix is a short
// digest of the identifying fields. The same record always yields the
// same key.
package keygen

import (
	"encoding/base32"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/blake2b"

	"github.com/brettviren/recibi/internal/record"
)

// SuffixLen is the number of digest characters appended to the year.
const SuffixLen = 3

// hashedFields feed the suffix digest, in this order.
var hashedFields = []string{"title", "author", "year", "doi", "eprint"}

var nameSuffixes = map[string]bool{
	"jr": true, "jr.": true, "sr": true, "sr.": true,
	"ii": true, "iii": true, "iv": true,
}

var yearPattern = regexp.MustCompile(`\d{4}`)

var suffixEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Generate returns the key for rec.
func Generate(rec *record.Record) string {
	return fmt.Sprintf("%s:%s%s", Surname(rec), Year(rec), Suffix(rec))
}

// Surname returns the sanitized last name of the first author, falling
// back to the first editor and then to "Unknown".
func Surname(rec *record.Record) string {
	for _, field := range []string{"author", "editor"} {
		if last := sanitizeForCiteKey(firstSurname(rec.Get(field))); last != "" {
			return last
		}
	}
	return "Unknown"
}

// Year returns the first four-digit run in the year field, or 9999.
func Year(rec *record.Record) string {
	if y := yearPattern.FindString(rec.Get("year")); y != "" {
		return y
	}
	return "9999"
}

// Suffix returns a lower-case base32 digest of the identifying fields.
func Suffix(rec *record.Record) string {
	h, _ := blake2b.New256(nil)
	for _, name := range hashedFields {
		h.Write([]byte(rec.Get(name)))
		h.Write([]byte{0})
	}
	enc := suffixEncoding.EncodeToString(h.Sum(nil))
	return strings.ToLower(enc[:SuffixLen])
}

// firstSurname picks the last name of the first name in a BibTeX name
// list. "Last, First" and "First Last" forms are both understood.
func firstSurname(names string) string {
	names = strings.TrimSpace(names)
	if names == "" {
		return ""
	}
	first, _, _ := strings.Cut(names, " and ")
	first = strings.TrimSpace(first)

	if last, _, ok := strings.Cut(first, ","); ok {
		return lastWordGroup(last)
	}

	parts := strings.Fields(first)
	if len(parts) > 2 && nameSuffixes[strings.ToLower(parts[len(parts)-1])] {
		return parts[len(parts)-2]
	}
	return parts[len(parts)-1]
}

// lastWordGroup keeps "von" particles out of the key: "van der Berg"
// gives "Berg".
func lastWordGroup(s string) string {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// sanitizeForCiteKey removes non-alphanumeric characters.
func sanitizeForCiteKey(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
