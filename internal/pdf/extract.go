// Package pdf pulls text out of PDF files and finds identifiers in it.
package pdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Patterns recognized by name. Each has one capture group holding the
// identifier.
var Patterns = map[string]string{
	"arxiv": `(ar[Xx]iv:(\d+)\.(\d+))`,
	"doi":   `(10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+[^\s<>"{}|\\^~\[\]` + "`" + `.,;:)])`,
}

// DefaultPattern is used when no pattern is given.
const DefaultPattern = "arxiv"

// ExtractText extracts all text from the first N pages of a PDF.
// A maxPages of zero or less reads every page.
func ExtractText(filePath string, maxPages int) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", filePath, err)
	}
	defer f.Close()

	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// CompilePatterns compiles each pattern, resolving names from Patterns
// first. An empty list gives the default pattern.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if named, ok := Patterns[p]; ok {
			p = named
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// FindMatches returns every match of each pattern in text, in pattern
// order. For a pattern with capture groups the first group is reported,
// otherwise the whole match.
func FindMatches(text string, patterns []*regexp.Regexp) []string {
	var out []string
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(m) > 1 {
				out = append(out, m[1])
			} else {
				out = append(out, m[0])
			}
		}
	}
	return out
}
