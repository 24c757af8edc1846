// Package tabular converts delimited text tables into records.
//
// The first row names the fields. Columns named "key" and "type" supply
// the record key and kind; every other non-empty cell becomes a field.
// Rows without a key get one from keygen.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/brettviren/recibi/internal/export"
	"github.com/brettviren/recibi/internal/keygen"
	"github.com/brettviren/recibi/internal/record"
)

const (
	keyColumn  = "key"
	kindColumn = "type"
)

// Options controls how a table is read.
type Options struct {
	// Delimiter separates cells. Zero means a comma.
	Delimiter rune
	// Kind is used for rows without a type cell. Empty means record.DefaultKind.
	Kind string
}

// ParseDelimiter accepts a single character or one of "tab", "\t".
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// Read converts a table into a collection. Later rows with the same key
// replace earlier ones.
func Read(r io.Reader, opts Options) (*record.Collection, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return record.NewCollection(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w: %w", export.ErrMalformedInput, err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
		if header[i] == "" {
			return nil, fmt.Errorf("%w: column %d has an empty name", export.ErrMalformedInput, i+1)
		}
	}

	kind := opts.Kind
	if kind == "" {
		kind = record.DefaultKind
	}

	out := record.NewCollection()
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", export.ErrMalformedInput, err)
		}
		if len(row) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: %d cells but only %d columns",
				export.ErrMalformedInput, line, len(row), len(header))
		}

		key, rec := convertRow(header, row, kind)
		if rec.Len() == 0 && key == "" {
			continue
		}
		if key == "" {
			key = keygen.Generate(rec)
		}
		out.Put(key, rec)
	}
	return out, nil
}

func convertRow(header, row []string, kind string) (string, *record.Record) {
	rec := record.New(kind)
	var key string
	for i, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		switch header[i] {
		case keyColumn:
			key = cell
		case kindColumn:
			rec.Kind = strings.ToLower(cell)
		default:
			rec.Set(header[i], cell)
		}
	}
	return key, rec
}
