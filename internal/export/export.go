// Package export reads and writes record collections in the supported
// serialization formats.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettviren/recibi/internal/bibtex"
	"github.com/brettviren/recibi/internal/record"
	"github.com/brettviren/recibi/internal/storage"
)

// Format names a serialization format.
type Format string

const (
	BibTeX Format = "bibtex"
	JSON   Format = "json"
	JSONL  Format = "jsonl"
	SQLite Format = "sqlite"
)

// Formats lists the supported formats.
var Formats = []Format{BibTeX, JSON, JSONL, SQLite}

// ErrUnknownFormat is returned for a format name not in Formats.
var ErrUnknownFormat = errors.New("unknown format")

// ErrNeedsFile is returned when a file-only format is used with a stream.
var ErrNeedsFile = errors.New("format requires a file path")

// ErrMalformedInput wraps errors caused by input that does not decode in
// its format. BibTeX reports a *bibtex.SyntaxError instead.
var ErrMalformedInput = errors.New("malformed input")

// ParseFormat validates a format name. Matching ignores case.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q (valid: %v)", ErrUnknownFormat, name, Formats)
}

// FormatFromPath guesses a format from a file extension. Anything not
// recognized is BibTeX.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON
	case ".jsonl", ".ndjson":
		return JSONL
	case ".db", ".sqlite", ".sqlite3":
		return SQLite
	default:
		return BibTeX
	}
}

// IsStdio reports whether path names standard input or output.
func IsStdio(path string) bool {
	return path == "" || path == "-"
}

// Decode reads a collection from a stream.
func Decode(r io.Reader, f Format) (*record.Collection, error) {
	switch f {
	case BibTeX:
		return bibtex.Parse(r)
	case JSON:
		c := record.NewCollection()
		if err := json.NewDecoder(r).Decode(c); err != nil {
			return nil, fmt.Errorf("decoding JSON: %w: %w", ErrMalformedInput, err)
		}
		return c, nil
	case JSONL:
		c, err := storage.ReadJSONL(r)
		if err != nil {
			return nil, fmt.Errorf("decoding JSONL: %w: %w", ErrMalformedInput, err)
		}
		return c, nil
	case SQLite:
		return nil, ErrNeedsFile
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownFormat, f)
}

// Write serializes a collection to a stream.
func Write(w io.Writer, c *record.Collection, f Format) error {
	switch f {
	case BibTeX:
		return bibtex.Write(w, c)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case JSONL:
		return storage.WriteJSONL(w, c)
	case SQLite:
		return ErrNeedsFile
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, f)
}

// ReadFile loads a collection from path, or from stdin when path is "" or
// "-".
func ReadFile(path string, f Format) (*record.Collection, error) {
	if f == SQLite {
		if IsStdio(path) {
			return nil, ErrNeedsFile
		}
		c, err := storage.ReadCollection(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("reading database: %w: %w", ErrMalformedInput, err)
		}
		return c, err
	}

	if IsStdio(path) {
		return Decode(os.Stdin, f)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	c, err := Decode(file, f)
	var synErr *bibtex.SyntaxError
	if errors.As(err, &synErr) && synErr.Source == "" {
		synErr.Source = path
	}
	return c, err
}

// WriteFile writes a collection to path, or to stdout when path is "" or
// "-". Existing files are truncated.
func WriteFile(path string, c *record.Collection, f Format) error {
	if f == SQLite {
		if IsStdio(path) {
			return ErrNeedsFile
		}
		return storage.WriteCollection(path, c)
	}

	if IsStdio(path) {
		return Write(os.Stdout, c, f)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(file, c, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
