package storage

import (
	"bufio"
	"fmt"
	"io"

	"github.com/brettviren/recibi/internal/record"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadJSONL reads one keyed record per line. Empty lines are skipped and
// a repeated key replaces the earlier record.
func ReadJSONL(r io.Reader) (*record.Collection, error) {
	out := record.NewCollection()
	scanner := bufio.NewScanner(r)

	// Increase buffer size for long lines
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		key, rec, err := record.UnmarshalEntry(line)
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		out.Put(key, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading JSONL: %w", err)
	}

	return out, nil
}

// WriteJSONL writes each record of c as one JSON line, in collection order.
func WriteJSONL(w io.Writer, c *record.Collection) error {
	bw := bufio.NewWriter(w)
	err := c.Each(func(key string, rec *record.Record) error {
		data, err := record.MarshalEntry(key, rec)
		if err != nil {
			return fmt.Errorf("encoding record %s: %w", key, err)
		}
		if _, err := bw.Write(data); err != nil {
			return fmt.Errorf("writing record %s: %w", key, err)
		}
		return bw.WriteByte('\n')
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}
