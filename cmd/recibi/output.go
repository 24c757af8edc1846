package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/brettviren/recibi/internal/export"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search results
	SearchTitleMaxLen  = 70 // Used in search result summaries
	SearchAuthorMaxLen = 60
)

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError reports an error on stderr, as JSON unless --human is
// set, and exits. Stdout is left for records.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		enc := json.NewEncoder(os.Stderr)
		enc.Encode(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitOnError exits with the classified code when err is not nil.
func exitOnError(err error, format string, args ...interface{}) {
	if err == nil {
		return
	}
	exitWithError(exitCodeFor(err), format+": %v", append(args, err)...)
}

// writeText writes text verbatim to path, or stdout for "" and "-".
func writeText(path, text string) error {
	if export.IsStdio(path) {
		_, err := os.Stdout.WriteString(text)
		return err
	}
	return os.WriteFile(path, []byte(text), 0644)
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
