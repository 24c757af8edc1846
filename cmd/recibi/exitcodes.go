package main

import (
	"errors"
	"os"

	"github.com/brettviren/recibi/internal/apis"
	"github.com/brettviren/recibi/internal/bibtex"
	"github.com/brettviren/recibi/internal/export"
	"github.com/brettviren/recibi/internal/match"
)

// Exit codes
const (
	ExitSuccess     = 0 // Success, including empty results
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad flags, invalid test expression)
	ExitDataError   = 3 // Data error (unreadable or malformed input)
	ExitAPIError    = 4 // Remote API error (HTTP status, network)
)

// exitCodeFor classifies an error returned by the internal packages.
func exitCodeFor(err error) int {
	var synErr *bibtex.SyntaxError
	var apiErr *apis.APIError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, match.ErrInvalidTest),
		errors.Is(err, match.ErrInvalidComparison),
		errors.Is(err, export.ErrUnknownFormat),
		errors.Is(err, export.ErrNeedsFile):
		return ExitConfigError
	case errors.As(err, &synErr),
		errors.Is(err, export.ErrMalformedInput),
		errors.Is(err, os.ErrNotExist),
		errors.Is(err, os.ErrPermission):
		return ExitDataError
	case errors.As(err, &apiErr),
		errors.Is(err, apis.ErrNetworkError):
		return ExitAPIError
	}
	return ExitError
}
