// Package osti builds requests for the OSTI.GOV records API.
package osti

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/brettviren/recibi/internal/apis"
)

const (
	// BaseURL is the OSTI API root.
	BaseURL = "https://www.osti.gov/api/v1"

	// DefaultEndpoint is the records search endpoint.
	DefaultEndpoint = "records"
)

// acceptHeaders maps an output format to the Accept header OSTI expects.
var acceptHeaders = map[string]string{
	"bibtex": "application/x-bibtex",
	"xml":    "application/xml",
	"json":   "application/json",
}

// Formats lists the supported output formats.
func Formats() []string {
	out := make([]string, 0, len(acceptHeaders))
	for f := range acceptHeaders {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Accept returns the Accept header value for format.
func Accept(format string) (string, error) {
	h, ok := acceptHeaders[format]
	if !ok {
		return "", fmt.Errorf("unsupported format %q (valid: %s)", format, strings.Join(Formats(), ", "))
	}
	return h, nil
}

// ParseTerms turns "name=value" arguments into parameters, keeping order.
func ParseTerms(terms []string) ([]apis.Param, error) {
	params := make([]apis.Param, 0, len(terms))
	for _, t := range terms {
		name, value, ok := strings.Cut(t, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid search term %q: want name=value", t)
		}
		params = append(params, apis.P(name, value))
	}
	return params, nil
}

// FormURL joins base, endpoint and the query parameters. Extra is a
// preformatted query string appended after params.
func FormURL(base, endpoint string, params []apis.Param, extra string) string {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	url := strings.TrimRight(base, "/") + "/" + endpoint

	p := apis.FormParams(",", params...)
	if extra != "" {
		if p != "" {
			p += "&"
		}
		p += extra
	}
	if p != "" {
		url += "?" + p
	}
	return url
}

// Fetch queries endpoint with terms and returns the body in format.
func Fetch(ctx context.Context, c *apis.Client, base, endpoint, format string, terms []string) (string, error) {
	accept, err := Accept(format)
	if err != nil {
		return "", err
	}
	params, err := ParseTerms(terms)
	if err != nil {
		return "", err
	}
	return c.Get(ctx, FormURL(base, endpoint, params, ""), map[string]string{"Accept": accept})
}
