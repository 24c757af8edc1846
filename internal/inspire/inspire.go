// Package inspire builds requests for the INSPIRE-HEP REST API.
//
// See https://github.com/inspirehep/rest-api-doc.
package inspire

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/brettviren/recibi/internal/apis"
)

const (
	// BaseURL is the INSPIRE-HEP API root.
	BaseURL = "https://inspirehep.net/api"

	// DefaultType is the identifier type searched when none is given.
	DefaultType = "literature"

	// DefaultSort orders search results newest first.
	DefaultSort = "mostrecent"

	// DefaultSize is the number of results per request.
	DefaultSize = 10

	// MaxSize is the most results INSPIRE returns in one page.
	MaxSize = 1000

	// DefaultJoin combines multiple query terms.
	DefaultJoin = "or"
)

// Formats INSPIRE can return.
var Formats = []string{"bibtex", "json"}

// Request describes one INSPIRE query.
type Request struct {
	Type    string   // identifier type, e.g. literature
	Value   string   // optional identifier value
	Queries []string // q= terms
	Join    string   // boolean operator between terms
	Sort    string
	Size    int
	Format  string
}

// Normalize fills defaults, caps Size at MaxSize and validates Format.
func (r *Request) Normalize() error {
	if r.Type == "" {
		r.Type = DefaultType
	}
	if r.Join == "" {
		r.Join = DefaultJoin
	}
	if r.Sort == "" {
		r.Sort = DefaultSort
	}
	if r.Size <= 0 {
		r.Size = DefaultSize
	}
	if r.Size > MaxSize {
		r.Size = MaxSize
	}
	if r.Format == "" {
		r.Format = "bibtex"
	}
	for _, f := range Formats {
		if r.Format == f {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q (valid: %s)", r.Format, strings.Join(Formats, ", "))
}

// Params returns the ordered query parameters for r.
func (r Request) Params() string {
	return apis.FormParams(" "+strings.TrimSpace(r.Join)+" ",
		apis.P("q", r.Queries...),
		apis.P("sort", r.Sort),
		apis.P("size", strconv.Itoa(r.Size)),
		apis.P("format", r.Format),
	)
}

// FormURL joins base, identifier type, optional value and params.
func FormURL(base, identifierType, identifierValue, params string) string {
	url := strings.TrimRight(base, "/") + "/" + identifierType
	if identifierValue != "" {
		url += "/" + identifierValue
	}
	if params != "" {
		url += "?" + params
	}
	return url
}

// Fetch runs r against base and returns the response body.
func Fetch(ctx context.Context, c *apis.Client, base string, r Request) (string, error) {
	if err := r.Normalize(); err != nil {
		return "", err
	}
	url := FormURL(base, r.Type, r.Value, r.Params())
	return c.Get(ctx, url, nil)
}
