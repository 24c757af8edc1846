// Package merge combines two records that share a key using an extended
// JSON Merge Patch.
//
// Patch fields replace target fields, and target fields the patch does not
// name are kept. Fields listed as set-valued hold delimiter-separated
// tokens; for those the result is the sorted union of both sides' tokens.
package merge

import (
	"sort"
	"strings"

	"github.com/brettviren/recibi/internal/pipeline"
	"github.com/brettviren/recibi/internal/record"
)

const (
	// DefaultSetField is the field treated as a token set by default.
	DefaultSetField = "keywords"
	// DefaultDelimiter separates tokens in set-valued fields.
	DefaultDelimiter = ","
)

// Patcher merges records. The zero value uses DefaultSetField and
// DefaultDelimiter.
type Patcher struct {
	SetFields []string
	Delimiter string
}

// NewPatcher returns a Patcher for the given set fields and delimiter. A nil
// setFields selects DefaultSetField and an empty one disables set handling.
func NewPatcher(setFields []string, delimiter string) Patcher {
	return Patcher{SetFields: setFields, Delimiter: delimiter}
}

func (p Patcher) delimiter() string {
	if p.Delimiter == "" {
		return DefaultDelimiter
	}
	return p.Delimiter
}

func (p Patcher) isSet(name string) bool {
	if p.SetFields == nil {
		return name == DefaultSetField
	}
	for _, f := range p.SetFields {
		if f == name {
			return true
		}
	}
	return false
}

// Patch returns a new record: a deep copy of target with patch applied.
// Neither argument is modified.
func (p Patcher) Patch(target, patch *record.Record) *record.Record {
	out := target.Clone()
	for _, name := range patch.Names() {
		val := patch.Get(name)
		if p.isSet(name) {
			out.Set(name, Union(p.delimiter(), target.Get(name), val))
			continue
		}
		out.Set(name, val)
	}
	return out
}

// Resolve merges patch into target under key. It has the shape of a
// pipeline.Resolver and always yields exactly one entry.
func (p Patcher) Resolve(key string, target, patch *record.Record) []pipeline.Entry {
	return []pipeline.Entry{{Key: key, Record: p.Patch(target, patch)}}
}

// MergePatch merges with the default set field and delimiter.
func MergePatch(key string, target, patch *record.Record) []pipeline.Entry {
	return Patcher{}.Resolve(key, target, patch)
}

// Union splits each value on delim and returns the de-duplicated tokens,
// sorted and joined by delim. Empty tokens are dropped.
func Union(delim string, values ...string) string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, v := range values {
		if v == "" {
			continue
		}
		for _, tok := range strings.Split(v, delim) {
			if tok == "" {
				continue
			}
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			tokens = append(tokens, tok)
		}
	}
	sort.Strings(tokens)
	return strings.Join(tokens, delim)
}
