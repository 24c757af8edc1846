// Package record defines the core domain types for citation records.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultKind is used when a record is created without an entry type.
const DefaultKind = "misc"

// Record is a single citation entry: a key, an entry kind and an ordered
// set of string fields.
type Record struct {
	Kind string // Entry type (article, inproceedings, misc, ...)

	names  []string          // Field names in insertion order
	values map[string]string // Field name -> value
}

// New creates an empty record of the given kind.
func New(kind string) *Record {
	if kind == "" {
		kind = DefaultKind
	}
	return &Record{
		Kind:   kind,
		values: make(map[string]string),
	}
}

// Field returns the value of the named field and whether it is present.
func (r *Record) Field(name string) (string, bool) {
	if r == nil || r.values == nil {
		return "", false
	}
	v, ok := r.values[name]
	return v, ok
}

// Get returns the value of the named field, or "" if absent.
func (r *Record) Get(name string) string {
	v, _ := r.Field(name)
	return v
}

// Set assigns a field value. New fields are appended after existing ones;
// existing fields keep their position.
func (r *Record) Set(name, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// Delete removes a field. Deleting an absent field is a no-op.
func (r *Record) Delete(name string) {
	if _, ok := r.values[name]; !ok {
		return
	}
	delete(r.values, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
}

// Names returns the field names in order. The slice is a copy.
func (r *Record) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.names)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := &Record{
		Kind:   r.Kind,
		names:  make([]string, len(r.names)),
		values: make(map[string]string, len(r.values)),
	}
	copy(out.names, r.names)
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// Equal reports whether two records have the same kind and the same field
// values. Field order is not compared.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.Kind != other.Kind || len(r.values) != len(other.values) {
		return false
	}
	for k, v := range r.values {
		if ov, ok := other.values[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the fields as a JSON object preserving field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	kind, err := json.Marshal(r.Kind)
	if err != nil {
		return nil, err
	}
	buf.Write(kind)
	buf.WriteString(`,"fields":{`)
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a record written by MarshalJSON, keeping the order
// of the fields object.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   string          `json:"type"`
		Fields json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = *New(raw.Type)
	if len(raw.Fields) == 0 || string(raw.Fields) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Fields))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("fields: expected object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("fields: expected string key")
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		r.Set(name, value)
	}
	return nil
}
