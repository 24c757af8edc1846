package record

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Collection is an insertion-ordered set of records keyed by their unique,
// case-sensitive key.
type Collection struct {
	keys    []string
	records map[string]*Record
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{records: make(map[string]*Record)}
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.keys)
}

// Has reports whether a record with the key exists.
func (c *Collection) Has(key string) bool {
	_, ok := c.records[key]
	return ok
}

// Get returns the record stored under key.
func (c *Collection) Get(key string) (*Record, bool) {
	r, ok := c.records[key]
	return r, ok
}

// Put stores a record under key. An existing record with the same key is
// replaced in place; otherwise the record is appended.
func (c *Collection) Put(key string, r *Record) {
	if c.records == nil {
		c.records = make(map[string]*Record)
	}
	if _, ok := c.records[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.records[key] = r
}

// Delete removes and returns the record stored under key.
func (c *Collection) Delete(key string) (*Record, bool) {
	r, ok := c.records[key]
	if !ok {
		return nil, false
	}
	delete(c.records, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
	return r, true
}

// Keys returns the keys in collection order. The slice is a copy.
func (c *Collection) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Each calls fn for every record in collection order, stopping at the
// first error.
func (c *Collection) Each(fn func(key string, r *Record) error) error {
	for _, k := range c.keys {
		if err := fn(k, c.records[k]); err != nil {
			return err
		}
	}
	return nil
}

// SortByKey reorders the collection lexically by key.
func (c *Collection) SortByKey() {
	sort.Strings(c.keys)
}

// MarshalJSON encodes the collection as an ordered array of records.
func (c *Collection) MarshalJSON() ([]byte, error) {
	entries := make([]json.RawMessage, 0, len(c.keys))
	for _, k := range c.keys {
		entry, err := MarshalEntry(k, c.records[k])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return json.Marshal(entries)
}

// UnmarshalJSON decodes an array written by MarshalJSON. Duplicate keys
// follow Put semantics.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = *NewCollection()
	for i, item := range raw {
		key, r, err := UnmarshalEntry(item)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
		c.Put(key, r)
	}
	return nil
}

// MarshalEntry encodes one keyed record as {"key":..,"type":..,"fields":{..}}.
func MarshalEntry(key string, r *Record) ([]byte, error) {
	body, err := r.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", key, err)
	}
	k, err := json.Marshal(key)
	if err != nil {
		return nil, err
	}
	// Splice the key in front of the record object.
	entry := make([]byte, 0, len(body)+len(k)+8)
	entry = append(entry, `{"key":`...)
	entry = append(entry, k...)
	entry = append(entry, ',')
	entry = append(entry, body[1:]...)
	return entry, nil
}

// UnmarshalEntry decodes an object written by MarshalEntry.
func UnmarshalEntry(data []byte) (string, *Record, error) {
	var head struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", nil, err
	}
	if head.Key == "" {
		return "", nil, fmt.Errorf("missing key")
	}
	r := New("")
	if err := r.UnmarshalJSON(data); err != nil {
		return "", nil, fmt.Errorf("%s: %w", head.Key, err)
	}
	return head.Key, r, nil
}
