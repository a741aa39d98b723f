// Package core holds the schemaless document model shared by the store and the
// entity controllers.
package core

import (
	"fmt"
	"sort"
	"strings"
)

// Object is the document shape exchanged with the store.
// Values are nil, bool, int64, float64, string, []any, Object, time.Time or RecordRef.
type Object map[string]any

// Keys returns the object keys in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of the object.
// Nested objects and arrays are shared with the original.
func (o Object) Clone() Object {
	out := make(Object, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// RecordRef identifies a record as table:key.
type RecordRef struct {
	Table string
	Key   string
}

// String renders the reference in its table:key form.
func (r RecordRef) String() string {
	return r.Table + ":" + r.Key
}

// MarshalText lets references travel as plain strings in JSON and YAML.
func (r RecordRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ParseRecordRef splits a fully-qualified "table:key" identifier.
func ParseRecordRef(id string) (RecordRef, error) {
	table, key, ok := strings.Cut(id, ":")
	if !ok || table == "" || key == "" {
		return RecordRef{}, fmt.Errorf("invalid record id %q: %w", id, &ValueNotOfTypeError{Expected: "record id"})
	}
	return RecordRef{Table: table, Key: key}, nil
}

// Strings converts a string slice into a document array.
func Strings(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
