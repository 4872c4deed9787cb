// Package errortree holds nested validation failures keyed by field path and
// flattens them into the {text, href} records shown in a GOV.UK error summary.
package errortree

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Tree is an insertion-ordered mapping from field name (or list index) to an
// error value. Values are one of: *Tree (sub-form), []*Tree (repeated
// sub-forms), []string (messages) or string (single message).
type Tree struct {
	entries *orderedmap.OrderedMap[string, any]
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{entries: orderedmap.New[string, any]()}
}

// Set stores value under key, keeping its first position when the key
// already exists.
func (t *Tree) Set(key string, value any) *Tree {
	t.entries.Set(key, value)
	return t
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (any, bool) {
	if t == nil {
		return nil, false
	}
	return t.entries.Get(key)
}

// Delete removes key from the tree.
func (t *Tree) Delete(key string) {
	if t == nil {
		return
	}
	t.entries.Delete(key)
}

// Add appends message to the list stored under key.
func (t *Tree) Add(key, message string) *Tree {
	existing, _ := t.entries.Get(key)
	messages, _ := existing.([]string)
	t.entries.Set(key, append(messages, message))
	return t
}

// Child returns the sub-tree stored under key, creating it when missing. A
// non-tree value under key is replaced.
func (t *Tree) Child(key string) *Tree {
	if existing, ok := t.entries.Get(key); ok {
		if child, ok := existing.(*Tree); ok {
			return child
		}
	}
	child := New()
	t.entries.Set(key, child)
	return child
}

// Len reports the number of top-level entries.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return t.entries.Len()
}

// Empty reports whether the tree holds no entries.
func (t *Tree) Empty() bool {
	return t.Len() == 0
}

// Keys returns the top-level keys in insertion order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, t.entries.Len())
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each visits entries in insertion order until fn returns false.
func (t *Tree) Each(fn func(key string, value any) bool) {
	if t == nil || fn == nil {
		return
	}
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// MarshalJSON encodes the tree as a JSON object preserving key order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	if t == nil || t.entries == nil {
		return []byte("null"), nil
	}
	return t.entries.MarshalJSON()
}
