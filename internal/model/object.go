package model

import (
	"strconv"
	"strings"
)

// PathSeparator is the canonical field path separator.
const PathSeparator = "."

// Object is a single normalized record: an insertion-ordered mapping from
// field name to Value. Field paths address nested maps with dots and list
// elements with numeric segments (`items.0.name`).
//
// Invariant: no top-level key is duplicated; enumeration order is the
// insertion order, so the same Object always enumerates identically.
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject returns an empty record.
func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

// Len returns the number of top-level fields.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns the top-level field names in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Value returns the top-level value for key.
func (o *Object) Value(key string) (Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// SetKey inserts or replaces a top-level field, preserving the position of
// an existing key.
func (o *Object) SetKey(key string, v Value) {
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Get resolves a dotted field path against nested maps and list indices.
func (o *Object) Get(path string) (Value, bool) {
	if path == "" {
		return Value{}, false
	}
	segments := strings.Split(path, PathSeparator)
	current := Map(o)
	for _, seg := range segments {
		switch current.Kind() {
		case KindMap:
			v, ok := current.Object().vals[seg]
			if !ok {
				return Value{}, false
			}
			current = v
		case KindList:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(current.Items()) {
				return Value{}, false
			}
			current = current.Items()[idx]
		default:
			return Value{}, false
		}
	}
	return current, true
}

// Set writes a value at a dotted path, creating intermediate maps as needed.
// A non-map value standing in the way is replaced (last-write-wins), which
// is the merge rule for conflicting nested CSV headers.
func (o *Object) Set(path string, v Value) {
	segments := strings.Split(path, PathSeparator)
	current := o
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current.vals[seg]
		if !ok || next.Kind() != KindMap {
			child := NewObject()
			current.SetKey(seg, Map(child))
			current = child
			continue
		}
		current = next.Object()
	}
	current.SetKey(segments[len(segments)-1], v)
}

// Paths enumerates every field path in the record, in first-seen order:
// each map key at every depth, parents before children. List interiors are
// not enumerated (they remain addressable via index segments).
func (o *Object) Paths() []string {
	var out []string
	var walk func(obj *Object, prefix string)
	walk = func(obj *Object, prefix string) {
		for _, k := range obj.keys {
			path := k
			if prefix != "" {
				path = prefix + PathSeparator + k
			}
			out = append(out, path)
			if v := obj.vals[k]; v.Kind() == KindMap {
				walk(v.Object(), path)
			}
		}
	}
	walk(o, "")
	return out
}

// Leaf is a terminal field: a path and its scalar (or empty container) value.
type Leaf struct {
	Path  string
	Value Value
}

// Leaves returns the terminal values of the record in first-seen order,
// descending both maps and lists. Empty maps and lists are themselves
// leaves, so the leaf set is preserved losslessly under flattening.
func (o *Object) Leaves() []Leaf {
	var out []Leaf
	var walk func(v Value, prefix string)
	walk = func(v Value, prefix string) {
		switch v.Kind() {
		case KindMap:
			obj := v.Object()
			if obj.Len() == 0 {
				out = append(out, Leaf{Path: prefix, Value: v})
				return
			}
			for _, k := range obj.keys {
				path := k
				if prefix != "" {
					path = prefix + PathSeparator + k
				}
				walk(obj.vals[k], path)
			}
		case KindList:
			items := v.Items()
			if len(items) == 0 {
				out = append(out, Leaf{Path: prefix, Value: v})
				return
			}
			for i, item := range items {
				walk(item, prefix+PathSeparator+strconv.Itoa(i))
			}
		default:
			out = append(out, Leaf{Path: prefix, Value: v})
		}
	}
	for _, k := range o.keys {
		walk(o.vals[k], k)
	}
	return out
}

// Flatten returns a new single-level Object keyed by the record's leaf
// paths joined with sep. Only structural path names change; the set of
// terminal values is preserved.
func (o *Object) Flatten(sep string) *Object {
	flat := NewObject()
	for _, leaf := range o.Leaves() {
		key := leaf.Path
		if sep != PathSeparator {
			key = strings.ReplaceAll(leaf.Path, PathSeparator, sep)
		}
		flat.SetKey(key, leaf.Value)
	}
	return flat
}

// Unflatten rebuilds nested structure from an Object whose keys are
// sep-joined paths. Conflicting leaves resolve last-write-wins.
func Unflatten(o *Object, sep string) *Object {
	nested := NewObject()
	for _, k := range o.keys {
		path := k
		if sep != PathSeparator {
			path = strings.ReplaceAll(k, sep, PathSeparator)
		}
		nested.Set(path, o.vals[k])
	}
	return nested
}

// Any converts the record into plain nested Go maps and slices.
func (o *Object) Any() map[string]any {
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = o.vals[k].Any()
	}
	return out
}
