// Package model defines the canonical in-memory representation all exporters
// consume: a tagged value variant, an insertion-ordered record object, and an
// ordered record collection.
//
// Loaders produce loosely typed records, the normalizer converts them into
// Objects, and every downstream component (key selection, filename
// generation, format backends, template rendering) reads the same model.
// Nothing downstream mutates it.
package model

import (
	"fmt"
	"sort"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindMap
	KindList
)

// String returns the kind name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	}
	return "unknown"
}

// Value is a tagged variant: string, number, bool, null, nested Object, or
// ordered list of Values. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	obj  *Object
	list []Value
}

func Null() Value            { return Value{kind: KindNull} }
func String(s string) Value  { return Value{kind: KindString, str: s} }
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }

// Map wraps an Object. A nil Object yields an empty map value.
func Map(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindMap, obj: o}
}

// List builds a list value from the given items.
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

func (v Value) Kind() Kind { return v.kind }

// IsScalar reports whether the value is neither a map nor a list.
func (v Value) IsScalar() bool { return v.kind != KindMap && v.kind != KindList }

func (v Value) Str() string     { return v.str }
func (v Value) Num() float64    { return v.num }
func (v Value) Boolean() bool   { return v.b }
func (v Value) Object() *Object { return v.obj }
func (v Value) Items() []Value  { return v.list }

// Format renders a scalar value for display. Complex values fall back to the
// fmt representation of their plain form; callers that need structured output
// serialize Any() themselves.
func (v Value) Format() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return fmt.Sprintf("%v", v.Any())
	}
}

// Any converts the value back into plain Go types: nil, string, float64,
// bool, map[string]any, []any.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindMap:
		return v.obj.Any()
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Any()
		}
		return out
	default:
		return nil
	}
}

// FromAny converts a loosely typed decoded value (as produced by JSON
// decoding or a loader) into the variant. Map keys are taken in sorted order
// so the same input always produces the same Object enumeration; loaders
// that know the source field order use FromMap directly.
func FromAny(v any) Value {
	switch vv := v.(type) {
	case nil:
		return Null()
	case string:
		return String(vv)
	case bool:
		return Bool(vv)
	case float64:
		return Number(vv)
	case float32:
		return Number(float64(vv))
	case int:
		return Number(float64(vv))
	case int32:
		return Number(float64(vv))
	case int64:
		return Number(float64(vv))
	case uint64:
		return Number(float64(vv))
	case map[string]any:
		return Map(FromMap(vv, nil))
	case []any:
		items := make([]Value, len(vv))
		for i, item := range vv {
			items[i] = FromAny(item)
		}
		return List(items...)
	case []string:
		items := make([]Value, len(vv))
		for i, item := range vv {
			items[i] = String(item)
		}
		return List(items...)
	default:
		return String(fmt.Sprintf("%v", vv))
	}
}

// FromMap converts a plain map into an Object. Keys listed in order come
// first (in that order); remaining keys follow sorted, so conversion is
// deterministic regardless of map iteration order.
func FromMap(m map[string]any, order []string) *Object {
	o := NewObject()
	seen := make(map[string]bool, len(order))
	for _, k := range order {
		if v, ok := m[k]; ok && !seen[k] {
			o.SetKey(k, FromAny(v))
			seen[k] = true
		}
	}
	rest := make([]string, 0, len(m))
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		o.SetKey(k, FromAny(m[k]))
	}
	return o
}
