// Package engine implements the filter pipeline: the fixed-order sequence of
// transformation stages that turns a captured process output into a short,
// signal-dense string for an LLM to read.
package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the cases of Value. Value is a sealed tagged union —
// only the four constructors below (Str, Int, Coll, Rec) produce a Value,
// and every pipe dispatches on Kind rather than on a type hierarchy.
type Kind int

const (
	KindStr Kind = iota
	KindInt
	KindColl
	KindRec
)

// Value is the runtime scalar/aggregate universe shared by templates and
// the script evaluator: Str(string) | Int(integer) | Coll([]Value) |
// Rec(ordered name->Value map).
type Value struct {
	kind Kind
	str  string
	num  int64
	coll []Value
	rec  *Record
}

// Record is an ordered map from string to Value, used for section results.
// Order is preserved because {name.blocks} and {name.lines} must iterate in
// encounter order (Invariant 6).
type Record struct {
	keys   []string
	values map[string]Value
}

// NewRecord returns an empty, ordered Record.
func NewRecord() *Record {
	return &Record{values: make(map[string]Value)}
}

// Set adds or overwrites a field, preserving first-insertion order.
func (r *Record) Set(name string, v Value) {
	if _, exists := r.values[name]; !exists {
		r.keys = append(r.keys, name)
	}
	r.values[name] = v
}

// Get returns the named field and whether it was present.
func (r *Record) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	return r.keys
}

// Str constructs a string Value.
func Str(s string) Value { return Value{kind: KindStr, str: s} }

// Int constructs an integer Value.
func Int(n int64) Value { return Value{kind: KindInt, num: n} }

// Coll constructs a collection Value from an ordered list of elements.
func Coll(vs []Value) Value { return Value{kind: KindColl, coll: vs} }

// Rec constructs a record Value wrapping an ordered name->Value map.
func Rec(r *Record) Value { return Value{kind: KindRec, rec: r} }

// Kind reports which case v holds.
func (v Value) Kind() Kind { return v.kind }

// AsColl returns the element slice and whether v is a Coll.
func (v Value) AsColl() ([]Value, bool) {
	if v.kind != KindColl {
		return nil, false
	}
	return v.coll, true
}

// AsRec returns the underlying Record and whether v is a Rec.
func (v Value) AsRec() (*Record, bool) {
	if v.kind != KindRec {
		return nil, false
	}
	return v.rec, true
}

// AsInt returns the integer and whether v is an Int.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.num, true
}

// String renders v for template interpolation. Rendering is total: every
// Kind has a defined string form, so a template never fails to stringify a
// value (Invariant 7, "template rendering is total").
func (v Value) String() string {
	switch v.kind {
	case KindStr:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindColl:
		parts := make([]string, len(v.coll))
		for i, e := range v.coll {
			parts[i] = e.String()
		}
		return strings.Join(parts, "\n")
	case KindRec:
		// {name} on a section-backed Rec resolves to the joined text field
		// (§4.4): the section collector stores it under the synthetic "text"
		// key so that bare {name} and {name.text} agree.
		if text, ok := v.rec.Get("text"); ok {
			return text.String()
		}
		return ""
	default:
		return ""
	}
}

// GoString supports %v-style debug printing in tests.
func (v Value) GoString() string {
	return fmt.Sprintf("Value(kind=%d, %q)", v.kind, v.String())
}
