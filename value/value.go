// Package value implements the tagged value variant that all expression
// evaluation in dbschema operates over (spec §3.1). A Value is always one
// of Null, Bool, Number, String, List or Object; there is no separate
// "unknown" or "sensitive" marking — module evaluation is hermetic and
// fully synchronous (spec §5), so every value is known by the time it is
// observed.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which case of the tagged variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is the tagged variant described in spec §3.1. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	n    Number
	s    string
	list []Value
	obj  *Object
}

// Number holds either an int64 or a float64, matching spec §3.1's split
// between "integer paths" and "fractional paths". Equality and ordering
// are always performed on the numeric value, never the representation.
type Number struct {
	isInt bool
	i     int64
	f     float64
}

// Int builds an integer Number.
func Int(v int64) Number { return Number{isInt: true, i: v} }

// Float builds a floating-point Number.
func Float(v float64) Number {
	if v == float64(int64(v)) {
		// Keep float64(3) distinct from int64(3) in representation, but
		// they still compare equal via Float64()/Equal — see Number.Equal.
	}
	return Number{isInt: false, f: v}
}

// IsInt reports whether the number was constructed from an integer literal.
func (n Number) IsInt() bool { return n.isInt }

// Int64 returns the number truncated to an int64.
func (n Number) Int64() int64 {
	if n.isInt {
		return n.i
	}
	return int64(n.f)
}

// Float64 returns the number widened to a float64.
func (n Number) Float64() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

// Equal compares two numbers by numeric value, regardless of representation.
func (n Number) Equal(o Number) bool {
	if n.isInt && o.isInt {
		return n.i == o.i
	}
	return n.Float64() == o.Float64()
}

// Compare returns -1, 0, or 1 as n is less than, equal to, or greater than o.
func (n Number) Compare(o Number) int {
	if n.isInt && o.isInt {
		switch {
		case n.i < o.i:
			return -1
		case n.i > o.i:
			return 1
		default:
			return 0
		}
	}
	a, b := n.Float64(), o.Float64()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (n Number) String() string {
	if n.isInt {
		return strconv.FormatInt(n.i, 10)
	}
	return strconv.FormatFloat(n.f, 'g', -1, 64)
}

// Object is an ordered map from string keys to Values. Many emitters rely
// on column declaration order (spec §3.1), so insertion order is preserved
// rather than delegating to Go's unordered map.
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject builds an empty, ordered Object.
func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

// Set inserts or overwrites a key, preserving first-insertion order.
func (o *Object) Set(key string, v Value) *Object {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
	return o
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of fields.
func (o *Object) Len() int { return len(o.keys) }

// SortedKeys returns a lexicographically sorted copy of the keys, used
// where a deterministic-but-not-insertion order is explicitly wanted
// (e.g. for_each over an object binds each.key in sorted order, spec §4.F).
func (o *Object) SortedKeys() []string {
	out := o.Keys()
	sort.Strings(out)
	return out
}

// Constructors.

func Null() Value { return Value{kind: KindNull} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func NumberVal(n Number) Value { return Value{kind: KindNumber, n: n} }

func IntVal(i int64) Value { return Value{kind: KindNumber, n: Int(i)} }

func FloatVal(f float64) Value { return Value{kind: KindNumber, n: Float(f)} }

func String(s string) Value { return Value{kind: KindString, s: s} }

func List(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

func ObjectVal(o *Object) Value { return Value{kind: KindObject, obj: o} }

// Accessors. Each panics if the Value is not of the expected kind; callers
// in the evaluator always check Kind() first, so this mirrors Go's own
// type-assertion discipline rather than returning (T, bool) everywhere.

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() bool {
	if v.kind != KindBool {
		panic(fmt.Sprintf("value: Bool() called on %s", v.kind))
	}
	return v.b
}

func (v Value) Number() Number {
	if v.kind != KindNumber {
		panic(fmt.Sprintf("value: Number() called on %s", v.kind))
	}
	return v.n
}

func (v Value) Str() string {
	if v.kind != KindString {
		panic(fmt.Sprintf("value: Str() called on %s", v.kind))
	}
	return v.s
}

func (v Value) List() []Value {
	if v.kind != KindList {
		panic(fmt.Sprintf("value: List() called on %s", v.kind))
	}
	return v.list
}

func (v Value) Object() *Object {
	if v.kind != KindObject {
		panic(fmt.Sprintf("value: Object() called on %s", v.kind))
	}
	return v.obj
}

// Equal implements the deep-equality contract of spec §3.2 (a Number
// compares equal across integer/float representations when mathematically
// equal).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n.Equal(o.n)
	case KindString:
		return v.s == o.s
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != o.obj.Len() {
			return false
		}
		for _, k := range v.obj.Keys() {
			av, _ := v.obj.Get(k)
			bv, ok := o.obj.Get(k)
			if !ok || !av.Equal(bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ToString implements the coercions documented in spec §4.C/§4.D:
// string <- number/bool is always allowed.
func (v Value) ToString() (string, error) {
	switch v.kind {
	case KindString:
		return v.s, nil
	case KindNumber:
		return v.n.String(), nil
	case KindBool:
		if v.b {
			return "true", nil
		}
		return "false", nil
	case KindNull:
		return "", fmt.Errorf("cannot convert null to string")
	default:
		return "", fmt.Errorf("cannot convert %s to string", v.kind)
	}
}

// ToNumber implements number <- string (if the string parses numerically).
func (v Value) ToNumber() (Number, error) {
	switch v.kind {
	case KindNumber:
		return v.n, nil
	case KindString:
		if i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64); err == nil {
			return Int(i), nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64); err == nil {
			return Float(f), nil
		}
		return Number{}, fmt.Errorf("string %q does not parse as a number", v.s)
	default:
		return Number{}, fmt.Errorf("cannot convert %s to number", v.kind)
	}
}

// ToBool implements bool <- string for "true"/"false".
func (v Value) ToBool() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindString:
		switch v.s {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return false, fmt.Errorf("string %q is not a valid bool", v.s)
		}
	default:
		return false, fmt.Errorf("cannot convert %s to bool", v.kind)
	}
}

// GoString renders a debug representation, used in error messages and tests.
func (v Value) GoString() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.n.String()
	case KindString:
		return strconv.Quote(v.s)
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.GoString()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		parts := make([]string, 0, v.obj.Len())
		for _, k := range v.obj.Keys() {
			fv, _ := v.obj.Get(k)
			parts = append(parts, fmt.Sprintf("%s = %s", k, fv.GoString()))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid>"
	}
}
