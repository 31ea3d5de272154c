// Package value implements the tagged scalar values and fixed-arity rows
// that make up the Datalog data model (spec §3: Value, Row).
package value

import (
	"fmt"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	// KindString is a UTF-8 string value.
	KindString Kind = iota
	// KindUint is an unsigned 32-bit integer value.
	KindUint
	// KindBool is a boolean value.
	KindBool
	// KindFloat is a 64-bit float with a total order (NaN sorts highest).
	KindFloat
	// KindSymbol is an interned-string handle: an integer id bound to an
	// external interner.
	KindSymbol
)

// Symbol is an interned string handle. Relation names and, optionally,
// string term values are represented this way for fast comparison and
// compact rows; see package intern.
type Symbol uint32

// Value is a tagged union of the scalar kinds a Datalog term can hold.
// It is a plain struct, not an interface, so that comparison and ordering
// are branch-predictable and row slices stay allocation-free.
type Value struct {
	kind Kind
	str  string
	u32  uint32
	b    bool
	f64  float64
	sym  Symbol
}

// String constructs a string-valued Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Uint constructs an unsigned-integer-valued Value.
func Uint(u uint32) Value { return Value{kind: KindUint, u32: u} }

// Bool constructs a boolean-valued Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Float constructs a float-valued Value.
func Float(f float64) Value { return Value{kind: KindFloat, f64: f} }

// FromSymbol constructs a Value holding an interned-string handle.
func FromSymbol(s Symbol) Value { return Value{kind: KindSymbol, sym: s} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the string payload; ok is false if v is not KindString.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsUint returns the uint32 payload; ok is false if v is not KindUint.
func (v Value) AsUint() (uint32, bool) {
	if v.kind != KindUint {
		return 0, false
	}
	return v.u32, true
}

// AsBool returns the bool payload; ok is false if v is not KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsFloat returns the float64 payload; ok is false if v is not KindFloat.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f64, true
}

// AsSymbol returns the Symbol payload; ok is false if v is not KindSymbol.
func (v Value) AsSymbol() (Symbol, bool) {
	if v.kind != KindSymbol {
		return 0, false
	}
	return v.sym, true
}

// Equal reports whether v and w hold the same tag and payload.
func (v Value) Equal(w Value) bool {
	return Compare(v, w) == 0
}

// Compare defines the fixed tag-then-payload total order across all Value
// kinds (spec §3: "Equality and total order are defined across all tags by
// a fixed tag-then-payload rule"). Values of different kinds order by Kind;
// values of the same kind order by payload, with float NaN sorting above
// all other floats so the order is total.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindString:
		return compareStrings(a.str, b.str)
	case KindUint:
		switch {
		case a.u32 < b.u32:
			return -1
		case a.u32 > b.u32:
			return 1
		default:
			return 0
		}
	case KindBool:
		switch {
		case a.b == b.b:
			return 0
		case !a.b && b.b:
			return -1
		default:
			return 1
		}
	case KindFloat:
		return compareFloat(a.f64, b.f64)
	case KindSymbol:
		switch {
		case a.sym < b.sym:
			return -1
		case a.sym > b.sym:
			return 1
		default:
			return 0
		}
	default:
		panic("value: unreachable kind in Compare")
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareFloat gives a total order over float64 including NaN, which
// otherwise compares unordered with everything under IEEE-754 rules.
func compareFloat(a, b float64) int {
	aNaN, bNaN := a != a, b != b
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String renders v for diagnostics and for the tag used as row/literal
// identity (see Row.Tag).
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindUint:
		return strconv.FormatUint(uint64(v.u32), 10)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindFloat:
		return strconv.FormatFloat(v.f64, 'g', -1, 64)
	case KindSymbol:
		return fmt.Sprintf("$%d", v.sym)
	default:
		return "<invalid>"
	}
}
