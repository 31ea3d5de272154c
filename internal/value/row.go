package value

import "strings"

// Row is an immutable, fixed-arity ordered sequence of Values. Rows are
// compared by lexicographic value order (spec §3).
type Row []Value

// Arity returns the number of columns in r.
func (r Row) Arity() int { return len(r) }

// Tag renders a Row into a string that is equal iff the rows are equal.
// It is used as the identity key for the row set and for indexes (spec §3:
// "rows: set of Row (keyed by Row identity; duplicates silently
// coalesced)"), the same trick the teacher uses for Literal.tag/Literal.lID
// in datalog.go.
func (r Row) Tag() string {
	var b strings.Builder
	for i, v := range r {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		if v.kind == KindFloat && v.f64 == 0 {
			v = Float(0) // -0 and +0 compare equal, so they share one tag
		}
		b.WriteByte(byte(v.kind))
		b.WriteString(v.String())
	}
	return b.String()
}

// Clone returns a copy of r, so callers can safely mutate a freshly built
// row without aliasing one already stored in a Relation.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	copy(c, r)
	return c
}

// RowCompare returns -1, 0, or 1 according to lexicographic Value order,
// comparing arity only after all shared columns compare equal (shorter
// rows sort first).
func RowCompare(a, b Row) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
