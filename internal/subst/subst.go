// Package subst implements the Substitution model (spec §3, §9): an
// ordered association list from var_id to Value, kept short and sorted so
// that merging two substitutions is linear and deterministic (spec §9:
// "using a hash map is permissible but loses the ordering tests rely on").
package subst

import (
	"github.com/kevinawalsh/reasoner/internal/ast"
	"github.com/kevinawalsh/reasoner/internal/value"
)

// binding is one (var_id, Value) pair.
type binding struct {
	v   ast.VarID
	val value.Value
}

// Subst is an ordered, duplicate-free list of bindings sorted by VarID.
// The zero value is the empty substitution.
type Subst struct {
	bindings []binding
}

// Empty returns a new empty substitution.
func Empty() Subst { return Subst{} }

// Lookup returns the Value bound to v, if any. Lookup is linear, which is
// fine since substitutions are typically small (spec §3: "typically <= 8
// entries").
func (s Subst) Lookup(v ast.VarID) (value.Value, bool) {
	for _, b := range s.bindings {
		if b.v == v {
			return b.val, true
		}
		if b.v > v {
			break // bindings are sorted by VarID
		}
	}
	return value.Value{}, false
}

// Extend returns a new substitution with v bound to val. It panics if v is
// already bound, to any value; callers (the unifier) must check
// Lookup first to detect conflicting re-binding per spec §4.3.
func (s Subst) Extend(v ast.VarID, val value.Value) Subst {
	out := make([]binding, 0, len(s.bindings)+1)
	inserted := false
	for _, b := range s.bindings {
		if !inserted && b.v > v {
			out = append(out, binding{v, val})
			inserted = true
		}
		if b.v == v {
			panic("subst: Extend called on an already-bound variable")
		}
		out = append(out, b)
	}
	if !inserted {
		out = append(out, binding{v, val})
	}
	return Subst{bindings: out}
}

// TryExtend behaves like Extend but returns ok=false instead of panicking
// when v is already bound to a conflicting value, and is a no-op (ok=true,
// same Subst) when v is already bound to an equal value.
func (s Subst) TryExtend(v ast.VarID, val value.Value) (Subst, bool) {
	if existing, ok := s.Lookup(v); ok {
		if existing.Equal(val) {
			return s, true
		}
		return s, false
	}
	return s.Extend(v, val), true
}

// Merge combines s and o, succeeding only when they agree on every shared
// variable (spec §3: "Merge of two substitutions is defined only when
// agreeing on shared keys").
func Merge(s, o Subst) (Subst, bool) {
	result := s
	for _, b := range o.bindings {
		var ok bool
		result, ok = result.TryExtend(b.v, b.val)
		if !ok {
			return Subst{}, false
		}
	}
	return result, true
}

// Len reports the number of bindings in s.
func (s Subst) Len() int { return len(s.bindings) }

// Vars returns the bound variables in ascending VarID order.
func (s Subst) Vars() []ast.VarID {
	out := make([]ast.VarID, len(s.bindings))
	for i, b := range s.bindings {
		out[i] = b.v
	}
	return out
}

// ApplyTerm resolves t under s: a constant is returned unchanged; a bound
// variable resolves to its Value; an unbound variable is returned as-is.
func ApplyTerm(s Subst, t ast.Term) ast.Term {
	if !t.IsVar() {
		return t
	}
	if val, ok := s.Lookup(t.Variable()); ok {
		return ast.Const(val)
	}
	return t
}

// ApplyAtom rewrites every term of a under s (spec §4.2's
// attempt_to_rewrite / §4.3 step 2's "partially-rewritten atom B_i[s]").
func ApplyAtom(s Subst, a ast.Atom) ast.Atom {
	terms := make([]ast.Term, len(a.Terms))
	for i, t := range a.Terms {
		terms[i] = ApplyTerm(s, t)
	}
	return ast.Atom{Relation: a.Relation, Polarity: a.Polarity, Terms: terms}
}

// GroundRow converts a fully-ground atom's terms into a value.Row. Callers
// must ensure IsGround(a) first.
func GroundRow(a ast.Atom) value.Row {
	row := make(value.Row, len(a.Terms))
	for i, t := range a.Terms {
		row[i] = t.Constant()
	}
	return row
}

// IsGround reports whether every term of a is a constant.
func IsGround(a ast.Atom) bool {
	for _, t := range a.Terms {
		if t.IsVar() {
			return false
		}
	}
	return true
}
