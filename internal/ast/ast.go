// Package ast implements the Rule and expression-tree AST (spec §3 Term,
// Atom, Rule; §4.2's rule-to-algebra output; §9's arena design note).
package ast

import (
	"fmt"
	"strings"

	"github.com/kevinawalsh/reasoner/internal/value"
)

// VarID identifies a variable, scoped to a single rule (spec §3: "var_id is
// a small integer assigned during rule ingestion").
type VarID int

// Term is either a Constant(Value) or a Variable(var_id).
type Term struct {
	isVar bool
	konst value.Value
	vid   VarID
}

// Const constructs a constant term.
func Const(v value.Value) Term { return Term{konst: v} }

// Var constructs a variable term.
func Var(id VarID) Term { return Term{isVar: true, vid: id} }

// IsVar reports whether t is a Variable.
func (t Term) IsVar() bool { return t.isVar }

// Variable returns the VarID of t; only meaningful if IsVar() is true.
func (t Term) Variable() VarID { return t.vid }

// Constant returns the Value of t; only meaningful if IsVar() is false.
func (t Term) Constant() value.Value { return t.konst }

// Equal reports whether two terms denote the same variable, or the same
// constant value.
func (t Term) Equal(o Term) bool {
	if t.isVar != o.isVar {
		return false
	}
	if t.isVar {
		return t.vid == o.vid
	}
	return t.konst.Equal(o.konst)
}

func (t Term) String() string {
	if t.isVar {
		return fmt.Sprintf("?%d", t.vid)
	}
	return t.konst.String()
}

// Polarity tags an Atom as appearing positively or negatively in a rule
// body (spec §3).
type Polarity bool

const (
	// Positive marks an ordinary body atom.
	Positive Polarity = true
	// Negative marks a negated body atom ("!" in the surface syntax).
	Negative Polarity = false
)

// Atom is a relation applied to terms, with a polarity (spec §3).
type Atom struct {
	Relation value.Symbol
	Polarity Polarity
	Terms    []Term
}

// NewAtom constructs a positive Atom.
func NewAtom(rel value.Symbol, terms ...Term) Atom {
	return Atom{Relation: rel, Polarity: Positive, Terms: terms}
}

// Negated returns a copy of a with Negative polarity.
func (a Atom) Negated() Atom {
	a.Polarity = Negative
	return a
}

// Arity returns the number of terms in a.
func (a Atom) Arity() int { return len(a.Terms) }

// Vars appends every distinct variable appearing in a's terms, in
// left-to-right order of first occurrence, to out and returns the result.
func (a Atom) Vars(out []VarID) []VarID {
	for _, t := range a.Terms {
		if !t.IsVar() {
			continue
		}
		v := t.Variable()
		seen := false
		for _, o := range out {
			if o == v {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, v)
		}
	}
	return out
}

// HasVar reports whether v appears among a's terms.
func (a Atom) HasVar(v VarID) bool {
	for _, t := range a.Terms {
		if t.IsVar() && t.Variable() == v {
			return true
		}
	}
	return false
}

func (a Atom) String(names func(value.Symbol) string) string {
	var b strings.Builder
	if a.Polarity == Negative {
		b.WriteByte('!')
	}
	if names != nil {
		b.WriteString(names(a.Relation))
	} else {
		fmt.Fprintf(&b, "rel%d", a.Relation)
	}
	if len(a.Terms) > 0 {
		b.WriteByte('(')
		for i, t := range a.Terms {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(t.String())
		}
		b.WriteByte(')')
	}
	return b.String()
}

// Rule is a Horn clause: a positive head atom and a conjunctive body (spec
// §3). Body order is preserved, since the rewriter (C5) depends on
// positional body-atom identity when generating delta variants.
type Rule struct {
	Head Atom
	Body []Atom
}

// NewRule constructs a Rule from a head and body atoms.
func NewRule(head Atom, body ...Atom) Rule {
	return Rule{Head: head, Body: append([]Atom(nil), body...)}
}

// Safe reports whether every variable in the head appears in some positive
// body atom (spec §3's datalog safety invariant).
func (r Rule) Safe() bool {
	var headVars []VarID
	headVars = r.Head.Vars(headVars)
	for _, hv := range headVars {
		bound := false
		for _, b := range r.Body {
			if b.Polarity == Positive && b.HasVar(hv) {
				bound = true
				break
			}
		}
		if !bound {
			return false
		}
	}
	return true
}

// Clone returns a deep-enough copy of r suitable for rewriting (the
// rewriter mutates atom relation symbols and body order/position, never
// the underlying Term slices, but callers of rewrite always get a rule
// they own).
func (r Rule) Clone() Rule {
	body := make([]Atom, len(r.Body))
	for i, a := range r.Body {
		terms := make([]Term, len(a.Terms))
		copy(terms, a.Terms)
		body[i] = Atom{Relation: a.Relation, Polarity: a.Polarity, Terms: terms}
	}
	headTerms := make([]Term, len(r.Head.Terms))
	copy(headTerms, r.Head.Terms)
	return Rule{
		Head: Atom{Relation: r.Head.Relation, Polarity: r.Head.Polarity, Terms: headTerms},
		Body: body,
	}
}

func (r Rule) String(names func(value.Symbol) string) string {
	var b strings.Builder
	b.WriteString(r.Head.String(names))
	if len(r.Body) > 0 {
		b.WriteString(" :- ")
		for i, a := range r.Body {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String(names))
		}
	}
	return b.String()
}
