// Package rewrite implements the Rule Rewriter (spec §4.2, C5): the
// semi-naive split of a program into non-recursive, recursive (delta), and
// deltaifying sub-programs, and the rule-to-relational-algebra transform.
//
// Grounded on original_source/src/reasoning/algorithms/delta_rule_rewrite.rs
// (make_sne_programs, deltaify_idb) and on the teacher's Clause/Literal
// vocabulary (kevinawalsh-datalog/src/datalog/datalog.go).
package rewrite

import (
	"github.com/kevinawalsh/reasoner/internal/ast"
	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/internal/value"
)

// DeltaTag is the fixed part of a delta relation's namespaced interned
// name; the variable part is a per-call token supplied by the driver (spec
// §9: "reserve them at the interner level"), so that two concurrent or
// sequential materialize/update calls never share a delta relation even if
// they happen to evaluate the same IDB relation name.
const DeltaTag = "delta"

// SNEPrograms holds the three sub-programs the semi-naive driver (C8)
// drives: the non-recursive base program, the recursive delta-variant
// program, and the deltaifying program that seeds ΔR from new R facts
// (spec §4.2, §4.5).
type SNEPrograms struct {
	NonRecursive []ast.Rule
	Recursive    []ast.Rule
	Deltaify     []ast.Rule
}

// idbRelations returns the set of relation symbols appearing in any rule
// head of program (spec §4.2: "IDB = relations appearing in any rule
// head").
func idbRelations(program []ast.Rule) map[value.Symbol]bool {
	idb := make(map[value.Symbol]bool)
	for _, r := range program {
		idb[r.Head.Relation] = true
	}
	return idb
}

// DeltaSymbol returns (and interns, on first use) the delta relation for
// rel within namespace ns, via in.
func DeltaSymbol(in intern.Interner, ns string, rel value.Symbol) value.Symbol {
	name, ok := in.Resolve(rel)
	if !ok {
		name = ""
	}
	return in.Intern("\x00" + ns + "\x00" + DeltaTag + "\x00" + name)
}

// Split partitions program into non-recursive and recursive rules, and
// builds the recursive program's delta variants and the deltaifying
// program, per spec §4.2's "Semi-naive split". ns namespaces every delta
// relation this call synthesizes (see DeltaTag):
//   - Non-recursive: rules whose body mentions no IDB relation, evaluated
//     once.
//   - Recursive: for each rule whose body mentions k IDB atoms, and for
//     each such atom position i, emit a rewritten rule where body atom i's
//     relation symbol is replaced by its delta name and moved to position
//     0 (the driver); non-IDB atoms are unchanged. A rule thus yields k
//     delta variants.
//   - Deltaify: for each IDB relation R, an identity rule ΔR(X…) :- R(X…).
func Split(in intern.Interner, ns string, program []ast.Rule) SNEPrograms {
	idb := idbRelations(program)

	var out SNEPrograms
	for _, r := range program {
		if !anyIDBBody(idb, r) {
			out.NonRecursive = append(out.NonRecursive, r.Clone())
			continue
		}
		for i, b := range r.Body {
			if !idb[b.Relation] || b.Polarity != ast.Positive {
				continue
			}
			out.Recursive = append(out.Recursive, deltaVariant(in, ns, r, i))
		}
	}

	for rel := range idb {
		out.Deltaify = append(out.Deltaify, deltaifyRule(in, ns, rel, headArity(program, rel)))
	}
	return out
}

func anyIDBBody(idb map[value.Symbol]bool, r ast.Rule) bool {
	for _, b := range r.Body {
		if idb[b.Relation] {
			return true
		}
	}
	return false
}

// deltaVariant builds the rewritten rule for driving body position i of r
// through its delta relation, moved to position 0 (spec §4.2).
func deltaVariant(in intern.Interner, ns string, r ast.Rule, i int) ast.Rule {
	c := r.Clone()
	driver := c.Body[i]
	driver.Relation = DeltaSymbol(in, ns, driver.Relation)

	rest := make([]ast.Atom, 0, len(c.Body))
	for j, b := range c.Body {
		if j != i {
			rest = append(rest, b)
		}
	}
	newBody := append([]ast.Atom{driver}, rest...)
	return ast.Rule{Head: c.Head, Body: newBody}
}

// deltaifyRule builds ΔR(X…) :- R(X…) for an IDB relation R of the given
// arity, with fresh variables (spec §4.2).
func deltaifyRule(in intern.Interner, ns string, rel value.Symbol, arity int) ast.Rule {
	terms := make([]ast.Term, arity)
	headTerms := make([]ast.Term, arity)
	for i := 0; i < arity; i++ {
		headTerms[i] = ast.Var(ast.VarID(i))
		terms[i] = ast.Var(ast.VarID(i))
	}
	head := ast.NewAtom(DeltaSymbol(in, ns, rel), headTerms...)
	body := ast.NewAtom(rel, terms...)
	return ast.NewRule(head, body)
}

// headArity returns the arity of the first rule in program whose head
// names rel (all rules defining the same IDB relation must agree on
// arity, which ingestion-time safety/arity checking enforces).
func headArity(program []ast.Rule, rel value.Symbol) int {
	for _, r := range program {
		if r.Head.Relation == rel {
			return r.Head.Arity()
		}
	}
	return 0
}
