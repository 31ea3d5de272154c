// Package evalsubst implements the Substitution Evaluator (spec §4.3, C6):
// a tuple-at-a-time rule evaluator that unifies each body atom against
// candidate rows, carrying forward an ever-more-bound substitution.
//
// Grounded on original_source/src/reasoning/algorithms/rewriting.rs's
// evaluate_rule/proven/unify/attempt_to_rewrite, and on the teacher's own
// substitution-and-unification evaluator
// (kevinawalsh-datalog/src/datalog/datalog.go's Solve/unify/chase/shuffle
// family, which this package generalizes from its top-down tabling search
// to the spec's bottom-up per-rule evaluation).
package evalsubst

import (
	"github.com/kevinawalsh/reasoner/internal/ast"
	"github.com/kevinawalsh/reasoner/internal/database"
	"github.com/kevinawalsh/reasoner/internal/subst"
	"github.com/kevinawalsh/reasoner/internal/value"
)

// EvaluateProgram evaluates every rule of program against db and groups the
// resulting candidate rows by head relation, the shape C8's apply_rules
// expects from either back-end (spec §4.5).
func EvaluateProgram(db *database.Database, program []ast.Rule) map[value.Symbol][]value.Row {
	out := make(map[value.Symbol][]value.Row)
	for _, r := range program {
		rows := EvaluateRule(db, r)
		if len(rows) == 0 {
			continue
		}
		out[r.Head.Relation] = append(out[r.Head.Relation], rows...)
	}
	return out
}

// EvaluateRule evaluates r against db per spec §4.3's four steps, returning
// the distinct head rows produced by fully-grounding substitutions.
// Unknown relations mid-evaluation yield an empty extension rather than an
// error (spec §4.3 "Failure"), so a rule may freely reference a
// yet-to-be-derived IDB relation.
func EvaluateRule(db *database.Database, r ast.Rule) []value.Row {
	substs := []subst.Subst{subst.Empty()}

	for _, atom := range r.Body {
		var next []subst.Subst
		for _, s := range substs {
			if atom.Polarity == ast.Negative {
				if ok, keep := evalNegative(db, atom, s); ok {
					next = append(next, keep)
				}
				continue
			}
			for _, row := range candidateRows(db, atom, s) {
				if ext, ok := unifyRow(s, atom, row); ok {
					next = append(next, ext)
				}
			}
		}
		substs = next
		if len(substs) == 0 {
			return nil
		}
	}

	var out []value.Row
	seen := make(map[string]bool, len(substs))
	for _, s := range substs {
		head := subst.ApplyAtom(s, r.Head)
		if !subst.IsGround(head) {
			// Safety (ingestion-time, spec §3/§4.8) should already have
			// rejected this rule; defensively drop rather than emit a
			// partially-bound row.
			continue
		}
		row := subst.GroundRow(head)
		if tag := row.Tag(); !seen[tag] {
			seen[tag] = true
			out = append(out, row)
		}
	}
	return out
}

// evalNegative implements a negated body atom: it must be fully ground once
// s is applied (every variable already bound by an earlier positive atom,
// per safety), and succeeds (keeping s unchanged, since negation binds no
// new variables) iff the ground row is absent from db.
func evalNegative(db *database.Database, atom ast.Atom, s subst.Subst) (ok bool, keep subst.Subst) {
	rewritten := subst.ApplyAtom(s, atom)
	if !subst.IsGround(rewritten) {
		return false, subst.Subst{}
	}
	row := subst.GroundRow(rewritten)
	if db.Contains(atom.Relation, row) {
		return false, subst.Subst{}
	}
	return true, s
}

// candidateRows returns the rows of atom's relation worth attempting to
// unify against, under s: if any term is already bound (variable with a
// value in s, or a literal constant) and that column has an active index,
// the probe is used; otherwise a full scan (spec §4.3 step 2: "using any
// available index on a bound column; otherwise full scan").
func candidateRows(db *database.Database, atom ast.Atom, s subst.Subst) []value.Row {
	for i, t := range atom.Terms {
		var v value.Value
		switch {
		case !t.IsVar():
			v = t.Constant()
		default:
			bound, ok := s.Lookup(t.Variable())
			if !ok {
				continue
			}
			v = bound
		}
		if db.HasIndex(atom.Relation, i) {
			rows, err := db.Probe(atom.Relation, i, v)
			if err != nil {
				return nil
			}
			return rows
		}
	}
	return db.Scan(atom.Relation)
}

// unifyRow attempts to extend s by unifying atom's terms against row,
// positionally. Fails on constant mismatch or conflicting re-binding of an
// already-bound variable (spec §4.3 step 2).
func unifyRow(s subst.Subst, atom ast.Atom, row value.Row) (subst.Subst, bool) {
	if len(atom.Terms) != len(row) {
		return subst.Subst{}, false
	}
	result := s
	for i, t := range atom.Terms {
		if !t.IsVar() {
			if !t.Constant().Equal(row[i]) {
				return subst.Subst{}, false
			}
			continue
		}
		var ok bool
		result, ok = result.TryExtend(t.Variable(), row[i])
		if !ok {
			return subst.Subst{}, false
		}
	}
	return result, true
}
