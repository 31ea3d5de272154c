package rewrite

import (
	"github.com/kevinawalsh/reasoner/internal/ast"
)

// ToAlgebra compiles a rule's body into a relational-algebra expression
// tree per spec §4.2's deterministic "Rule -> relational algebra"
// transform:
//  1. Concatenate body term lists into one length-sum(arity) vector with
//     positional indices.
//  2. Emit leaves Relation(Bi) chained left-deep by Product nodes.
//  3. For every body position holding a Constant(v), wrap the root in
//     Selection(position, literal=v) and replace the constant in the leaf
//     by a fresh variable.
//  4. For every pair of positions (i<j) holding the same variable, wrap the
//     root in Selection(i, column=j) and rename the later occurrence to a
//     fresh variable.
//  5. Wrap the root in Projection([p1..pn]) mapping to head term
//     positions.
//
// Order is fixed for reproducibility: constants before equalities, and
// within each, left-to-right by position (spec §4.2).
//
// Grounded on original_source/src/models/relational_algebra.rs's
// ExpressionArena/Term{Selection,Projection,Relation,Product} and on
// original_source/src/reasoning/algorithms/relational_rewriting.rs's
// constant/equality rewriting passes.
func ToAlgebra(r ast.Rule) *ast.Expr {
	e := ast.NewExpr()
	if len(r.Body) == 0 {
		return e
	}

	// Step 1/2: left-deep product of leaves, each disambiguated so the
	// leaf atom carries only distinct fresh variables; constants and
	// repeated variables are recovered via Selection nodes below. This is
	// the standard "disambiguate then select" rewrite used throughout the
	// pack's relational-algebra-flavored reasoners.
	nextVar := freshVarAllocator(r)

	var flat []bodyTerm
	offset := 0
	var root ast.NodeID
	haveRoot := false
	for _, atom := range r.Body {
		leafTerms := make([]ast.Term, len(atom.Terms))
		for i, t := range atom.Terms {
			flat = append(flat, bodyTerm{origTerm: t, col: offset + i})
			// Leaf atoms only ever carry variables; constants and
			// repeated-variable positions are pushed into selections
			// below, so every leaf position gets a fresh variable here.
			leafTerms[i] = ast.Var(nextVar())
		}
		leaf := ast.Atom{Relation: atom.Relation, Polarity: atom.Polarity, Terms: leafTerms}
		node := e.AddRelation(leaf, offset)
		if !haveRoot {
			root = node
			haveRoot = true
		} else {
			root = e.AddProduct(root, node)
		}
		offset += len(atom.Terms)
	}

	// Step 3: constants, left-to-right.
	for _, p := range flat {
		if p.origTerm.IsVar() {
			continue
		}
		root = e.WrapSelectionLiteral(root, p.col, p.origTerm.Constant())
	}

	// Step 4: repeated variables, left-to-right by (i, j) with i<j.
	firstOccurrence := make(map[ast.VarID]int)
	for _, p := range flat {
		if !p.origTerm.IsVar() {
			continue
		}
		v := p.origTerm.Variable()
		if i, ok := firstOccurrence[v]; ok {
			root = e.WrapSelectionColumn(root, i, p.col)
		} else {
			firstOccurrence[v] = p.col
		}
	}

	// Step 5: projection onto head term positions. A head variable maps to
	// a body position holding it (safety, checked at ingestion). A head
	// constant has no body column of its own: it maps to a body position
	// holding an equal constant if there is one, and to -1 otherwise, which
	// the projection cannot evaluate (evalalgebra.EvaluateRule sends rules
	// with head constants to the substitution evaluator).
	proj := make([]int, len(r.Head.Terms))
	for i, ht := range r.Head.Terms {
		proj[i] = bodyPositionFor(flat, ht)
	}
	e.WrapProjection(root, proj)

	return e
}

// bodyTerm pairs a rule body term with its flattened column position
// across the concatenated body-atom term vector (spec §4.2 step 1).
type bodyTerm struct {
	origTerm ast.Term
	col      int
}

// bodyPositionFor returns the flattened body column whose original term
// matches ht (by variable identity, or by value for a constant), or -1 if
// none does. Safety guarantees a match for head variables only.
func bodyPositionFor(flat []bodyTerm, ht ast.Term) int {
	for _, p := range flat {
		if p.origTerm.Equal(ht) {
			return p.col
		}
	}
	return -1
}

// freshVarAllocator returns a function producing variable ids guaranteed
// distinct from every variable already used in r.
func freshVarAllocator(r ast.Rule) func() ast.VarID {
	max := ast.VarID(-1)
	scan := func(a ast.Atom) {
		for _, t := range a.Terms {
			if t.IsVar() && t.Variable() > max {
				max = t.Variable()
			}
		}
	}
	scan(r.Head)
	for _, b := range r.Body {
		scan(b)
	}
	next := max + 1
	return func() ast.VarID {
		v := next
		next++
		return v
	}
}
