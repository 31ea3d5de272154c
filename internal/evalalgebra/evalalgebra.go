// Package evalalgebra implements the Algebraic Evaluator (spec §4.4, C7):
// evaluates a relational-algebra expression tree (internal/ast's arena)
// against the Database, using an indexed sort-merge join wherever an
// equi-selection directly atop a Product can be pushed down to a pair of
// indexable leaves, and falling back to a correct but unindexed
// evaluate-then-filter otherwise.
//
// Grounded on original_source/src/implementations/join.rs's
// generic_join_for_each (the merge-advance-the-smaller-key algorithm) and
// original_source/src/models/relational_algebra.rs's operator semantics.
// Rules containing a negative body atom are outside the relational-algebra
// subset described in spec §4.2 (negation has no Product/Join
// representation there), so EvaluateProgram defers those rules to the
// substitution evaluator (C6) -- see DESIGN.md's "Open-question decisions".
package evalalgebra

import (
	"sort"

	"github.com/kevinawalsh/reasoner/internal/ast"
	"github.com/kevinawalsh/reasoner/internal/database"
	"github.com/kevinawalsh/reasoner/internal/evalsubst"
	"github.com/kevinawalsh/reasoner/internal/rewrite"
	"github.com/kevinawalsh/reasoner/internal/value"
)

// EvaluateProgram evaluates every rule of program against db, grouping
// results by head relation, the same contract evalsubst.EvaluateProgram
// exposes (spec §4.5's apply_rules). Rules with a negated body atom are
// evaluated via the substitution evaluator instead.
func EvaluateProgram(db *database.Database, program []ast.Rule) map[value.Symbol][]value.Row {
	out := make(map[value.Symbol][]value.Row)
	for _, r := range program {
		var rows []value.Row
		if HasNegation(r) {
			rows = evalsubst.EvaluateRule(db, r)
		} else {
			rows = EvaluateRule(db, r)
		}
		if len(rows) == 0 {
			continue
		}
		out[r.Head.Relation] = append(out[r.Head.Relation], rows...)
	}
	return out
}

// HasNegation reports whether r's body contains a negated atom, the
// boundary this package (and its callers) use to decide whether a rule can
// take the relational-algebra path at all (see package doc).
func HasNegation(r ast.Rule) bool {
	for _, b := range r.Body {
		if b.Polarity == ast.Negative {
			return true
		}
	}
	return false
}

// EvaluateRule compiles r to relational algebra and evaluates it against
// db. r must have an all-positive body (see package doc). A Projection can
// only copy body columns, so a rule with a constant in its head is
// evaluated by the substitution evaluator instead.
func EvaluateRule(db *database.Database, r ast.Rule) []value.Row {
	for _, t := range r.Head.Terms {
		if !t.IsVar() {
			return evalsubst.EvaluateRule(db, r)
		}
	}
	expr := rewrite.ToAlgebra(r)
	root, ok := expr.Root()
	if !ok {
		return nil
	}
	return Evaluate(db, expr, root)
}

// Evaluate recursively evaluates the subtree rooted at id against db,
// dispatching on each operator's contract (spec §4.4).
func Evaluate(db *database.Database, e *ast.Expr, id ast.NodeID) []value.Row {
	n := e.Node(id)
	switch n.Kind {
	case ast.NodeRelation:
		return db.Scan(n.RelAtom.Relation)

	case ast.NodeProduct:
		left, _, right, _ := e.Children(id)
		L := Evaluate(db, e, left)
		R := Evaluate(db, e, right)
		out := make([]value.Row, 0, len(L)*len(R))
		for _, l := range L {
			for _, r := range R {
				out = append(out, concatRows(l, r))
			}
		}
		return out

	case ast.NodeSelection:
		left, _, _, _ := e.Children(id)
		if n.SelIsColumn {
			if rows, ok := tryJoinPushdown(db, e, left, n.SelCol, n.SelTargetCol); ok {
				return rows
			}
			rows := Evaluate(db, e, left)
			out := rows[:0:0]
			for _, row := range rows {
				if row[n.SelCol].Equal(row[n.SelTargetCol]) {
					out = append(out, row)
				}
			}
			return out
		}
		rows := Evaluate(db, e, left)
		out := rows[:0:0]
		for _, row := range rows {
			if row[n.SelCol].Equal(n.SelLiteral) {
				out = append(out, row)
			}
		}
		return out

	case ast.NodeProjection:
		left, _, _, _ := e.Children(id)
		rows := Evaluate(db, e, left)
		seen := make(map[string]bool, len(rows))
		out := make([]value.Row, 0, len(rows))
		for _, row := range rows {
			proj := make(value.Row, len(n.ProjCols))
			for i, c := range n.ProjCols {
				proj[i] = row[c]
			}
			tag := proj.Tag()
			if !seen[tag] {
				seen[tag] = true
				out = append(out, proj)
			}
		}
		return out

	case ast.NodeJoin:
		left, _, right, _ := e.Children(id)
		return sortMergeJoinNodes(db, e, left, right, n.JoinLeftCol, n.JoinRightCol)

	default:
		return nil
	}
}

// tryJoinPushdown recognizes a Product(L,R) directly beneath an
// equi-selection whose two columns split across L and R, and evaluates it
// as an indexed sort-merge join instead of building the full product first
// (spec §4.4's Join contract).
func tryJoinPushdown(db *database.Database, e *ast.Expr, prodID ast.NodeID, col, targetCol int) ([]value.Row, bool) {
	n := e.Node(prodID)
	if n.Kind != ast.NodeProduct {
		return nil, false
	}
	left, _, right, _ := e.Children(prodID)
	llo, lhi := columnRange(e, left)
	rlo, rhi := columnRange(e, right)

	var colL, colR int
	switch {
	case col >= llo && col < lhi && targetCol >= rlo && targetCol < rhi:
		colL, colR = col-llo, targetCol-rlo
	case targetCol >= llo && targetCol < lhi && col >= rlo && col < rhi:
		colL, colR = targetCol-llo, col-rlo
	default:
		return nil, false
	}
	return sortMergeJoinNodes(db, e, left, right, colL, colR), true
}

// sortMergeJoinNodes joins the rows of left and right on (colL, colR). When
// both sides are bare relation leaves, the Database's own column index is
// activated (built on demand, per spec §4.4) and walked in order; otherwise
// the sides are evaluated fully and sorted in memory, which remains
// correct, just unindexed.
func sortMergeJoinNodes(db *database.Database, e *ast.Expr, leftID, rightID ast.NodeID, colL, colR int) []value.Row {
	var L, R []value.Row
	if rel, ok := asRelationLeaf(e, leftID); ok {
		_ = db.ActivateIndex(rel, colL)
		L = db.OrderedEntries(rel, colL)
	} else {
		L = Evaluate(db, e, leftID)
		sortRowsByCol(L, colL)
	}
	if rel, ok := asRelationLeaf(e, rightID); ok {
		_ = db.ActivateIndex(rel, colR)
		R = db.OrderedEntries(rel, colR)
	} else {
		R = Evaluate(db, e, rightID)
		sortRowsByCol(R, colR)
	}
	return mergeJoinRows(L, R, colL, colR)
}

func asRelationLeaf(e *ast.Expr, id ast.NodeID) (value.Symbol, bool) {
	n := e.Node(id)
	if n.Kind == ast.NodeRelation {
		return n.RelAtom.Relation, true
	}
	return 0, false
}

// mergeJoinRows implements spec §4.4's Join(L,R,colL,colR): advance the
// side with the smaller current key; on equality, materialize the
// Cartesian product of the equal-key runs; advance both.
func mergeJoinRows(L, R []value.Row, colL, colR int) []value.Row {
	var out []value.Row
	i, j := 0, 0
	for i < len(L) && j < len(R) {
		c := value.Compare(L[i][colL], R[j][colR])
		switch {
		case c < 0:
			i++
		case c > 0:
			j++
		default:
			iEnd := i
			for iEnd < len(L) && value.Compare(L[iEnd][colL], L[i][colL]) == 0 {
				iEnd++
			}
			jEnd := j
			for jEnd < len(R) && value.Compare(R[jEnd][colR], R[j][colR]) == 0 {
				jEnd++
			}
			for li := i; li < iEnd; li++ {
				for lj := j; lj < jEnd; lj++ {
					out = append(out, concatRows(L[li], R[lj]))
				}
			}
			i, j = iEnd, jEnd
		}
	}
	return out
}

func sortRowsByCol(rows []value.Row, col int) {
	sort.Slice(rows, func(i, j int) bool {
		return value.Compare(rows[i][col], rows[j][col]) < 0
	})
}

// columnRange returns the [lo, hi) output-column range node id occupies
// within its enclosing left-deep product chain (spec §4.2 step 2's column
// offsets).
func columnRange(e *ast.Expr, id ast.NodeID) (lo, hi int) {
	n := e.Node(id)
	switch n.Kind {
	case ast.NodeRelation:
		return n.ColumnOffset, n.ColumnOffset + len(n.RelAtom.Terms)
	case ast.NodeProduct, ast.NodeJoin:
		left, _, right, _ := e.Children(id)
		llo, _ := columnRange(e, left)
		_, rhi := columnRange(e, right)
		return llo, rhi
	default:
		left, ok, _, _ := e.Children(id)
		if !ok {
			return 0, 0
		}
		return columnRange(e, left)
	}
}

func concatRows(l, r value.Row) value.Row {
	out := make(value.Row, 0, len(l)+len(r))
	out = append(out, l...)
	out = append(out, r...)
	return out
}
