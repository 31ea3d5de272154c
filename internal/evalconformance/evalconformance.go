// Package evalconformance is the supplemented evaluator-equivalence property
// test (SPEC_FULL.md §10): a randomized, fixed-seed fan of small
// programs/EDBs through both the Substitution Evaluator (C6) and the
// Algebraic Evaluator (C7), asserting they always agree on the rows a
// single apply_rules pass derives.
//
// Grounded on original_source/src/lib.rs's test_pathological_case, which
// compares the ChibiDatalog (substitution-flavored) and RelationalDatalog
// (relational-algebra-flavored) reasoners on one fixed rederivation program;
// this generalizes that single fixed comparison into a randomized property
// test over many small generated programs, per spec §8's "Evaluator
// equivalence: C6 and C7 agree on every derived row set for any input
// program/EDB".
package evalconformance

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/kevinawalsh/reasoner/internal/ast"
	"github.com/kevinawalsh/reasoner/internal/database"
	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/internal/value"
)

// Seed is the fixed seed every property run uses, so failures are
// reproducible across CI runs (spec's "fixed seed, deterministic").
const Seed = 20260729

// domain bounds the random uint values facts are drawn from; kept small so
// joins and selections actually exercise shared values instead of
// degenerating to the empty relation almost always.
const domain = 4

// base0 and base1 are the two arity-2 EDB relations every generated program
// draws its body atoms from.
const (
	base0 = "base0"
	base1 = "base1"
)

// GenerateCase builds one random (program, populated Database) pair: 1-3
// all-positive, safe rules of head arity 1 or 2 over base0/base1, and a Database
// seeded with random rows for both. Programs are deliberately restricted to
// all-positive bodies, since the algebraic evaluator has no Product/Join
// representation for negation and transparently defers those rules to the
// substitution evaluator (see internal/evalalgebra's package doc) — which
// would make a negated-rule comparison trivially self-consistent rather than
// a genuine check of the two back-ends' independent algorithms.
func GenerateCase(rng *rand.Rand, in intern.Interner) ([]ast.Rule, *database.Database) {
	db := database.New(database.IndexKindHash, nil)
	sym0, sym1 := in.Intern(base0), in.Intern(base1)
	for i := 0; i < domain; i++ {
		for j := 0; j < domain; j++ {
			if rng.Intn(3) == 0 {
				_ = db.Insert(sym0, value.Row{value.Uint(uint32(i)), value.Uint(uint32(j))})
			}
			if rng.Intn(3) == 0 {
				_ = db.Insert(sym1, value.Row{value.Uint(uint32(i)), value.Uint(uint32(j))})
			}
		}
	}

	n := 1 + rng.Intn(3)
	program := make([]ast.Rule, 0, n)
	for i := 0; i < n; i++ {
		program = append(program, genRule(rng, in, i))
	}
	return program, db
}

// genRule builds one random all-positive, safe rule named "rN": a
// single-atom projection, a join of base0 and base1 on a shared variable,
// an equi-selection (repeated variable), or an arity-1 rule selecting on a
// constant column.
func genRule(rng *rand.Rand, in intern.Interner, i int) ast.Rule {
	head := in.Intern(fmt.Sprintf("r%d", i))
	x, y, z := ast.VarID(0), ast.VarID(1), ast.VarID(2)

	b0 := ast.NewAtom(in.Intern(base0), ast.Var(x), ast.Var(y))
	b1 := ast.NewAtom(in.Intern(base1), ast.Var(y), ast.Var(z))

	switch rng.Intn(4) {
	case 0:
		// Single-atom projection: r(?x,?y) :- base0(?x,?y).
		return ast.NewRule(ast.NewAtom(head, ast.Var(x), ast.Var(y)), b0)
	case 1:
		// Join: r(?x,?z) :- base0(?x,?y), base1(?y,?z).
		return ast.NewRule(ast.NewAtom(head, ast.Var(x), ast.Var(z)), b0, b1)
	case 2:
		// Equi-selection: r(?x,?y) :- base0(?x,?y), base1(?y,?y).
		selfJoin := ast.NewAtom(in.Intern(base1), ast.Var(y), ast.Var(y))
		return ast.NewRule(ast.NewAtom(head, ast.Var(x), ast.Var(y)), b0, selfJoin)
	default:
		// Constant selection: r(?x) :- base0(?x, 0).
		constAtom := ast.NewAtom(in.Intern(base0), ast.Var(x), ast.Const(value.Uint(0)))
		return ast.NewRule(ast.NewAtom(head, ast.Var(x)), constAtom)
	}
}

// Canon renders a derived-row map into a stable, order-independent string
// form suitable for direct comparison between the two evaluators' outputs.
func Canon(rows map[value.Symbol][]value.Row) map[value.Symbol][]string {
	out := make(map[value.Symbol][]string, len(rows))
	for rel, rs := range rows {
		tags := make([]string, len(rs))
		for i, r := range rs {
			tags[i] = r.Tag()
		}
		sort.Strings(tags)
		out[rel] = tags
	}
	return out
}
