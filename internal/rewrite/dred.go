package rewrite

import (
	"github.com/kevinawalsh/reasoner/internal/ast"
	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/internal/value"
)

// OverTag and RederiveTag are the fixed parts of the DRed scratch relation
// names (spec §4.6): "-R" tracks facts that have lost at least one
// derivation, "+R" tracks overdeleted facts found to still have an
// alternative one. As with DeltaTag, the variable part is a per-call
// namespace token (spec §9's prefix-collision-avoidance note).
const (
	OverTag     = "over"
	RederiveTag = "rederive"
)

// OverSymbol returns (interning on first use) the overdeletion relation for
// rel within namespace ns.
func OverSymbol(in intern.Interner, ns string, rel value.Symbol) value.Symbol {
	name, _ := in.Resolve(rel)
	return in.Intern("\x00" + ns + "\x00" + OverTag + "\x00" + name)
}

// RederiveSymbol returns (interning on first use) the rederivation relation
// for rel within namespace ns.
func RederiveSymbol(in intern.Interner, ns string, rel value.Symbol) value.Symbol {
	name, _ := in.Resolve(rel)
	return in.Intern("\x00" + ns + "\x00" + RederiveTag + "\x00" + name)
}

// OverdeletionProgram builds spec §4.6 step 1's program: for each rule
// `H :- B1,...,Bn` and each position i, a rule `-H :- B1,...,-Bi,...,Bn`.
// relations reports, for every original relation the program produced a
// "-R" counterpart for, the mapping back to the original symbol (the
// driver needs it to know which base relation to physically delete from
// once an overdeletion fact is confirmed).
func OverdeletionProgram(in intern.Interner, ns string, program []ast.Rule) (out []ast.Rule, relations map[value.Symbol]value.Symbol) {
	relations = make(map[value.Symbol]value.Symbol)
	for _, r := range program {
		overHead := OverSymbol(in, ns, r.Head.Relation)
		relations[overHead] = r.Head.Relation
		for i := range r.Body {
			body := make([]ast.Atom, len(r.Body))
			copy(body, r.Body)
			over := body[i]
			over.Relation = OverSymbol(in, ns, over.Relation)
			relations[over.Relation] = r.Body[i].Relation
			body[i] = over

			head := r.Head
			head.Relation = overHead
			out = append(out, ast.Rule{Head: head, Body: body})
		}
	}
	return out, relations
}

// RederivationProgram builds spec §4.6 step 2's program: for each rule
// `H :- B1,...,Bn`, a rule `+H :- -H, B1,...,Bn`. relations maps each "+R"
// symbol back to R. ns must match the namespace passed to
// OverdeletionProgram for the same incremental-update call, since the
// rederivation rules reference the overdeletion relations it produced.
func RederivationProgram(in intern.Interner, ns string, program []ast.Rule) (out []ast.Rule, relations map[value.Symbol]value.Symbol) {
	relations = make(map[value.Symbol]value.Symbol)
	for _, r := range program {
		plusHead := RederiveSymbol(in, ns, r.Head.Relation)
		relations[plusHead] = r.Head.Relation

		overSelf := ast.Atom{Relation: OverSymbol(in, ns, r.Head.Relation), Polarity: ast.Positive, Terms: r.Head.Terms}
		body := append([]ast.Atom{overSelf}, r.Body...)

		head := r.Head
		head.Relation = plusHead
		out = append(out, ast.Rule{Head: head, Body: body})
	}
	return out, relations
}
