package driver

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kevinawalsh/reasoner/internal/ast"
	"github.com/kevinawalsh/reasoner/internal/rewrite"
	"github.com/kevinawalsh/reasoner/internal/value"
)

// Update applies a retraction set and an addition set against program,
// deletions first then additions (spec §4.6: "An update call receives
// both; deletions are processed first, then additions").
func (d *Driver) Update(program []ast.Rule, deletions, additions map[value.Symbol][]value.Row) (map[value.Symbol][]value.Row, error) {
	if totalRows(deletions) > 0 {
		d.dred(program, deletions)
	}
	if totalRows(additions) == 0 {
		return nil, nil
	}
	for rel, rows := range additions {
		for _, row := range rows {
			_ = d.db.Insert(rel, row)
		}
	}
	// Monotonicity guarantees re-running semi-naive evaluation over the
	// already-materialized Database extends OUT rather than re-deriving it
	// from scratch (spec §4.6: "insert into EDB, then re-run full
	// semi-naive").
	return d.Materialize(program)
}

// dred implements spec §4.6's Delete-and-Rederive algorithm for a
// retraction set over EDB relations.
func (d *Driver) dred(program []ast.Rule, deletions map[value.Symbol][]value.Row) {
	d.ns = "dred-" + uuid.New().String()
	overProg, overOf := rewrite.OverdeletionProgram(d.in, d.ns, program)
	rederiveProg, plusOf := rewrite.RederivationProgram(d.in, d.ns, program)

	// Step 1: physically remove the retracted EDB rows, and seed their
	// overdeletion relations so rule bodies referencing "-EDB" see them.
	for rel, rows := range deletions {
		over := rewrite.OverSymbol(d.in, d.ns, rel)
		for _, row := range rows {
			d.db.Delete(rel, row)
			_ = d.db.Insert(over, row)
		}
	}

	overNew := d.fixpoint(overProg)
	for overSym, rows := range overNew {
		orig, ok := overOf[overSym]
		if !ok {
			continue
		}
		for _, row := range rows {
			d.db.Delete(orig, row)
		}
	}

	// Step 2: find overdeleted facts with a surviving alternative
	// derivation and re-insert them.
	rederiveNew := d.rederiveFixpoint(rederiveProg, plusOf)

	// Step 3: cleanup scratch relations.
	for over := range overOf {
		d.db.DropRelation(over)
	}
	for plus := range plusOf {
		d.db.DropRelation(plus)
	}

	d.log.Debug("dred complete",
		zap.Int("overdeleted_relations", len(overNew)),
		zap.Int("rederived_relations", len(rederiveNew)))
}

// fixpoint repeatedly runs apply_rules over program against the Driver's
// Database, inserting new rows as they're found, until a pass produces
// nothing new. Unlike Materialize's semi-naive loop this re-evaluates the
// whole program every pass rather than driving it off a delta seed: DRed's
// scratch programs are run rarely (only on retraction), so the simpler,
// unoptimized fixpoint is an acceptable trade against the complexity of
// deltaifying a second pair of programs.
func (d *Driver) fixpoint(program []ast.Rule) map[value.Symbol][]value.Row {
	total := make(map[value.Symbol][]value.Row)
	for {
		step := d.applyRules(program)
		fresh := d.filterNew(step)
		if totalRows(fresh) == 0 {
			return total
		}
		d.insertAll(fresh)
		mergeInto(total, fresh)
	}
}

// rederiveFixpoint drives RederivationProgram's "+H :- -H, B1,...,Bn" rules
// to a fixpoint like fixpoint above, but a rederivation rule's body atoms
// reference the original bare relations directly, not their "+R" scratch
// counterpart (see rewrite.RederivationProgram). So a fact rederived in one
// pass must be written back into its own original relation (via plusOf)
// before the next pass runs, or a later rule whose body chains through that
// fact — cascaded rederivation within a single DRed call — would never see
// it and the rederivation would wrongly stop short (spec §8's DRed
// soundness/preservation). Writing into the "+R" scratch relation too keeps
// filterNew's dedup and the returned per-relation report working exactly
// as fixpoint's callers expect.
func (d *Driver) rederiveFixpoint(program []ast.Rule, plusOf map[value.Symbol]value.Symbol) map[value.Symbol][]value.Row {
	total := make(map[value.Symbol][]value.Row)
	for {
		step := d.applyRules(program)
		fresh := d.filterNew(step)
		if totalRows(fresh) == 0 {
			return total
		}
		d.insertAll(fresh)
		for plusSym, rows := range fresh {
			orig, ok := plusOf[plusSym]
			if !ok {
				continue
			}
			for _, row := range rows {
				_ = d.db.Insert(orig, row)
			}
		}
		mergeInto(total, fresh)
	}
}
