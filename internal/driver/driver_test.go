package driver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kevinawalsh/reasoner/internal/database"
	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/internal/value"
	"github.com/kevinawalsh/reasoner/surface"
)

// S1 — Transitive closure (spec §8).
func TestMaterializeTransitiveClosure(t *testing.T) {
	for _, ev := range []Evaluator{Substitution, Algebra} {
		for _, st := range []Strategy{Sequential, Parallel} {
			in := intern.NewTable()
			db := database.New(database.IndexKindHash, nil)
			edge := in.Intern("edge")
			_ = db.Insert(edge, value.Row{value.Uint(1), value.Uint(2)})
			_ = db.Insert(edge, value.Row{value.Uint(2), value.Uint(3)})
			_ = db.Insert(edge, value.Row{value.Uint(3), value.Uint(4)})

			program, err := surface.ParseProgram(in, `
				reachable(?x,?y) :- edge(?x,?y).
				reachable(?x,?z) :- reachable(?x,?y), reachable(?y,?z).
			`)
			require.NoError(t, err)

			d := New(db, in, WithEvaluator(ev), WithStrategy(st))
			_, err = d.Materialize(program)
			require.NoError(t, err)

			reachable := in.Intern("reachable")
			require.True(t, db.Contains(reachable, value.Row{value.Uint(1), value.Uint(4)}))
			require.True(t, db.Contains(reachable, value.Row{value.Uint(1), value.Uint(2)}))
			require.False(t, db.Contains(reachable, value.Row{value.Uint(4), value.Uint(1)}))
		}
	}
}

// Idempotence: materializing the same program twice must not change the
// derived set (spec §8's idempotence property).
func TestMaterializeIsIdempotent(t *testing.T) {
	in := intern.NewTable()
	db := database.New(database.IndexKindHash, nil)
	edge := in.Intern("edge")
	_ = db.Insert(edge, value.Row{value.Uint(1), value.Uint(2)})
	_ = db.Insert(edge, value.Row{value.Uint(2), value.Uint(3)})

	program, err := surface.ParseProgram(in, `
		reachable(?x,?y) :- edge(?x,?y).
		reachable(?x,?z) :- reachable(?x,?y), reachable(?y,?z).
	`)
	require.NoError(t, err)

	d := New(db, in, WithEvaluator(Algebra), WithStrategy(Sequential))
	_, err = d.Materialize(program)
	require.NoError(t, err)
	before := db.TripleCount()

	_, err = d.Materialize(program)
	require.NoError(t, err)
	require.Equal(t, before, db.TripleCount())
}

func TestUpdateDeletionRemovesDependentFacts(t *testing.T) {
	in := intern.NewTable()
	db := database.New(database.IndexKindHash, nil)
	edge := in.Intern("edge")
	_ = db.Insert(edge, value.Row{value.Uint(1), value.Uint(2)})
	_ = db.Insert(edge, value.Row{value.Uint(2), value.Uint(3)})

	program, err := surface.ParseProgram(in, `
		reachable(?x,?y) :- edge(?x,?y).
		reachable(?x,?z) :- reachable(?x,?y), reachable(?y,?z).
	`)
	require.NoError(t, err)

	d := New(db, in, WithEvaluator(Algebra), WithStrategy(Sequential))
	_, err = d.Materialize(program)
	require.NoError(t, err)

	reachable := in.Intern("reachable")
	require.True(t, db.Contains(reachable, value.Row{value.Uint(1), value.Uint(3)}))

	_, err = d.Update(program,
		map[value.Symbol][]value.Row{edge: {{value.Uint(2), value.Uint(3)}}},
		nil)
	require.NoError(t, err)

	require.False(t, db.Contains(reachable, value.Row{value.Uint(1), value.Uint(3)}))
	require.True(t, db.Contains(reachable, value.Row{value.Uint(1), value.Uint(2)}))
}

// DRed must rederive a fact whose only surviving derivation chains through
// another fact rederived within the same call: r1(1,2) has an alternate
// derivation via edge2, and r2(1,3)'s only rule references r1's bare
// relation directly, so r2(1,3) can only be rederived once r1(1,2) is
// already visible there (spec §8's DRed soundness under cascaded
// retraction).
func TestUpdateRederivesThroughCascadedDependency(t *testing.T) {
	in := intern.NewTable()
	db := database.New(database.IndexKindHash, nil)
	edge, edge2 := in.Intern("edge"), in.Intern("edge2")
	_ = db.Insert(edge, value.Row{value.Uint(1), value.Uint(2)})
	_ = db.Insert(edge, value.Row{value.Uint(2), value.Uint(3)})
	_ = db.Insert(edge2, value.Row{value.Uint(1), value.Uint(2)})

	program, err := surface.ParseProgram(in, `
		r1(?x,?y) :- edge(?x,?y).
		r1(?x,?y) :- edge2(?x,?y).
		r2(?x,?z) :- r1(?x,?y), edge(?y,?z).
	`)
	require.NoError(t, err)

	d := New(db, in, WithEvaluator(Algebra), WithStrategy(Sequential))
	_, err = d.Materialize(program)
	require.NoError(t, err)

	r1, r2 := in.Intern("r1"), in.Intern("r2")
	require.True(t, db.Contains(r1, value.Row{value.Uint(1), value.Uint(2)}))
	require.True(t, db.Contains(r2, value.Row{value.Uint(1), value.Uint(3)}))

	// Retract edge(1,2): r1(1,2) loses its primary derivation but survives
	// via edge2; r2(1,3)'s only rule depends on r1(1,2) directly, so it must
	// be rederived too, in the same DRed call.
	_, err = d.Update(program,
		map[value.Symbol][]value.Row{edge: {{value.Uint(1), value.Uint(2)}}},
		nil)
	require.NoError(t, err)

	require.True(t, db.Contains(r1, value.Row{value.Uint(1), value.Uint(2)}))
	require.True(t, db.Contains(r2, value.Row{value.Uint(1), value.Uint(3)}))
}
