package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/surface"
)

func TestSplitPartitionsRecursiveAndNonRecursive(t *testing.T) {
	in := intern.NewTable()
	program, err := surface.ParseProgram(in, `
		reachable(?x,?y) :- edge(?x,?y).
		reachable(?x,?z) :- reachable(?x,?y), reachable(?y,?z).
	`)
	require.NoError(t, err)

	progs := Split(in, "ns1", program)
	require.Len(t, progs.NonRecursive, 1)
	// One recursive rule with 2 IDB body atoms yields 2 delta variants.
	require.Len(t, progs.Recursive, 2)
	require.Len(t, progs.Deltaify, 1)
}

func TestDeltaSymbolNamespacedPerCall(t *testing.T) {
	in := intern.NewTable()
	rel := in.Intern("reachable")

	d1 := DeltaSymbol(in, "ns-a", rel)
	d2 := DeltaSymbol(in, "ns-b", rel)
	require.NotEqual(t, d1, d2, "distinct namespaces must never collide on a delta relation")

	d1again := DeltaSymbol(in, "ns-a", rel)
	require.Equal(t, d1, d1again, "the same namespace must resolve to the same delta relation")
}

func TestDeltaVariantMovesDriverToPositionZero(t *testing.T) {
	in := intern.NewTable()
	program, err := surface.ParseProgram(in, `
		reachable(?x,?z) :- edge(?x,?y), reachable(?y,?z).
	`)
	require.NoError(t, err)

	progs := Split(in, "ns", program)
	require.Len(t, progs.Recursive, 1)
	driverRelation := progs.Recursive[0].Body[0].Relation
	require.Equal(t, DeltaSymbol(in, "ns", in.Intern("reachable")), driverRelation)
}
