package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/surface"
)

func TestOverdeletionProgramShape(t *testing.T) {
	in := intern.NewTable()
	program, err := surface.ParseProgram(in, `
		reachable(?x,?z) :- reachable(?x,?y), edge(?y,?z).
	`)
	require.NoError(t, err)

	out, relations := OverdeletionProgram(in, "ns", program)
	require.Len(t, out, 2) // one per body position

	reachable := in.Intern("reachable")
	edge := in.Intern("edge")
	overReachable := OverSymbol(in, "ns", reachable)
	overEdge := OverSymbol(in, "ns", edge)

	require.Equal(t, reachable, relations[overReachable])
	require.Equal(t, edge, relations[overEdge])

	for _, r := range out {
		require.Equal(t, overReachable, r.Head.Relation)
	}
}

func TestRederivationProgramPrependsOverSelf(t *testing.T) {
	in := intern.NewTable()
	program, err := surface.ParseProgram(in, `
		reachable(?x,?y) :- edge(?x,?y).
	`)
	require.NoError(t, err)

	out, relations := RederivationProgram(in, "ns", program)
	require.Len(t, out, 1)

	reachable := in.Intern("reachable")
	plusReachable := RederiveSymbol(in, "ns", reachable)
	require.Equal(t, reachable, relations[plusReachable])

	r := out[0]
	require.Equal(t, plusReachable, r.Head.Relation)
	require.Len(t, r.Body, 2) // over-self, then the original body
	require.Equal(t, OverSymbol(in, "ns", reachable), r.Body[0].Relation)
}
