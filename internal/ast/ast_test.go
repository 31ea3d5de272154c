package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kevinawalsh/reasoner/internal/value"
)

func TestRuleSafeRequiresHeadVarsBoundPositively(t *testing.T) {
	safe := NewRule(
		NewAtom(1, Var(0), Var(1)),
		NewAtom(2, Var(0), Var(1)),
	)
	require.True(t, safe.Safe())

	unsafe := NewRule(
		NewAtom(1, Var(0), Var(1)),
		NewAtom(2, Var(0)),
	)
	require.False(t, unsafe.Safe())

	// A head variable bound only by a negated atom is still unsafe.
	negOnly := NewRule(
		NewAtom(1, Var(0)),
		NewAtom(2, Var(0)).Negated(),
	)
	require.False(t, negOnly.Safe())
}

func TestAtomVarsDeduplicatesInOrderOfFirstOccurrence(t *testing.T) {
	a := NewAtom(1, Var(2), Var(0), Var(2), Var(1))
	require.Equal(t, []VarID{2, 0, 1}, a.Vars(nil))
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	r := NewRule(NewAtom(1, Var(0)), NewAtom(2, Var(0)))
	c := r.Clone()
	c.Body[0].Terms[0] = Const(value.Uint(5))

	require.True(t, r.Body[0].Terms[0].IsVar())
}

func TestTermEqual(t *testing.T) {
	require.True(t, Var(1).Equal(Var(1)))
	require.False(t, Var(1).Equal(Var(2)))
	require.True(t, Const(value.Uint(3)).Equal(Const(value.Uint(3))))
	require.False(t, Const(value.Uint(3)).Equal(Var(0)))
}

func TestRuleStringWithoutNamesFallsBackToRelIndex(t *testing.T) {
	r := NewRule(NewAtom(1, Var(0)), NewAtom(2, Var(0)).Negated())
	s := r.String(nil)
	require.Contains(t, s, "rel1")
	require.Contains(t, s, "!rel2")
}
