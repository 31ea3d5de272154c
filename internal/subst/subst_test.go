package subst

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kevinawalsh/reasoner/internal/ast"
	"github.com/kevinawalsh/reasoner/internal/value"
)

func TestExtendLookupOrdersByVarID(t *testing.T) {
	s := Empty()
	s = s.Extend(3, value.Uint(30))
	s = s.Extend(1, value.Uint(10))
	s = s.Extend(2, value.Uint(20))

	require.Equal(t, []ast.VarID{1, 2, 3}, s.Vars())

	v, ok := s.Lookup(2)
	require.True(t, ok)
	require.Equal(t, value.Uint(20), v)

	_, ok = s.Lookup(9)
	require.False(t, ok)
}

func TestExtendPanicsOnConflictingRebinding(t *testing.T) {
	s := Empty().Extend(1, value.Uint(1))
	require.Panics(t, func() { s.Extend(1, value.Uint(2)) })
}

func TestTryExtendAcceptsEqualRebinding(t *testing.T) {
	s := Empty().Extend(1, value.Uint(1))
	s2, ok := s.TryExtend(1, value.Uint(1))
	require.True(t, ok)
	require.Equal(t, s, s2)

	_, ok = s.TryExtend(1, value.Uint(2))
	require.False(t, ok)
}

func TestMergeSucceedsOnlyOnAgreement(t *testing.T) {
	a := Empty().Extend(1, value.Uint(1)).Extend(2, value.Uint(2))
	b := Empty().Extend(2, value.Uint(2)).Extend(3, value.Uint(3))

	merged, ok := Merge(a, b)
	require.True(t, ok)
	require.Equal(t, 3, merged.Len())

	c := Empty().Extend(2, value.Uint(99))
	_, ok = Merge(a, c)
	require.False(t, ok)
}

func TestApplyAtomRewritesBoundVarsOnly(t *testing.T) {
	s := Empty().Extend(0, value.Uint(7))
	a := ast.NewAtom(5, ast.Var(0), ast.Var(1))

	out := ApplyAtom(s, a)
	require.False(t, out.Terms[0].IsVar())
	require.Equal(t, value.Uint(7), out.Terms[0].Constant())
	require.True(t, out.Terms[1].IsVar())
}

func TestIsGroundAndGroundRow(t *testing.T) {
	ground := ast.NewAtom(1, ast.Const(value.Uint(1)), ast.Const(value.Uint(2)))
	require.True(t, IsGround(ground))
	require.Equal(t, value.Row{value.Uint(1), value.Uint(2)}, GroundRow(ground))

	notGround := ast.NewAtom(1, ast.Var(0))
	require.False(t, IsGround(notGround))
}
