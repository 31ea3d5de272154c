package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kevinawalsh/reasoner/internal/ast"
	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/surface"
)

func TestToAlgebraProjectsHeadColumns(t *testing.T) {
	in := intern.NewTable()
	r, err := surface.ParseRule(in, `reachable(?x,?z) :- edge(?x,?y), edge(?y,?z).`)
	require.NoError(t, err)

	e := ToAlgebra(r)
	root, ok := e.Root()
	require.True(t, ok)
	require.Equal(t, ast.NodeProjection, e.Node(root).Kind)
}

func TestToAlgebraWrapsConstantSelection(t *testing.T) {
	in := intern.NewTable()
	r, err := surface.ParseRule(in, `p(?x) :- edge(?x, 0).`)
	require.NoError(t, err)

	e := ToAlgebra(r)
	root, ok := e.Root()
	require.True(t, ok)
	// Projection wraps a Selection(col=1, literal=0) wraps the relation leaf.
	require.Equal(t, ast.NodeProjection, e.Node(root).Kind)
	left, _, _, _ := e.Children(root)
	require.Equal(t, ast.NodeSelection, e.Node(left).Kind)
	require.False(t, e.Node(left).SelIsColumn)
}

func TestToAlgebraWrapsEquiSelectionForRepeatedVariable(t *testing.T) {
	in := intern.NewTable()
	r, err := surface.ParseRule(in, `p(?x) :- edge(?x, ?x).`)
	require.NoError(t, err)

	e := ToAlgebra(r)
	root, _ := e.Root()
	left, _, _, _ := e.Children(root)
	require.Equal(t, ast.NodeSelection, e.Node(left).Kind)
	require.True(t, e.Node(left).SelIsColumn)
}

func TestToAlgebraEmptyBodyYieldsEmptyExpr(t *testing.T) {
	r := ast.NewRule(ast.NewAtom(1))
	e := ToAlgebra(r)
	_, ok := e.Root()
	require.False(t, ok)
}
