package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/surface"
)

func TestValidateAcceptsSafeStratifiedProgram(t *testing.T) {
	in := intern.NewTable()
	program, err := surface.ParseProgram(in, `
		reachable(?x,?y) :- edge(?x,?y).
		reachable(?x,?z) :- reachable(?x,?y), reachable(?y,?z).
	`)
	require.NoError(t, err)
	require.NoError(t, Validate(program))
}

func TestValidateRejectsUnsafeRule(t *testing.T) {
	in := intern.NewTable()
	program, err := surface.ParseProgram(in, `p(?x) :- q(?y).`)
	require.NoError(t, err)
	err = Validate(program)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnsafeRule)
}

func TestValidateRejectsArityMismatch(t *testing.T) {
	in := intern.NewTable()
	program, err := surface.ParseProgram(in, `
		p(?x) :- q(?x).
		p(?x, ?y) :- q(?x), r(?x, ?y).
	`)
	require.NoError(t, err)
	err = Validate(program)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrArityMismatch)
}

func TestValidateRejectsUnstratifiedNegation(t *testing.T) {
	in := intern.NewTable()
	// spec §8 S6.
	program, err := surface.ParseProgram(in, `
		p(?x) :- q(?x).
		q(?x) :- !p(?x).
	`)
	require.NoError(t, err)
	err = Validate(program)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnstratifiable)
}
