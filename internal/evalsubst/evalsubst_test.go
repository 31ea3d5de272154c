package evalsubst

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kevinawalsh/reasoner/internal/database"
	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/internal/value"
	"github.com/kevinawalsh/reasoner/surface"
)

func TestEvaluateRuleJoin(t *testing.T) {
	in := intern.NewTable()
	db := database.New(database.IndexKindHash, nil)
	edge := in.Intern("edge")
	_ = db.Insert(edge, value.Row{value.Uint(1), value.Uint(2)})
	_ = db.Insert(edge, value.Row{value.Uint(2), value.Uint(3)})

	r, err := surface.ParseRule(in, `reachable(?x,?z) :- edge(?x,?y), edge(?y,?z).`)
	require.NoError(t, err)

	rows := EvaluateRule(db, r)
	require.Len(t, rows, 1)
	require.Equal(t, value.Row{value.Uint(1), value.Uint(3)}, rows[0])
}

func TestEvaluateRuleNegation(t *testing.T) {
	in := intern.NewTable()
	db := database.New(database.IndexKindHash, nil)
	base := in.Intern("base")
	excl := in.Intern("excluded")
	_ = db.Insert(base, value.Row{value.Uint(1)})
	_ = db.Insert(base, value.Row{value.Uint(2)})
	_ = db.Insert(excl, value.Row{value.Uint(2)})

	r, err := surface.ParseRule(in, `kept(?x) :- base(?x), !excluded(?x).`)
	require.NoError(t, err)

	rows := EvaluateRule(db, r)
	require.Len(t, rows, 1)
	require.Equal(t, value.Row{value.Uint(1)}, rows[0])
}

func TestEvaluateRuleUnknownRelationYieldsEmpty(t *testing.T) {
	in := intern.NewTable()
	db := database.New(database.IndexKindHash, nil)

	r, err := surface.ParseRule(in, `p(?x) :- neverSeen(?x).`)
	require.NoError(t, err)

	require.Empty(t, EvaluateRule(db, r))
}

func TestEvaluateRuleConstantFilter(t *testing.T) {
	in := intern.NewTable()
	db := database.New(database.IndexKindHash, nil)
	edge := in.Intern("edge")
	_ = db.Insert(edge, value.Row{value.Uint(1), value.Uint(0)})
	_ = db.Insert(edge, value.Row{value.Uint(2), value.Uint(1)})

	r, err := surface.ParseRule(in, `p(?x) :- edge(?x, 0).`)
	require.NoError(t, err)

	rows := EvaluateRule(db, r)
	require.Len(t, rows, 1)
	require.Equal(t, value.Row{value.Uint(1)}, rows[0])
}
