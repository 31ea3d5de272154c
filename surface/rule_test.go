package surface

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kevinawalsh/reasoner/internal/ast"
	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/internal/value"
)

func TestParseRuleForward(t *testing.T) {
	in := intern.NewTable()
	r, err := ParseRule(in, "reachable(?x,?z) :- edge(?x,?y), reachable(?y,?z).")
	require.NoError(t, err)

	require.Equal(t, in.Intern("reachable"), r.Head.Relation)
	require.Len(t, r.Body, 2)
	require.Equal(t, in.Intern("edge"), r.Body[0].Relation)
	require.Equal(t, ast.Positive, r.Body[0].Polarity)
	require.Equal(t, in.Intern("reachable"), r.Body[1].Relation)
}

func TestParseRuleReversedForm(t *testing.T) {
	in := intern.NewTable()
	fwd, err := ParseRule(in, "q(?x) :- p(?x), !r(?x).")
	require.NoError(t, err)

	rev, err := ParseRule(in, "[p(?x), !r(?x)] -> q(?x).")
	require.NoError(t, err)

	require.Equal(t, fwd.Head.Relation, rev.Head.Relation)
	require.Equal(t, len(fwd.Body), len(rev.Body))
	require.Equal(t, fwd.Body[1].Polarity, ast.Negative)
	require.Equal(t, rev.Body[1].Polarity, ast.Negative)
}

func TestParseRuleConstantsAndTypes(t *testing.T) {
	in := intern.NewTable()
	r, err := ParseRule(in, `T(?y, rdf:type, ?x) :- T(?a, rdfs:domain, ?x), T(?y, ?a, ?z).`)
	require.NoError(t, err)

	rdfType := r.Head.Terms[1]
	require.False(t, rdfType.IsVar())
	sym, ok := rdfType.Constant().AsSymbol()
	require.True(t, ok)
	name, ok := in.Resolve(sym)
	require.True(t, ok)
	require.Equal(t, "rdf:type", name)
}

func TestParseAtomLiteralKinds(t *testing.T) {
	in := intern.NewTable()
	r, err := ParseRule(in, `X(?a, 5, true, "hello", 2.5) :- Y(?a).`)
	require.NoError(t, err)

	terms := r.Head.Terms
	u, ok := terms[1].Constant().AsUint()
	require.True(t, ok)
	require.Equal(t, uint32(5), u)

	b, ok := terms[2].Constant().AsBool()
	require.True(t, ok)
	require.True(t, b)

	s, ok := terms[3].Constant().AsString()
	require.True(t, ok)
	require.Equal(t, "hello", s)

	f, ok := terms[4].Constant().AsFloat()
	require.True(t, ok)
	require.Equal(t, 2.5, f)
}

func TestParseProgramMultipleRules(t *testing.T) {
	in := intern.NewTable()
	src := `
		reachable(?x,?y) :- edge(?x,?y).
		reachable(?x,?z) :- reachable(?x,?y), reachable(?y,?z).
	`
	rules, err := ParseProgram(in, src)
	require.NoError(t, err)
	require.Len(t, rules, 2)
}

func TestFormatRuleRoundTrip(t *testing.T) {
	in := intern.NewTable()
	r, err := ParseRule(in, "reachable(?x,?z) :- edge(?x,?y), reachable(?y,?z).")
	require.NoError(t, err)

	names := func(s value.Symbol) string {
		n, _ := in.Resolve(s)
		return n
	}
	text := FormatRule(r, names)
	require.True(t, strings.HasPrefix(text, "reachable("))
	require.True(t, strings.HasSuffix(text, "."))

	// Re-parsing the formatted text must produce a rule with the same
	// shape (variable names are not preserved across a round trip, since
	// the AST only retains numeric var_ids, but arity, relation symbols,
	// and polarity must match exactly).
	reparsed, err := ParseRule(in, text)
	require.NoError(t, err)
	require.Equal(t, r.Head.Relation, reparsed.Head.Relation)
	require.Equal(t, len(r.Body), len(reparsed.Body))
	for i := range r.Body {
		require.Equal(t, r.Body[i].Relation, reparsed.Body[i].Relation)
		require.Equal(t, r.Body[i].Polarity, reparsed.Body[i].Polarity)
	}
}

func TestParseRuleUnsafeStillParses(t *testing.T) {
	// Parsing never checks safety; that is rewrite.Validate's job.
	in := intern.NewTable()
	r, err := ParseRule(in, "p(?x) :- q(?y).")
	require.NoError(t, err)
	require.False(t, r.Safe())
}

func TestParseRuleErrors(t *testing.T) {
	in := intern.NewTable()
	_, err := ParseRule(in, "p(?x")
	require.Error(t, err)

	_, err = ParseRule(in, "p(-5) :- q(?x).")
	require.Error(t, err)
}
