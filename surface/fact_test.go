package surface

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kevinawalsh/reasoner/internal/intern"
)

func TestParseFactLineRoundTrip(t *testing.T) {
	in := intern.NewTable()
	row, err := ParseFactLine(in, "alice rdf:type Person")
	require.NoError(t, err)
	require.Len(t, row, 3)

	text, err := FormatFactLine(in, row)
	require.NoError(t, err)
	require.Equal(t, "alice rdf:type Person", text)
}

func TestParseFactLineWrongArity(t *testing.T) {
	in := intern.NewTable()
	_, err := ParseFactLine(in, "alice rdf:type")
	require.Error(t, err)
}

func TestScanFactsSkipsBlankAndComment(t *testing.T) {
	in := intern.NewTable()
	src := "alice rdf:type Person\n\n# a comment\nbob rdf:type Person\n"
	rows, err := ScanFacts(in, strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestScanFactsReportsLineNumber(t *testing.T) {
	in := intern.NewTable()
	src := "alice rdf:type Person\nbad line here extra\n"
	_, err := ScanFacts(in, strings.NewReader(src))
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 2")
}
