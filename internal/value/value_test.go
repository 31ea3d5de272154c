package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareOrdersByKindThenPayload(t *testing.T) {
	require.Equal(t, -1, Compare(String("a"), Uint(0)))
	require.Equal(t, 0, Compare(Uint(5), Uint(5)))
	require.Equal(t, -1, Compare(Uint(4), Uint(5)))
	require.Equal(t, 1, Compare(Bool(true), Bool(false)))
}

func TestCompareFloatNaNSortsHighest(t *testing.T) {
	nan := Float(math.NaN())
	require.Equal(t, 1, Compare(nan, Float(1e300)))
	require.Equal(t, 0, Compare(nan, Float(math.NaN())))
}

func TestEqualMatchesZeroCompare(t *testing.T) {
	require.True(t, Uint(3).Equal(Uint(3)))
	require.False(t, Uint(3).Equal(Uint(4)))
	require.False(t, Uint(3).Equal(String("3")))
}

func TestAccessorsRejectWrongKind(t *testing.T) {
	v := String("hi")
	_, ok := v.AsUint()
	require.False(t, ok)
	s, ok := v.AsString()
	require.True(t, ok)
	require.Equal(t, "hi", s)
}

func TestRowTagIdentityAndCompare(t *testing.T) {
	a := Row{Uint(1), String("x")}
	b := Row{Uint(1), String("x")}
	c := Row{Uint(1), String("y")}

	require.Equal(t, a.Tag(), b.Tag())
	require.NotEqual(t, a.Tag(), c.Tag())
	require.Equal(t, -1, RowCompare(a, c))

	clone := a.Clone()
	clone[0] = Uint(99)
	require.Equal(t, Uint(1), a[0])
}

func TestRowCompareShorterSortsFirstOnSharedPrefix(t *testing.T) {
	short := Row{Uint(1)}
	long := Row{Uint(1), Uint(2)}
	require.Equal(t, -1, RowCompare(short, long))
	require.Equal(t, 1, RowCompare(long, short))
}
