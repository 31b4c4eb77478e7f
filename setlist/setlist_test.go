package setlist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wraythex/gmp-ecm/setlist"
)

func TestBuildRejectsNonPositive(t *testing.T) {
	_, err := setlist.Build(0)
	require.Error(t, err)
	_, err = setlist.Build(-5)
	require.Error(t, err)
}

func TestCardinalitiesAreTwoOrOddPrime(t *testing.T) {
	isOddPrime := func(n int64) bool {
		if n < 3 || n%2 == 0 {
			return false
		}
		for d := int64(3); d*d <= n; d += 2 {
			if n%d == 0 {
				return false
			}
		}
		return true
	}

	for _, p := range []int64{1, 2, 3, 4, 6, 12, 30, 210, 2 * 3 * 3 * 5 * 7} {
		list, err := setlist.Build(p)
		require.NoError(t, err)
		for _, s := range list {
			c := int64(len(s))
			require.True(t, c == 2 || isOddPrime(c), "p=%d: bad cardinality %d", p, c)
		}
	}
}

func TestOddPrimeSetsAreCenteredOnZero(t *testing.T) {
	list, err := setlist.Build(3 * 5)
	require.NoError(t, err)
	for _, s := range list {
		if len(s)%2 == 0 {
			continue
		}
		mid := len(s) / 2
		require.Equal(t, int64(0), s[mid], "odd-cardinality set must have 0 as median: %v", s)
		for i := 0; i < mid; i++ {
			require.Equal(t, -s[i], s[len(s)-1-i], "set must be symmetric: %v", s)
		}
	}
}

func TestSumsetSizeMatchesCardinality(t *testing.T) {
	for _, p := range []int64{6, 12, 30, 105} {
		list, err := setlist.Build(p)
		require.NoError(t, err)
		sums := setlist.Sumset(list)
		require.Equal(t, list.Cardinality(), int64(len(sums)))
	}
}

func TestSumsetIsContiguousRangeFromMin(t *testing.T) {
	for _, p := range []int64{6, 12, 30, 2 * 3 * 5 * 7} {
		list, err := setlist.Build(p)
		require.NoError(t, err)
		sums := setlist.Sumset(list)
		require.Equal(t, list.Min(), sums[0])
		require.Equal(t, list.Max(), sums[len(sums)-1])
		for i := 1; i < len(sums); i++ {
			require.Equal(t, sums[i-1]+1, sums[i], "sumset must be contiguous at index %d", i)
		}
		require.Equal(t, p, int64(len(sums)))
	}
}

func TestExtractSplitsIntoS1AndS2(t *testing.T) {
	s1, err := setlist.Build(2 * 3 * 5 * 7)
	require.NoError(t, err)
	total := s1.Cardinality()

	s2 := setlist.Extract(&s1, 10)
	require.GreaterOrEqual(t, s2.Cardinality(), int64(10))
	require.Equal(t, total, s1.Cardinality()*s2.Cardinality())
}

func TestExtractAllWhenTargetExceedsTotal(t *testing.T) {
	s1, err := setlist.Build(2 * 3)
	require.NoError(t, err)
	total := s1.Cardinality()

	s2 := setlist.Extract(&s1, 1000)
	require.Equal(t, total, s2.Cardinality())
	require.Empty(t, s1)
}
