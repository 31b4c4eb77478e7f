package crt_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wraythex/gmp-ecm/crt"
)

// Every odd prime satisfies p-1 = 0 mod 2, so maxNTTSize=2 accepts any
// prime list without needing genuinely NTT-sized primes.
var smallPrimes = []uint64{3, 5, 7, 11, 13, 17, 19, 23, 29, 31}

func TestBuildBasisForBoundExceedsBound(t *testing.T) {
	bound := new(big.Int).Lsh(big.NewInt(1), 30) // well within smallPrimes' ~2^37 product
	candidates := smallPrimes

	b, err := crt.BuildBasisForBound(candidates, 2, bound)
	require.NoError(t, err)
	require.Greater(t, b.Product().Cmp(bound), 0)
}

func TestBuildBasisForBoundUsesMinimalPrefix(t *testing.T) {
	// 3*5*7 = 105 > 100, so the third candidate should already suffice.
	bound := big.NewInt(100)
	b, err := crt.BuildBasisForBound([]uint64{3, 5, 7, 11, 13}, 2, bound)
	require.NoError(t, err)
	require.Equal(t, 3, len(b.Primes))
}

func TestNewBasisRejectsEmptyPrimeList(t *testing.T) {
	_, err := crt.NewBasis(nil, 2, nil)
	require.Error(t, err)
}

func TestNewBasisRejectsNonNTTFriendlyPrime(t *testing.T) {
	// 7-1 = 6, not divisible by maxNTTSize=4.
	_, err := crt.NewBasis([]uint64{7}, 4, nil)
	require.Error(t, err)
}

func TestNewBasisRejectsBoundNotExceeded(t *testing.T) {
	b, err := crt.NewBasis([]uint64{3, 5}, 2, nil)
	require.NoError(t, err)
	bound := new(big.Int).Set(b.Product())
	_, err = crt.NewBasis([]uint64{3, 5}, 2, bound)
	require.Error(t, err)
}

func TestFromIntegerToIntegerRoundTripNaive(t *testing.T) {
	b, err := crt.NewBasis(smallPrimes[:6], 2, nil)
	require.NoError(t, err)

	for _, y := range []int64{0, 1, 17, 12345, 99999} {
		want := new(big.Int).Mod(big.NewInt(y), b.Product())
		residues := b.FromInteger(want)
		got := b.ToInteger(residues)
		require.Equal(t, 0, want.Cmp(got), "y=%d: want %v got %v", y, want, got)
	}
}

func TestFromIntegerUsesProductTreeAboveThreshold(t *testing.T) {
	require.Greater(t, len(smallPrimes), crt.I0Threshold)
	b, err := crt.NewBasis(smallPrimes, 2, nil)
	require.NoError(t, err)

	y := big.NewInt(123456789)
	y.Mod(y, b.Product())

	got := b.FromInteger(y)
	for i, m := range b.Primes {
		want := new(big.Int).Mod(y, new(big.Int).SetUint64(m.P)).Uint64()
		require.Equal(t, want, got[i], "prime index %d", i)
	}

	require.Equal(t, 0, y.Cmp(b.ToInteger(got)))
}

func TestToIntegerRoundTripAboveThreshold(t *testing.T) {
	b, err := crt.NewBasis(smallPrimes, 2, nil)
	require.NoError(t, err)

	for _, y := range []int64{0, 1, 999983, 30030} {
		want := new(big.Int).Mod(big.NewInt(y), b.Product())
		residues := b.FromInteger(want)
		got := b.ToInteger(residues)
		require.Equal(t, 0, want.Cmp(got), "y=%d", y)
	}
}

func TestNormaliseReducesOutOfRangeEntries(t *testing.T) {
	b, err := crt.NewBasis([]uint64{3, 5, 7}, 2, nil)
	require.NoError(t, err)

	vectors := [][]uint64{
		{2, 5, 4}, // p=3: 5 is out of [0,3)
		{0, 6, 9}, // p=5: 6, 9 out of [0,5)
		{1, 2, 13}, // p=7: 13 out of [0,7)
	}
	b.Normalise(vectors, 0, 3)

	for pi, m := range b.Primes {
		for _, v := range vectors[pi] {
			require.Less(t, v, m.P, "prime %d entry not reduced", m.P)
		}
	}
}

func TestNormaliseHonoursOffsetAndLength(t *testing.T) {
	b, err := crt.NewBasis([]uint64{3}, 2, nil)
	require.NoError(t, err)

	vectors := [][]uint64{{1, 5, 5}}
	b.Normalise(vectors, 1, 1)

	require.Equal(t, uint64(2), vectors[0][1], "in-range entry at the targeted offset should be reduced")
	require.Equal(t, uint64(5), vectors[0][2], "entry outside [offset, offset+length) must be left untouched")
}
