package stage2_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wraythex/gmp-ecm/stage2"
)

// N = 91 = 7*13, X0 = 3: ord_7(3) = 6, ord_13(3) = 3. Factoring P = 12
// into S1 = {-4,0,4} (weight-4 Set from the prime 3) and S2 = {0,1,2,3}
// (the two weight-1/2 Sets from the factor 4) puts -4+1 = -3 in the
// achievable exponent range, a nonzero multiple of ord_13(3) = 3: stage
// 2 should recover the factor 13 (or a multiple of it, 91 itself is
// excluded as trivial).
func TestRunPMinus1FindsFactor(t *testing.T) {
	N := big.NewInt(91)
	X0 := big.NewInt(3)
	res, err := stage2.Run(context.Background(), N, X0, nil, stage2.Params{
		P:        12,
		S2Target: 4,
	})
	require.NoError(t, err)
	require.Equal(t, stage2.FoundFactor, res.Code)
	require.NotNil(t, res.Factor)
	require.NotEqual(t, int64(1), res.Factor.Int64())
	require.NotEqual(t, N.Int64(), res.Factor.Int64())
	mod := new(big.Int).Mod(N, res.Factor)
	require.Equal(t, int64(0), mod.Int64(), "factor %v must divide N", res.Factor)
}

// With S2Target == 1, Extract pulls nothing out (its loop condition
// never fires), so the single S2 round is the trivial e2 = 0; the
// only combinations actually swept are e1 + 0 for e1 in S1's sumset
// {0,1}, neither a nonzero multiple of ord_7(3)=6 or ord_13(3)=3.
func TestRunNoFactorWhenOrderNotCovered(t *testing.T) {
	N := big.NewInt(91)
	X0 := big.NewInt(3)
	res, err := stage2.Run(context.Background(), N, X0, nil, stage2.Params{
		P:        2,
		S2Target: 1,
	})
	require.NoError(t, err)
	require.Equal(t, stage2.NoFactor, res.Code)
	require.Nil(t, res.Factor)
}

func TestRunRejectsNonPositiveP(t *testing.T) {
	_, err := stage2.Run(context.Background(), big.NewInt(187), big.NewInt(2), nil, stage2.Params{P: 0})
	require.Error(t, err)
}

func TestRunPPlus1RequiresDelta(t *testing.T) {
	_, err := stage2.Run(context.Background(), big.NewInt(187), big.NewInt(2), big.NewInt(3), stage2.Params{
		P:    6,
		Mode: stage2.ModePPlus1,
	})
	require.Error(t, err)
}

func TestRunUsesWorkerPartitioning(t *testing.T) {
	N := big.NewInt(91)
	X0 := big.NewInt(3)
	res, err := stage2.Run(context.Background(), N, X0, nil, stage2.Params{
		P:        12,
		S2Target: 4,
		Workers:  4,
	})
	require.NoError(t, err)
	require.Equal(t, stage2.FoundFactor, res.Code)
}

func TestRunStatsReflectSplit(t *testing.T) {
	N := big.NewInt(1000003 * 999983)
	X0 := big.NewInt(7)
	res, err := stage2.Run(context.Background(), N, X0, nil, stage2.Params{
		P:        2 * 3 * 5 * 7,
		S2Target: 10,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2*3*5*7), res.Stats.S1Cardinality*res.Stats.S2Cardinality)
	require.Equal(t, res.Stats.Rounds, int(res.Stats.S2Cardinality))
}

func TestPartitionCoversWholeRangeWithoutOverlap(t *testing.T) {
	n := 17
	workers := 5
	seen := make([]bool, n)
	for w := 0; w < workers; w++ {
		start, count := stage2.Partition(n, w, workers)
		for i := start; i < start+count; i++ {
			require.False(t, seen[i], "index %d covered twice", i)
			seen[i] = true
		}
	}
	for i, s := range seen {
		require.True(t, s, "index %d never covered", i)
	}
}

func TestPartitionHandlesZeroAndSingleWorker(t *testing.T) {
	start, count := stage2.Partition(0, 0, 4)
	require.Equal(t, 0, count)
	require.Equal(t, 0, start)

	start, count = stage2.Partition(10, 0, 1)
	require.Equal(t, 0, start)
	require.Equal(t, 10, count)
}
