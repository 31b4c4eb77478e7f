package ntt_test

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/wraythex/gmp-ecm/ntt"
	"github.com/wraythex/gmp-ecm/spmod"
)

const testPrime = uint64(0x24ea00000001) // p-1 = 2^33 * 3^3 * 5^2 * 7, NTT-friendly for all base codelet sizes

func bruteDFT(x []uint64, m *spmod.Modulus, root uint64) []uint64 {
	n := len(x)
	out := make([]uint64, n)
	for k := 0; k < n; k++ {
		acc := uint64(0)
		for j := 0; j < n; j++ {
			w := m.Pow(root, uint64((j*k)%n))
			acc = m.Add(acc, m.Mul(x[j], w))
		}
		out[k] = acc
	}
	return out
}

func randomVector(n int) []uint64 {
	x := make([]uint64, n)
	for i := range x {
		x[i] = uint64(rand.Int63n(1 << 39)) // stays below testPrime
	}
	return x
}

func TestForwardMatchesBruteForce(t *testing.T) {
	m := spmod.NewModulus(testPrime)

	for _, L := range []int{2, 3, 4, 5, 7, 8, 9, 16, 6, 12, 15, 20, 35} {
		root, err := ntt.RootOfUnity(m, uint64(L))
		require.NoError(t, err, "L=%d", L)

		x := randomVector(L)
		want := bruteDFT(x, m, root)
		got := ntt.Forward(append([]uint64(nil), x...), m, root, L)
		require.Equal(t, want, got, "L=%d", L)
	}
}

func TestInverseRoundTrips(t *testing.T) {
	m := spmod.NewModulus(testPrime)

	for _, L := range []int{4, 9, 15, 16, 24} {
		root, err := ntt.RootOfUnity(m, uint64(L))
		require.NoError(t, err)

		x := randomVector(L)
		y := ntt.Forward(append([]uint64(nil), x...), m, root, L)
		back := ntt.Inverse(y, m, root, L)
		require.Equal(t, x, back, "L=%d", L)
	}
}

func TestUnsupportedLength(t *testing.T) {
	m := spmod.NewModulus(testPrime)
	pl := ntt.NewPlanner()
	_, err := pl.Plan(22, m) // 22 = 2*11, 11 unsupported
	require.Error(t, err)
}

func TestPlannerCachesPlan(t *testing.T) {
	m := spmod.NewModulus(testPrime)
	pl := ntt.NewPlanner()

	p1, err := pl.Plan(105, m) // 3*5*7
	require.NoError(t, err)
	p2, err := pl.Plan(105, m)
	require.NoError(t, err)
	require.Same(t, p1, p2)
}

// The group/pass decomposition a Plan records depends only on L, not
// on which modulus or Planner instance built it; two independently
// built Plans for the same L must be structurally identical even
// though they're distinct objects (require.Same-style pointer identity
// doesn't apply across Planners the way TestPlannerCachesPlan verifies
// it does within one).
func TestPlanDecompositionStableAcrossPlannersAndModuli(t *testing.T) {
	m1 := spmod.NewModulus(testPrime)
	m2 := spmod.NewModulus(0x1FFFFFFFFFFFFFFF) // distinct NTT-friendly-for-small-L prime

	p1, err := ntt.NewPlanner().Plan(105, m1) // 3*5*7
	require.NoError(t, err)
	p2, err := ntt.NewPlanner().Plan(105, m2)
	require.NoError(t, err)

	require.NotSame(t, p1, p2)
	if diff := cmp.Diff(p1, p2); diff != "" {
		t.Errorf("Plan decomposition differs across planners/moduli (-m1 +m2):\n%s", diff)
	}
}

func TestDCTIAgainstDirectDefinition(t *testing.T) {
	m := spmod.NewModulus(testPrime)
	pl := ntt.NewPlanner()

	n := 8
	x := randomVector(n + 1)
	root2n, err := ntt.RootOfUnity(m, uint64(2*n))
	require.NoError(t, err)

	got, err := ntt.DCTI(pl, m, root2n, x)
	require.NoError(t, err)

	// direct even-extension brute force, cross-checking the fold.
	y := make([]uint64, 2*n)
	copy(y[:n+1], x)
	for i := 1; i < n; i++ {
		y[2*n-i] = x[i]
	}
	want := bruteDFT(y, m, root2n)[:n+1]
	require.Equal(t, want, got)
}

func TestRunnerForwardMatchesPackageLevelForward(t *testing.T) {
	m := spmod.NewModulus(testPrime)
	pl := ntt.NewPlanner()

	root, err := ntt.RootOfUnity(m, 24)
	require.NoError(t, err)
	r, err := ntt.NewRunner(pl, m, root, 24)
	require.NoError(t, err)

	x := randomVector(24)
	want := ntt.Forward(append([]uint64(nil), x...), m, root, 24)
	got := r.Forward(x)
	require.Equal(t, want, got)
}
