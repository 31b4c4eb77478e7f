package ecpoint_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wraythex/gmp-ecm/bigmod"
	"github.com/wraythex/gmp-ecm/ecpoint"
)

const testCurvePrime = int64(97)

// findCurvePoint brute-force-scans a small field for a curve
// y^2 = x^3+A*x+B and a point on it, for use as test fixtures.
func findCurvePoint(t *testing.T, ctx *bigmod.Context, a, b int64) (*ecpoint.Curve, *ecpoint.Point) {
	t.Helper()
	p := testCurvePrime
	for x := int64(0); x < p; x++ {
		rhs := (x*x%p*x%p + a*x%p + b) % p
		for y := int64(0); y < p; y++ {
			if y*y%p == rhs {
				curve := &ecpoint.Curve{A: residueOf(ctx, a), B: residueOf(ctx, b)}
				pt := &ecpoint.Point{X: residueOf(ctx, x), Y: residueOf(ctx, y)}
				return curve, pt
			}
		}
	}
	t.Fatalf("no point found on curve A=%d B=%d mod %d", a, b, p)
	return nil, nil
}

func residueOf(ctx *bigmod.Context, v int64) *bigmod.Residue {
	r := bigmod.NewResidue()
	ctx.SetInt(r, big.NewInt(v))
	return r
}

func pointInt(ctx *bigmod.Context, p *ecpoint.Point) (int64, int64, bool) {
	if p == nil {
		return 0, 0, false
	}
	return ctx.Int(p.X).Int64(), ctx.Int(p.Y).Int64(), true
}

// scalarMulReference computes k*S via plain double-and-add, each step
// using the single-inversion Add/Double from point.go, as an
// independent check on the batched Mul/AddWnm paths.
func scalarMulReference(t *testing.T, ctx *bigmod.Context, curve *ecpoint.Curve, s *ecpoint.Point, k int64) *ecpoint.Point {
	t.Helper()
	var acc *ecpoint.Point
	kb := big.NewInt(k)
	for bit := kb.BitLen() - 1; bit >= 0; bit-- {
		if acc != nil {
			var err error
			acc, err = ecpoint.Double(ctx, curve, acc)
			require.NoError(t, err)
		}
		if kb.Bit(bit) == 1 {
			if acc == nil {
				acc = s
			} else {
				var err error
				acc, err = ecpoint.Add(ctx, curve, acc, s)
				require.NoError(t, err)
			}
		}
	}
	return acc
}

func newCtx(t *testing.T) *bigmod.Context {
	t.Helper()
	ctx, err := bigmod.NewContext(big.NewInt(testCurvePrime))
	require.NoError(t, err)
	return ctx
}

func TestBatchInvertMatchesIndividualInverts(t *testing.T) {
	ctx := newCtx(t)
	xs := []*bigmod.Residue{residueOf(ctx, 3), residueOf(ctx, 5), residueOf(ctx, 11), residueOf(ctx, 41)}

	got, err := ecpoint.BatchInvert(ctx, xs)
	require.NoError(t, err)

	for i, x := range xs {
		want := bigmod.NewResidue()
		require.NoError(t, ctx.Invert(want, x))
		require.Equal(t, ctx.Int(want), ctx.Int(got[i]), "index %d", i)
	}
}

func TestAddDoubleConsistentWithBruteForce(t *testing.T) {
	ctx := newCtx(t)
	curve, s := findCurvePoint(t, ctx, 2, 3)

	two, err := ecpoint.Double(ctx, curve, s)
	require.NoError(t, err)
	three, err := ecpoint.Add(ctx, curve, two, s)
	require.NoError(t, err)
	threeRef := scalarMulReference(t, ctx, curve, s, 3)

	x1, y1, ok1 := pointInt(ctx, three)
	x2, y2, ok2 := pointInt(ctx, threeRef)
	require.True(t, ok1)
	require.True(t, ok2)
	require.Equal(t, x2, x1)
	require.Equal(t, y2, y1)
}

func TestMulMatchesScalarReferenceForEachScalar(t *testing.T) {
	ctx := newCtx(t)
	curve, s := findCurvePoint(t, ctx, 2, 3)

	scalars := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(5), big.NewInt(13), big.NewInt(0), big.NewInt(20)}
	got, err := ecpoint.Mul(ctx, curve, s, scalars)
	require.NoError(t, err)

	for i, k := range scalars {
		want := scalarMulReference(t, ctx, curve, s, k.Int64())
		wx, wy, wok := pointInt(ctx, want)
		gx, gy, gok := pointInt(ctx, got[i])
		require.Equal(t, wok, gok, "scalar=%d", k)
		if wok {
			require.Equal(t, wx, gx, "scalar=%d X", k)
			require.Equal(t, wy, gy, "scalar=%d Y", k)
		}
	}
}

func TestAddWnmMatchesSequentialAdd(t *testing.T) {
	ctx := newCtx(t)
	curve, s := findCurvePoint(t, ctx, 2, 3)

	two, err := ecpoint.Double(ctx, curve, s)
	require.NoError(t, err)
	three, err := ecpoint.Add(ctx, curve, two, s)
	require.NoError(t, err)

	bases := []*ecpoint.Point{s, two}
	diffs := []*ecpoint.Point{s, three}

	const n = 4
	out, err := ecpoint.AddWnm(ctx, curve, bases, diffs, n)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Len(t, out[0], n)
	require.Len(t, out[1], n)

	for j, base := range bases {
		cur := base
		for t2 := 0; t2 < n; t2++ {
			var err error
			cur, err = ecpoint.Add(ctx, curve, cur, diffs[j])
			require.NoError(t, err)
			wx, wy, wok := pointInt(ctx, cur)
			gx, gy, gok := pointInt(ctx, out[j][t2])
			require.Equal(t, wok, gok, "j=%d t=%d", j, t2)
			if wok {
				require.Equal(t, wx, gx, "j=%d t=%d X", j, t2)
				require.Equal(t, wy, gy, "j=%d t=%d Y", j, t2)
			}
		}
	}
}

func TestDicksonValueMatchesDirectRecurrence(t *testing.T) {
	a := big.NewInt(1)
	j := big.NewInt(4)

	d0 := ecpoint.DicksonValue(0, a, j)
	d1 := ecpoint.DicksonValue(1, a, j)
	require.Equal(t, big.NewInt(2), d0)
	require.Equal(t, j, d1)

	// D_2(j,a) = j*D_1 - a*D_0 = j^2 - 2a
	d2 := ecpoint.DicksonValue(2, a, j)
	want := new(big.Int).Sub(new(big.Int).Mul(j, j), new(big.Int).Mul(big.NewInt(2), a))
	require.Equal(t, want, d2)

	// D_3(j,a) = j*D_2 - a*D_1 = j^3 - 3aj
	d3 := ecpoint.DicksonValue(3, a, j)
	want3 := new(big.Int).Sub(new(big.Int).Exp(j, big.NewInt(3), nil), new(big.Int).Mul(big.NewInt(3), new(big.Int).Mul(a, j)))
	require.Equal(t, want3, d3)
}

func TestRootsFMatchesDirectScalarMul(t *testing.T) {
	ctx := newCtx(t)
	curve, x := findCurvePoint(t, ctx, 2, 3)

	a := big.NewInt(1)
	const s = 3
	js := []*big.Int{big.NewInt(2), big.NewInt(5), big.NewInt(7)}

	got, err := ecpoint.RootsF(ctx, curve, s, a, x, js)
	require.NoError(t, err)

	for i, j := range js {
		scalar := ecpoint.DicksonValue(s, a, j)
		neg := scalar.Sign() < 0
		abs := new(big.Int).Abs(scalar)
		want := scalarMulReference(t, ctx, curve, x, abs.Int64())
		if neg && want != nil {
			negY := bigmod.NewResidue()
			ctx.Neg(negY, want.Y)
			want = &ecpoint.Point{X: want.X, Y: negY}
		}
		wx, wy, wok := pointInt(ctx, want)
		gx, gy, gok := pointInt(ctx, got[i])
		require.Equal(t, wok, gok, "j=%v", j)
		if wok {
			require.Equal(t, wx, gx, "j=%v X", j)
			require.Equal(t, wy, gy, "j=%v Y", j)
		}
	}
}
