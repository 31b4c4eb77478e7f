package bigmod_test

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wraythex/gmp-ecm/bigmod"
)

func randOdd(t *testing.T, bits int, r *rand.Rand) *big.Int {
	t.Helper()
	n := new(big.Int).Rand(r, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	n.SetBit(n, 0, 1)
	if n.Sign() == 0 {
		n.SetInt64(1)
	}
	return n
}

func TestModArithmeticSoundness(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for _, bits := range []int{8, 64, 130, 512, 2000} {
		n := randOdd(t, bits, r)
		if n.Cmp(big.NewInt(3)) < 0 {
			continue
		}

		ctx, err := bigmod.NewContext(n)
		require.NoError(t, err)

		a := new(big.Int).Mod(new(big.Int).Rand(r, n), n)
		b := new(big.Int).Mod(new(big.Int).Rand(r, n), n)

		ra, rb, rz := bigmod.NewResidue(), bigmod.NewResidue(), bigmod.NewResidue()
		ctx.SetInt(ra, a)
		ctx.SetInt(rb, b)

		ctx.Add(rz, ra, rb)
		want := new(big.Int).Mod(new(big.Int).Add(a, b), n)
		require.Equal(t, want, ctx.Int(rz))

		ctx.Mul(rz, ra, rb)
		want.Mod(new(big.Int).Mul(a, b), n)
		require.Equal(t, want, ctx.Int(rz))

		e := big.NewInt(17)
		require.NoError(t, ctx.Pow(rz, ra, e))
		want.Exp(a, e, n)
		require.Equal(t, want, ctx.Int(rz))

		g := new(big.Int).GCD(nil, nil, a, n)
		if g.Cmp(big.NewInt(1)) == 0 {
			require.NoError(t, ctx.Invert(rz, ra))
			check := bigmod.NewResidue()
			ctx.Mul(check, rz, ra)
			require.Equal(t, big.NewInt(1), ctx.Int(check))
		} else if a.Sign() != 0 {
			err := ctx.Invert(rz, ra)
			require.Error(t, err)
			var noInv *bigmod.ErrNoInverse
			require.ErrorAs(t, err, &noInv)
			require.Equal(t, g, noInv.Gcd)
		}
	}
}

func TestMersenneShapeMatchesMontgomery(t *testing.T) {
	// 2^67 - 1 is not prime but odd and composite; NewContext detects its
	// Mersenne shape, and the product computed on that path must equal
	// the plain big.Int product mod n that the Montgomery path yields for
	// other odd moduli.
	n := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 67), big.NewInt(1))

	mersenne, err := bigmod.NewContext(n)
	require.NoError(t, err)

	a := big.NewInt(123456789)
	b := big.NewInt(987654321)

	ra, rb, rz := bigmod.NewResidue(), bigmod.NewResidue(), bigmod.NewResidue()
	mersenne.SetInt(ra, a)
	mersenne.SetInt(rb, b)
	mersenne.Mul(rz, ra, rb)

	want := new(big.Int).Mod(new(big.Int).Mul(a, b), n)
	require.Equal(t, want, mersenne.Int(rz))
}

func TestInvalidParams(t *testing.T) {
	_, err := bigmod.NewContext(big.NewInt(4))
	require.Error(t, err)

	_, err = bigmod.NewContext(big.NewInt(1))
	require.Error(t, err)
}
