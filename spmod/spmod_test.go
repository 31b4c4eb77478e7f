package spmod_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wraythex/gmp-ecm/spmod"
)

const testPrime = uint64(0xffffffff00000001) // 2^64 - 2^32 + 1, NTT-friendly

func TestAddSubMul(t *testing.T) {
	m := spmod.NewModulus(testPrime)

	x, y := uint64(123456789), uint64(987654321)

	require.Equal(t, (x+y)%testPrime, m.Add(x, y))
	require.Equal(t, (x+testPrime-y%testPrime)%testPrime, m.Sub(x, y))

	bx := new(big.Int).SetUint64(x)
	by := new(big.Int).SetUint64(y)
	want := new(big.Int).Mod(new(big.Int).Mul(bx, by), new(big.Int).SetUint64(testPrime)).Uint64()
	require.Equal(t, want, m.Mul(x, y))
}

func TestMontgomeryRoundTrip(t *testing.T) {
	m := spmod.NewModulus(testPrime)
	a := uint64(5555555555)

	mont := m.MForm(a)
	back := m.InvMForm(mont)
	require.Equal(t, a, back)
}

func TestPowInv(t *testing.T) {
	m := spmod.NewModulus(testPrime)
	a := uint64(42)

	inv := m.Inv(a)
	require.Equal(t, uint64(1), m.Mul(a, inv))

	require.Equal(t, m.Mul(m.Mul(a, a), a), m.Pow(a, 3))
}

func TestPartialModHeadroom(t *testing.T) {
	// testPrime leaves no free bit of headroom under 2^64 (it's just
	// under 2^64), so partial-mod must be disallowed.
	m := spmod.NewModulus(testPrime)
	require.False(t, m.AllowsPartialMod())

	small := spmod.NewModulus(0x1FFFFFFFFFFFFFFF) // plenty of headroom
	require.True(t, small.AllowsPartialMod())
}
