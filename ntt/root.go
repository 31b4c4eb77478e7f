// Package ntt implements the small-prime NTT kernel: size-specific
// codelets, a planner that factors a transform length into supported
// radices and chooses between Cooley-Tukey and prime-factor (PFA)
// composition, and a runner that executes the resulting plan.
//
// Grounded on lattigo's ring.Table / ring.SubRing root-of-unity
// machinery (subring.go's PrimitiveRoot/CheckPrimitiveRoot, ntt.go's
// butterfly/invbutterfly), generalized from a fixed power-of-two
// length to the mixed-radix {2,3,5,7}-smooth lengths a stage-2 NTT
// transform needs.
package ntt

import (
	"github.com/wraythex/gmp-ecm/internal/xerr"
	"github.com/wraythex/gmp-ecm/spmod"
)

// distinctFactors returns the distinct prime factors of n, found by
// trial division followed by a primality check on the remaining
// cofactor. Good enough for the word-sized p-1 values NTT primes in
// this package ever produce; not a general-purpose factorizer.
func distinctFactors(n uint64) []uint64 {
	var out []uint64
	m := n
	for _, p := range []uint64{2, 3, 5, 7, 11, 13} {
		if m%p == 0 {
			out = append(out, p)
			for m%p == 0 {
				m /= p
			}
		}
	}
	for d := uint64(17); d*d <= m; d += 2 {
		if m%d == 0 {
			out = append(out, d)
			for m%d == 0 {
				m /= d
			}
		}
	}
	if m > 1 {
		out = append(out, m)
	}
	return out
}

// PrimitiveRoot finds the smallest primitive root of m.P, following
// lattigo's subring.go PrimitiveRoot search but factoring p-1 with
// distinctFactors instead of utils.GetFactors.
func PrimitiveRoot(m *spmod.Modulus) uint64 {
	factors := distinctFactors(m.P - 1)
	for g := uint64(2); ; g++ {
		isRoot := true
		for _, f := range factors {
			if m.Pow(g, (m.P-1)/f) == 1 {
				isRoot = false
				break
			}
		}
		if isRoot {
			return g
		}
	}
}

// RootOfUnity returns a primitive L-th root of unity modulo m.P, where
// L must divide p-1. Returns UnsupportedLength otherwise.
func RootOfUnity(m *spmod.Modulus, L uint64) (uint64, error) {
	if L == 0 || (m.P-1)%L != 0 {
		return 0, xerr.New(xerr.UnsupportedLength, "transform length does not divide p-1")
	}
	g := PrimitiveRoot(m)
	return m.Pow(g, (m.P-1)/L), nil
}

// IsNTTFriendly reports whether p is congruent to 1 mod L, the
// precondition a CRT prime must satisfy to host length-L transforms.
func IsNTTFriendly(p uint64, L uint64) bool {
	return (p-1)%L == 0
}
