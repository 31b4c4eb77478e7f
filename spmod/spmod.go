// Package spmod implements fixed-width residue arithmetic modulo a
// machine-word NTT prime (sp_t / spm), following the Barrett/Montgomery
// reduction idioms of lattigo's ring package
// (ring/modular_reduction.go), generalized with partial-mod ("lazy")
// variants for codelet composition.
package spmod

import "math/bits"

// Modulus holds p and the precomputed constants needed for fast
// reduction against it: Barrett constants for BRed-style reduction and a
// Montgomery word constant for MRed-style reduction. Immutable once
// built by NewModulus.
type Modulus struct {
	P uint64

	bred [2]uint64 // Barrett reduction constants
	mred uint64    // Montgomery word constant: P^-1 mod 2^64

	// headroom reports how many leading bits of the 64-bit word are free
	// above P; partial-mod ("lazy") variants are only legal when this is
	// >= 2.
	headroom int
}

// NewModulus builds the fast-reduction constants for prime p.
func NewModulus(p uint64) *Modulus {
	m := &Modulus{P: p}
	m.bred = bredParams(p)
	if p&1 == 1 {
		m.mred = mredParams(p)
	}
	m.headroom = bits.LeadingZeros64(p)
	return m
}

// AllowsPartialMod reports whether this modulus leaves >= 2 bits of
// headroom under 2^64, the threshold at which "partial-mod" (lazy,
// [0, 2p) range) codelet variants are safe.
func (m *Modulus) AllowsPartialMod() bool {
	return m.headroom >= 2
}

func bredParams(q uint64) [2]uint64 {
	return bred128(q)
}

// bred128 computes floor(2^128 / q) as two 64-bit words (hi, lo).
func bred128(q uint64) [2]uint64 {
	// Long division of the 128-bit numerator 2^128 (represented as
	// (hi=1, lo=0, extra=0) conceptually) by q, one bit at a time.
	var quotHi, quotLo uint64
	var remHi, remLo uint64 = 0, 1 // numerator bit stream starts after the implicit leading 1
	// We compute floor((1<<128)/q) via 129 long-division steps starting
	// with remainder = 1 (the bit that would overflow 128 bits).
	for i := 0; i < 128; i++ {
		// shift remainder left by 1, pull in a zero bit (since numerator
		// is exactly 2^128, all subsequent bits are zero)
		remHi = remHi<<1 | remLo>>63
		remLo = remLo << 1

		quotHi = quotHi<<1 | quotLo>>63
		quotLo <<= 1

		if remHi != 0 || remLo >= q {
			// subtract q from (remHi:remLo) when remHi != 0 it's always >= q
			// since q fits in 64 bits; handle the 128-bit subtract directly.
			var borrow uint64
			remLo, borrow = bits.Sub64(remLo, q, 0)
			remHi, _ = bits.Sub64(remHi, 0, borrow)
			quotLo |= 1
		}
	}
	return [2]uint64{quotHi, quotLo}
}

// mredParams computes qInv = q^-1 mod 2^64 for odd q via Hensel
// lifting, required by MRed.
func mredParams(q uint64) uint64 {
	x := uint64(1)
	for i := 0; i < 6; i++ {
		x *= 2 - q*x
	}
	return x
}

// Add computes (x+y) mod p.
func (m *Modulus) Add(x, y uint64) uint64 {
	z := x + y
	if z >= m.P || z < x {
		z -= m.P
	}
	return z
}

// AddLazy computes x+y without reducing, leaving the result in [0, 2p)
// when both operands already are. Legal only when AllowsPartialMod.
func (m *Modulus) AddLazy(x, y uint64) uint64 {
	return x + y
}

// Sub computes (x-y) mod p.
func (m *Modulus) Sub(x, y uint64) uint64 {
	if x >= y {
		return x - y
	}
	return x - y + m.P
}

// SubLazy computes x-y+p, valid when inputs are in [0, 2p) and the
// caller tolerates a [0, 2p) result (partial-mod convention: offset by
// +p instead of branching).
func (m *Modulus) SubLazy(x, y uint64) uint64 {
	return x - y + m.P
}

// Neg computes (-x) mod p.
func (m *Modulus) Neg(x uint64) uint64 {
	if x == 0 {
		return 0
	}
	return m.P - x
}

// Mul computes x*y mod p using Barrett reduction.
func (m *Modulus) Mul(x, y uint64) uint64 {
	return bred(x, y, m.P, m.bred)
}

// MulMontgomery computes x*y*2^-64 mod p (the Montgomery product); x and
// y are assumed already in Montgomery form aR mod p.
func (m *Modulus) MulMontgomery(x, y uint64) uint64 {
	return mred(x, y, m.P, m.mred)
}

// MulLazy computes x*y mod p but may return a value in [0, 2p), the
// partial-mod convention that saves a branchless subtract inside a
// codelet's inner loop. Legal only when AllowsPartialMod.
func (m *Modulus) MulLazy(x, y uint64) uint64 {
	return bredLazy(x, y, m.P, m.bred)
}

// Canonicalize reduces a value known to be in [0, 2p) down to [0, p).
// This is the final-stage canonicalization every partial-mod codelet
// chain must apply before handing results across a package boundary.
func (m *Modulus) Canonicalize(x uint64) uint64 {
	if x >= m.P {
		return x - m.P
	}
	return x
}

// Pow computes x^e mod p by square-and-multiply.
func (m *Modulus) Pow(x, e uint64) uint64 {
	result := uint64(1)
	base := x
	for e > 0 {
		if e&1 == 1 {
			result = m.Mul(result, base)
		}
		base = m.Mul(base, base)
		e >>= 1
	}
	return result
}

// Inv computes x^-1 mod p via Fermat's little theorem (p is prime).
func (m *Modulus) Inv(x uint64) uint64 {
	return m.Pow(x, m.P-2)
}

func bred(x, y, q uint64, u [2]uint64) uint64 {
	ahi, alo := bits.Mul64(x, y)
	return bredReduce(ahi, alo, q, u)
}

func bredLazy(x, y, q uint64, u [2]uint64) uint64 {
	ahi, alo := bits.Mul64(x, y)
	return bredReduceLazy(ahi, alo, q, u)
}

// bredReduce reduces the 128-bit product (ahi:alo) modulo q using the
// precomputed Barrett constants u, following lattigo's ring.BRed. For
// q above 2^64/3 the Barrett remainder can exceed one word, so those
// moduli use an exact 128-by-64-bit division instead.
func bredReduce(ahi, alo, q uint64, u [2]uint64) uint64 {
	if q > ^uint64(0)/3 {
		return bits.Rem64(ahi, alo, q)
	}
	r := bredReduceLazy(ahi, alo, q, u)
	if r >= q {
		r -= q
	}
	return r
}

func bredReduceLazy(ahi, alo, q uint64, u [2]uint64) uint64 {
	var lhi, mhi, mlo, s0, s1, carry uint64

	lhi, _ = bits.Mul64(alo, u[1])

	mhi, mlo = bits.Mul64(alo, u[0])
	s0, carry = bits.Add64(mlo, lhi, 0)
	s1 = mhi + carry

	mhi, mlo = bits.Mul64(ahi, u[1])
	_, carry = bits.Add64(mlo, s0, 0)
	lhi = mhi + carry

	s0 = ahi*u[0] + s1 + lhi

	return alo - s0*q
}

// mred computes x*y*2^-64 mod q (Montgomery product), following
// lattigo's ring.MRed.
func mred(x, y, q, qInv uint64) uint64 {
	ahi, alo := bits.Mul64(x, y)
	r := alo * qInv
	h, _ := bits.Mul64(r, q)
	out := ahi - h + q
	if out >= q {
		out -= q
	}
	return out
}
