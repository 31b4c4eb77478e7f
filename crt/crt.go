// Package crt implements the CRT basis (mpzspm): an ordered tuple of
// NTT-friendly small-prime moduli whose product exceeds a working
// bound, plus the precomputed tables needed to convert between a large
// residue mod N and a vector of small-prime residues.
//
// Grounded on lattigo's RNS basis (ring.Ring / ring_context.go
// CrtReconstruction table) generalized from "RNS basis for homomorphic
// rescaling" to "CRT basis for stage-2 reconstruction".
package crt

import (
	"math/big"

	"github.com/wraythex/gmp-ecm/internal/xerr"
	"github.com/wraythex/gmp-ecm/spmod"
)

// I0Threshold is the crossover point between the naive per-prime
// reduction and the fast product-tree reduction in FromInteger. Below
// this many primes, the O(k) independent big.Int mods are cheaper than
// building and descending a product tree; above it, the O(k log k)
// product-tree path wins, replacing the uncalibrated I0_THRESHOLD
// constant with a fixed crossover chosen for typical stage-2 basis
// sizes.
const I0Threshold = 8

// Basis is an immutable CRT basis: a set of small NTT primes and the
// reconstruction tables derived from them.
type Basis struct {
	Primes     []*spmod.Modulus
	MaxNTTSize int

	prod *big.Int // product of all primes

	crt1 []*big.Int // per-prime weight Prod/p_i
	crt3 []uint64   // per-prime (Prod/p_i)^-1 mod p_i
	invP []float64  // per-prime 1/p_i, for the floating-point rounding step
	crt2 []*big.Int // wraparound-cancellation table, crt2[w] = -w*Prod

	tree [][]*big.Int // product tree over Primes, tree[0] are the primes
}

// NewBasis builds a CRT basis from an explicit, caller-chosen list of
// NTT-friendly primes (primeᵢ ≡ 1 mod maxNTTSize). Returns
// UnsupportedLength if no prime satisfies the NTT-friendliness
// requirement, and InvalidParams if the product does not exceed bound.
func NewBasis(primes []uint64, maxNTTSize int, bound *big.Int) (*Basis, error) {
	if len(primes) == 0 {
		return nil, xerr.New(xerr.InvalidParams, "CRT basis requires at least one prime")
	}

	b := &Basis{MaxNTTSize: maxNTTSize}
	b.Primes = make([]*spmod.Modulus, len(primes))
	b.prod = big.NewInt(1)

	for i, p := range primes {
		if (p-1)%uint64(maxNTTSize) != 0 {
			return nil, xerr.New(xerr.UnsupportedLength, "CRT prime not congruent to 1 mod max NTT size")
		}
		b.Primes[i] = spmod.NewModulus(p)
		b.prod.Mul(b.prod, new(big.Int).SetUint64(p))
	}

	if bound != nil && b.prod.Cmp(bound) <= 0 {
		return nil, xerr.New(xerr.InvalidParams, "CRT basis product does not exceed bound")
	}

	b.buildReconstructionTables()
	b.buildProductTree()
	return b, nil
}

func (b *Basis) buildReconstructionTables() {
	k := len(b.Primes)
	b.crt1 = make([]*big.Int, k)
	b.crt3 = make([]uint64, k)
	b.invP = make([]float64, k)

	pBig := make([]*big.Int, k)
	for i, m := range b.Primes {
		pBig[i] = new(big.Int).SetUint64(m.P)
	}

	for i, m := range b.Primes {
		qi := new(big.Int).Div(b.prod, pBig[i])
		b.crt1[i] = qi

		qiModPi := new(big.Int).Mod(qi, pBig[i]).Uint64()
		b.crt3[i] = m.Inv(qiModPi)

		b.invP[i] = 1.0 / float64(m.P)
	}

	b.crt2 = make([]*big.Int, k+1)
	for w := 0; w <= k; w++ {
		b.crt2[w] = new(big.Int).Neg(new(big.Int).Mul(big.NewInt(int64(w)), b.prod))
	}
}

// buildProductTree builds a balanced binary product tree over the
// primes, used by the fast path of FromInteger when len(Primes) exceeds
// I0Threshold.
func (b *Basis) buildProductTree() {
	level := make([]*big.Int, len(b.Primes))
	for i, m := range b.Primes {
		level[i] = new(big.Int).SetUint64(m.P)
	}
	b.tree = [][]*big.Int{level}
	for len(level) > 1 {
		next := make([]*big.Int, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, new(big.Int).Mul(level[i], level[i+1]))
			} else {
				next = append(next, new(big.Int).Set(level[i]))
			}
		}
		b.tree = append(b.tree, next)
		level = next
	}
}

// Product returns the product of all primes in the basis.
func (b *Basis) Product() *big.Int {
	return new(big.Int).Set(b.prod)
}

// FromInteger reduces y (0 <= y < Product()) to a vector of per-prime
// residues. Chooses the naive or product-tree path per I0Threshold.
func (b *Basis) FromInteger(y *big.Int) []uint64 {
	if len(b.Primes) > I0Threshold {
		return b.fromIntegerTree(y)
	}
	return b.fromIntegerNaive(y)
}

func (b *Basis) fromIntegerNaive(y *big.Int) []uint64 {
	out := make([]uint64, len(b.Primes))
	tmp := new(big.Int)
	for i, m := range b.Primes {
		tmp.Mod(y, new(big.Int).SetUint64(m.P))
		out[i] = tmp.Uint64()
	}
	return out
}

// fromIntegerTree descends the product tree computed in buildProductTree,
// halving the number of large-integer mod operations at each level
// (O(k log k) total instead of O(k) independent mods against the full
// bit width of y).
func (b *Basis) fromIntegerTree(y *big.Int) []uint64 {
	top := len(b.tree) - 1
	remainders := []*big.Int{new(big.Int).Mod(y, b.tree[top][0])}

	for level := top - 1; level >= 0; level-- {
		nodes := b.tree[level]
		next := make([]*big.Int, 0, len(nodes))
		ri := 0
		for i := 0; i < len(nodes); i += 2 {
			parentRem := remainders[ri]
			ri++
			if i+1 < len(nodes) {
				next = append(next, new(big.Int).Mod(parentRem, nodes[i]))
				next = append(next, new(big.Int).Mod(parentRem, nodes[i+1]))
			} else {
				next = append(next, new(big.Int).Set(parentRem))
			}
		}
		remainders = next
	}

	out := make([]uint64, len(b.Primes))
	for i, r := range remainders {
		out[i] = r.Uint64()
	}
	return out
}

// ToInteger reconstructs y = CRT(residues) mod Product() using the
// Bernstein-Sorenson explicit CRT: with t_i = residues[i]*crt3[i] mod
// p_i, a floating-point accumulator f = 0.5 + sum(t_i/p_i) estimates the
// number of wraps, which the crt2 table then cancels exactly.
func (b *Basis) ToInteger(residues []uint64) *big.Int {
	sum := new(big.Int)
	f := 0.5

	for i, m := range b.Primes {
		t := m.Mul(residues[i], b.crt3[i])
		term := new(big.Int).Mul(new(big.Int).SetUint64(t), b.crt1[i])
		sum.Add(sum, term)
		f += float64(t) * b.invP[i]
	}

	w := int(f)
	if w < 0 {
		w = 0
	}
	if w >= len(b.crt2) {
		w = len(b.crt2) - 1
	}
	sum.Add(sum, b.crt2[w])

	if sum.Sign() < 0 {
		sum.Add(sum, b.prod)
	}
	for sum.Cmp(b.prod) >= 0 {
		sum.Sub(sum, b.prod)
	}
	return sum
}

// Normalise reduces an unnormalised vector segment (entries that may
// have drifted outside [0, p_i) after a batch of lazy multiplications)
// back to canonical form in place.
func (b *Basis) Normalise(vectors [][]uint64, offset, length int) {
	for pi, m := range b.Primes {
		v := vectors[pi]
		for j := offset; j < offset+length; j++ {
			if v[j] >= m.P {
				v[j] = new(big.Int).Mod(new(big.Int).SetUint64(v[j]), new(big.Int).SetUint64(m.P)).Uint64()
			}
		}
	}
}
