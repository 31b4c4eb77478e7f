package crt

import (
	"math/big"

	"github.com/ALTree/bigfloat"
)

// avgPrimeBits is the bit length of the 61-bit NTT-friendly primes the
// candidate pools in this package draw from.
const avgPrimeBits = 61

// estimateBasisSize predicts how many avgPrimeBits-sized primes are
// needed for their product to exceed bound, via bigfloat's
// extended-precision Log: bound.BitLen() alone only bounds log2(bound)
// to within one bit, and converting bound to a float64 to take its
// natural log directly would overflow long before bound reaches the
// magnitudes stage-2 bounds can take (N^2-sized products routinely run
// into the thousands of bits), so the division is done entirely in
// big.Float instead of being pulled down into float64 first.
func estimateBasisSize(bound *big.Int) int {
	if bound.Sign() <= 0 {
		return 1
	}
	prec := uint(bound.BitLen() + 64)
	logBound := bigfloat.Log(new(big.Float).SetPrec(prec).SetInt(bound))
	logPrime := bigfloat.Log(new(big.Float).SetPrec(prec).SetMantExp(big.NewFloat(1), avgPrimeBits))

	ratio := new(big.Float).SetPrec(prec).Quo(logBound, logPrime)
	n, _ := ratio.Int64()
	return int(n) + 1
}

// BuildBasisForBound selects primes from an ordered candidate pool (all
// congruent to 1 mod maxNTTSize, by construction of the pool) until
// their product exceeds bound, then builds the Basis.
func BuildBasisForBound(candidates []uint64, maxNTTSize int, bound *big.Int) (*Basis, error) {
	estimate := estimateBasisSize(bound)

	chosen := make([]uint64, 0, estimate)
	prod := big.NewInt(1)
	for _, p := range candidates {
		if prod.Cmp(bound) > 0 {
			break
		}
		chosen = append(chosen, p)
		prod.Mul(prod, new(big.Int).SetUint64(p))
	}

	return NewBasis(chosen, maxNTTSize, bound)
}
