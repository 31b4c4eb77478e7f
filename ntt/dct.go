package ntt

import (
	"github.com/wraythex/gmp-ecm/internal/xerr"
	"github.com/wraythex/gmp-ecm/spmod"
)

// DCTI computes the length-(n+1) type-I discrete cosine transform of x
// (x[0..n], the symmetric coefficients of a reciprocal Laurent
// polynomial) by folding it into the even-symmetric extension of a
// length-2n NTT and reading back the first n+1 outputs: the classic
// "DCT-I via a real-even DFT of twice the length" identity, carried
// over to the modular field this package works in. root2n must be a
// primitive (2n)-th root of unity.
func DCTI(planner *Planner, m *spmod.Modulus, root2n uint64, x []uint64) ([]uint64, error) {
	n := len(x) - 1
	if n < 1 {
		return nil, xerr.New(xerr.InvalidParams, "DCT-I requires at least 2 coefficients")
	}

	y := make([]uint64, 2*n)
	copy(y[:n+1], x)
	for i := 1; i < n; i++ {
		y[2*n-i] = x[i]
	}

	r, err := NewRunner(planner, m, root2n, 2*n)
	if err != nil {
		return nil, err
	}
	full := r.Forward(y)
	return full[:n+1], nil
}
